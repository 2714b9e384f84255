package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"fileshare/file-api/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownSettingKey = errors.New("unknown setting key")

// Settings loads the three admin-configurable sections once, keeps
// them behind a mutex and refreshes through an explicit Reload. It is
// passed into handlers instead of living as a package singleton.
type Settings struct {
	db *gorm.DB

	mu       sync.RWMutex
	storage  model.StorageSettings
	security model.SecuritySettings
	display  model.DisplaySettings
}

func NewSettings(db *gorm.DB) (*Settings, error) {
	s := &Settings{db: db}

	if err := s.Seed(); err != nil {
		return nil, err
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Seed inserts default rows for any missing section. Existing rows are
// left alone so re-running it is safe.
func (s *Settings) Seed() error {
	defaults := map[string]any{
		model.SettingStorage:  model.DefaultStorageSettings(),
		model.SettingSecurity: model.DefaultSecuritySettings(),
		model.SettingDisplay:  model.DefaultDisplaySettings(),
	}

	for key, value := range defaults {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}

		err = s.db.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoNothing: true,
			}).
			Create(&model.Setting{Key: key, Value: string(raw)}).
			Error
		if err != nil {
			return fmt.Errorf("failed to seed %s settings, %w", key, err)
		}
	}

	return nil
}

// Reload re-reads every section from the database into the cache
func (s *Settings) Reload() error {
	var rows []model.Setting

	err := s.db.Find(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to load settings, %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		switch row.Key {
		case model.SettingStorage:
			err = json.Unmarshal([]byte(row.Value), &s.storage)
		case model.SettingSecurity:
			err = json.Unmarshal([]byte(row.Value), &s.security)
		case model.SettingDisplay:
			err = json.Unmarshal([]byte(row.Value), &s.display)
		}
		if err != nil {
			return fmt.Errorf("failed to decode %s settings, %w", row.Key, err)
		}
	}

	return nil
}

// Save upserts one section wholesale and refreshes the cache
func (s *Settings) Save(key string, value json.RawMessage) error {
	switch key {
	case model.SettingStorage:
		var v model.StorageSettings
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
	case model.SettingSecurity:
		var v model.SecuritySettings
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
	case model.SettingDisplay:
		var v model.DisplaySettings
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
	default:
		return ErrUnknownSettingKey
	}

	err := s.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model.Setting{Key: key, Value: string(value)}).
		Error
	if err != nil {
		return fmt.Errorf("failed to save %s settings, %w", key, err)
	}

	return s.Reload()
}

func (s *Settings) Storage() model.StorageSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage
}

func (s *Settings) Security() model.SecuritySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.security
}

func (s *Settings) Display() model.DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// All returns the raw rows for the admin settings endpoint
func (s *Settings) All() ([]model.Setting, error) {
	var rows []model.Setting

	err := s.db.Order("key").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load settings, %w", err)
	}

	return rows, nil
}

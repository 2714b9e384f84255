package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"fileshare/file-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Setting{}))

	return db
}

func TestSettingsSeedDefaults(t *testing.T) {
	s, err := NewSettings(newSettingsDB(t))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultStorageSettings(), s.Storage())
	assert.Equal(t, model.DefaultSecuritySettings(), s.Security())
	assert.Equal(t, model.DefaultDisplaySettings(), s.Display())
}

func TestSettingsSeedKeepsExistingRows(t *testing.T) {
	db := newSettingsDB(t)

	s, err := NewSettings(db)
	require.NoError(t, err)

	custom := model.StorageSettings{MaxFileSize: 5, AllowedFileTypes: "image/*", AutoDeleteDays: 3}
	raw, err := json.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, s.Save(model.SettingStorage, raw))

	// A second seed must not reset anything
	require.NoError(t, s.Seed())
	require.NoError(t, s.Reload())
	assert.Equal(t, custom, s.Storage())
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	s, err := NewSettings(newSettingsDB(t))
	require.NoError(t, err)

	raw, err := json.Marshal(model.DisplaySettings{
		SiteName:        "DropZone",
		SiteDescription: "Files, shared",
		PrimaryColor:    "#ff0066",
	})
	require.NoError(t, err)

	require.NoError(t, s.Save(model.SettingDisplay, raw))
	assert.Equal(t, "DropZone", s.Display().SiteName)

	rows, err := s.All()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSettingsSaveUnknownKey(t *testing.T) {
	s, err := NewSettings(newSettingsDB(t))
	require.NoError(t, err)

	err = s.Save("themes", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownSettingKey)
}

func TestSettingsSaveRejectsMalformedValue(t *testing.T) {
	s, err := NewSettings(newSettingsDB(t))
	require.NoError(t, err)

	err = s.Save(model.SettingStorage, json.RawMessage(`{"maxFileSize":"lots"}`))
	assert.Error(t, err)
}

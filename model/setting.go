package model

import "time"

// Setting keys. One row per key, upserted wholesale on save.
const (
	SettingStorage  = "storage"
	SettingSecurity = "security"
	SettingDisplay  = "display"
)

type Setting struct {
	ID  uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Key string `gorm:"uniqueIndex;not null" json:"key"`
	// JSON blob of one of the *Settings structs below
	Value string `json:"value"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StorageSettings struct {
	// Megabytes
	MaxFileSize      int64  `json:"maxFileSize"`
	AllowedFileTypes string `json:"allowedFileTypes"`
	// 0 disables the retention sweep
	AutoDeleteDays int `json:"autoDeleteDays"`
}

type SecuritySettings struct {
	PublicAccess     bool `json:"publicAccess"`
	RequirePassword  bool `json:"requirePassword"`
	EnableEncryption bool `json:"enableEncryption"`
}

type DisplaySettings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	PrimaryColor    string `json:"primaryColor"`
}

func DefaultStorageSettings() StorageSettings {
	return StorageSettings{
		MaxFileSize:      100,
		AllowedFileTypes: "*",
		AutoDeleteDays:   0,
	}
}

func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{
		PublicAccess:     true,
		RequirePassword:  false,
		EnableEncryption: false,
	}
}

func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		SiteName:        "FileShare",
		SiteDescription: "Simple & Fast File Sharing",
		PrimaryColor:    "#0070f3",
	}
}

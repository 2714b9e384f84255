// Package model defines database models
package model

import "time"

// FileMetadata holds the access-control row written right after a blob
// lands in the object store. Rows are keyed by FileID and re-upserted
// wholesale, never partially updated.
type FileMetadata struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	FileID string `gorm:"uniqueIndex;not null" json:"file_id"`

	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`

	PasswordProtected bool `json:"password_protected"`
	// Argon2id PHC string, never the raw password
	PasswordHash      string `json:"-"`
	EncryptionEnabled bool   `json:"encryption_enabled"`

	ExpiryEnabled bool       `json:"expiry_enabled"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`

	// Best-effort personalization key, not an identity. Requests from
	// the same address see each other's uploads, which is accepted.
	UploaderIP string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// Expired reports whether the row's expiry window has passed.
func (f *FileMetadata) Expired(now time.Time) bool {
	return f.ExpiryEnabled && f.ExpiryDate != nil && now.After(*f.ExpiryDate)
}

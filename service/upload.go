package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"fileshare/file-api/model"
	"fileshare/file-api/security"
	"fileshare/file-api/storage"
	"fileshare/file-api/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UploadOptions carries the optional multipart fields next to the file
type UploadOptions struct {
	Password   string
	Encrypt    bool
	Expiry     *time.Time
	UploaderIP string
}

// UploadResult is what the caller needs to hand back a shareable link
type UploadResult struct {
	FileID string
	URL    string
}

// Uploader runs the upload pipeline: generate an id, optionally run the
// shared-key cipher over the payload, write the blob, then write the
// metadata row. The blob write and the row write are not transactional;
// a failed row write triggers a best-effort compensating blob delete.
type Uploader struct {
	DB    *gorm.DB
	Store storage.Store
	Argon *security.ArgonHash
	// Nil when no shared encryption key is configured
	Cipher *Cipher
}

func (u *Uploader) Upload(ctx context.Context, fh *multipart.FileHeader, opts UploadOptions) (*UploadResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file, %w", err)
	}
	defer f.Close()

	fileID := GenerateFileID(fh.Filename)
	key := storage.UploadsPrefix + fileID

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var body io.Reader = f
	size := fh.Size
	encrypted := false

	if opts.Encrypt {
		if u.Cipher == nil {
			// Preserved quirk: without a configured key the flag is
			// silently ignored and the plaintext goes up as-is
			zap.L().Warn("Encryption requested but no crypto key configured, storing plaintext",
				zap.String("file_id", fileID))
		} else {
			plaintext, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read uploaded file, %w", err)
			}

			sealed, err := u.Cipher.Encrypt(plaintext)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt uploaded file, %w", err)
			}

			body = bytes.NewReader(sealed)
			size = int64(len(sealed))
			// Ciphertext previews make no sense in a browser
			contentType = "application/octet-stream"
			encrypted = true
		}
	}

	if err := u.Store.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload file, %w", err)
	}

	row := model.FileMetadata{
		FileID:            fileID,
		OriginalName:      fh.Filename,
		Size:              fh.Size,
		Type:              fh.Header.Get("Content-Type"),
		PasswordProtected: opts.Password != "",
		EncryptionEnabled: encrypted,
		ExpiryEnabled:     opts.Expiry != nil,
		ExpiryDate:        opts.Expiry,
		UploaderIP:        opts.UploaderIP,
	}

	if opts.Password != "" {
		hash, err := u.Argon.Hash(opts.Password)
		if err != nil {
			u.compensate(key)
			return nil, fmt.Errorf("failed to hash file password, %w", err)
		}
		row.PasswordHash = hash
	}

	err = u.DB.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "file_id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
	if err != nil {
		u.compensate(key)
		return nil, fmt.Errorf("failed to store file metadata, %w", err)
	}

	return &UploadResult{
		FileID: fileID,
		URL:    "/file/" + fileID,
	}, nil
}

// compensate removes the just-written blob after a failed metadata
// write. Best effort, no retry; an orphan is swept later by retention.
func (u *Uploader) compensate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := u.Store.Delete(ctx, key); err != nil {
		zap.L().Error("Failed to clean up blob after failed metadata write",
			zap.String("key", key), zap.Error(err))
	}
}

// GenerateFileID builds the storage key: a random UUID plus a sanitized
// derivative of the original base name. The extension stays out of the
// key and travels in the metadata row's type/original_name instead.
func GenerateFileID(filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(path.Base(filename), ext)

	id := uuid.NewString()
	if s := util.SanitizeName(base); s != "" {
		id += "-" + s
	}

	return id
}

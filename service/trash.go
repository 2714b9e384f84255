package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fileshare/file-api/storage"

	"go.uber.org/zap"
)

// Trash implements the soft-delete lifecycle. A trashed file is only a
// blob under the trash/ prefix; metadata rows are left in place so a
// restore brings everything back untouched.
type Trash struct {
	Store storage.Store
}

// SoftDelete moves uploads/<id> to trash/<id>. Copy runs before the
// delete so a failure in between leaves a recoverable duplicate rather
// than a lost file.
func (t *Trash) SoftDelete(ctx context.Context, fileID string) error {
	src := storage.UploadsPrefix + fileID
	dst := storage.TrashPrefix + fileID

	if err := t.Store.Copy(ctx, src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to trash, %w", fileID, err)
	}

	if err := t.Store.Delete(ctx, src); err != nil {
		return fmt.Errorf("failed to remove %s after trashing, %w", fileID, err)
	}

	return nil
}

// Restore is the inverse pair, trash/<id> back to uploads/<id>
func (t *Trash) Restore(ctx context.Context, fileID string) error {
	src := storage.TrashPrefix + fileID
	dst := storage.UploadsPrefix + fileID

	if err := t.Store.Copy(ctx, src, dst); err != nil {
		return fmt.Errorf("failed to restore %s, %w", fileID, err)
	}

	if err := t.Store.Delete(ctx, src); err != nil {
		return fmt.Errorf("failed to remove %s from trash after restore, %w", fileID, err)
	}

	return nil
}

// List returns everything currently in the trash
func (t *Trash) List(ctx context.Context) ([]storage.Object, error) {
	return t.Store.List(ctx, storage.TrashPrefix)
}

// PurgeAll removes every blob under trash/ and reports how many went
func (t *Trash) PurgeAll(ctx context.Context) (int, error) {
	objects, err := t.Store.List(ctx, storage.TrashPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list trash, %w", err)
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}

	return t.Store.DeleteBatch(ctx, keys)
}

// AutoDelete removes uploads older than the retention window. days <= 0
// means the feature is disabled and nothing is touched.
func (t *Trash) AutoDelete(ctx context.Context, days int) ([]string, error) {
	if days <= 0 {
		return nil, nil
	}

	objects, err := t.Store.List(ctx, storage.UploadsPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads, %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var keys []string
	for _, o := range objects {
		if o.CreatedAt.Before(cutoff) {
			keys = append(keys, o.Key)
		}
	}

	if len(keys) == 0 {
		return nil, nil
	}

	if _, err := t.Store.DeleteBatch(ctx, keys); err != nil {
		return nil, fmt.Errorf("failed to delete expired uploads, %w", err)
	}

	deleted := make([]string, 0, len(keys))
	for _, k := range keys {
		deleted = append(deleted, strings.TrimPrefix(k, storage.UploadsPrefix))
	}

	zap.L().Info("Retention sweep finished",
		zap.Int("deleted", len(deleted)),
		zap.Int("retention_days", days))

	return deleted, nil
}

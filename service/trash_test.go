package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"fileshare/file-api/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putObject(t *testing.T, s storage.Store, key, content string) {
	t.Helper()

	err := s.Put(context.Background(), key, strings.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)
}

func readObject(t *testing.T, s storage.Store, key string) string {
	t.Helper()

	body, _, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	return string(data)
}

func TestSoftDeleteThenRestore(t *testing.T) {
	s := storage.NewMemStore()
	tr := &Trash{Store: s}
	ctx := context.Background()

	putObject(t, s, storage.UploadsPrefix+"abc", "file content")

	require.NoError(t, tr.SoftDelete(ctx, "abc"))

	_, _, err := s.Get(ctx, storage.UploadsPrefix+"abc")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, "file content", readObject(t, s, storage.TrashPrefix+"abc"))

	require.NoError(t, tr.Restore(ctx, "abc"))

	assert.Equal(t, "file content", readObject(t, s, storage.UploadsPrefix+"abc"))

	trashed, err := tr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, trashed)
}

func TestSoftDeleteMissingFile(t *testing.T) {
	tr := &Trash{Store: storage.NewMemStore()}

	err := tr.SoftDelete(context.Background(), "nope")
	assert.Error(t, err)
}

func TestPurgeAllReportsCount(t *testing.T) {
	s := storage.NewMemStore()
	tr := &Trash{Store: s}
	ctx := context.Background()

	const n = 7
	for i := range n {
		key := fmt.Sprintf("file-%d", i)
		putObject(t, s, storage.UploadsPrefix+key, "x")
		require.NoError(t, tr.SoftDelete(ctx, key))
	}

	deleted, err := tr.PurgeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, deleted)

	trashed, err := tr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, trashed)
}

func TestPurgeAllEmptyTrash(t *testing.T) {
	tr := &Trash{Store: storage.NewMemStore()}

	deleted, err := tr.PurgeAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestAutoDeleteRemovesOnlyExpired(t *testing.T) {
	s := storage.NewMemStore()
	tr := &Trash{Store: s}
	ctx := context.Background()

	putObject(t, s, storage.UploadsPrefix+"old", "x")
	putObject(t, s, storage.UploadsPrefix+"older", "x")
	putObject(t, s, storage.UploadsPrefix+"fresh", "x")

	s.SetCreatedAt(storage.UploadsPrefix+"old", time.Now().AddDate(0, 0, -8))
	s.SetCreatedAt(storage.UploadsPrefix+"older", time.Now().AddDate(0, 0, -30))

	deleted, err := tr.AutoDelete(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old", "older"}, deleted)

	_, _, err = s.Get(ctx, storage.UploadsPrefix+"fresh")
	assert.NoError(t, err)
}

func TestAutoDeleteBoundary(t *testing.T) {
	s := storage.NewMemStore()
	tr := &Trash{Store: s}

	// Just under the cutoff stays
	putObject(t, s, storage.UploadsPrefix+"edge", "x")
	s.SetCreatedAt(storage.UploadsPrefix+"edge", time.Now().AddDate(0, 0, -1).Add(time.Minute))

	deleted, err := tr.AutoDelete(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestAutoDeleteDisabled(t *testing.T) {
	s := storage.NewMemStore()
	tr := &Trash{Store: s}
	ctx := context.Background()

	putObject(t, s, storage.UploadsPrefix+"ancient", "x")
	s.SetCreatedAt(storage.UploadsPrefix+"ancient", time.Now().AddDate(-1, 0, 0))

	for _, days := range []int{0, -1} {
		deleted, err := tr.AutoDelete(ctx, days)
		require.NoError(t, err)
		assert.Empty(t, deleted)
	}

	_, _, err := s.Get(ctx, storage.UploadsPrefix+"ancient")
	assert.NoError(t, err)
}

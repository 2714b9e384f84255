package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStorePutGet(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	err := s.Put(ctx, UploadsPrefix+"a", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)

	body, obj, err := s.Get(ctx, UploadsPrefix+"a")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)

	assert.Equal(t, "hello", string(data))
	assert.Equal(t, int64(5), obj.Size)
	assert.Equal(t, "text/plain", obj.ContentType)
	assert.False(t, obj.CreatedAt.IsZero())
}

func TestMemStoreGetMissing(t *testing.T) {
	s := NewMemStore()

	_, _, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreCopyMissing(t *testing.T) {
	s := NewMemStore()

	err := s.Copy(context.Background(), "nope", "there")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreListByPrefix(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, UploadsPrefix+"one", strings.NewReader("1"), 1, ""))
	require.NoError(t, s.Put(ctx, UploadsPrefix+"two", strings.NewReader("2"), 1, ""))
	require.NoError(t, s.Put(ctx, TrashPrefix+"gone", strings.NewReader("3"), 1, ""))

	uploads, err := s.List(ctx, UploadsPrefix)
	require.NoError(t, err)
	assert.Len(t, uploads, 2)

	trash, err := s.List(ctx, TrashPrefix)
	require.NoError(t, err)
	assert.Len(t, trash, 1)
	assert.Equal(t, TrashPrefix+"gone", trash[0].Key)
}

func TestMemStoreDeleteBatchCountsExisting(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", strings.NewReader("1"), 1, ""))
	require.NoError(t, s.Put(ctx, "b", strings.NewReader("2"), 1, ""))

	n, err := s.DeleteBatch(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemStore keeps objects in a map. Used by tests and by local
// development when no bucket is reachable.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
	createdAt   time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

func (m *MemStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = memObject{
		data:        data,
		contentType: contentType,
		createdAt:   time.Now(),
	}

	return nil
}

func (m *MemStore) Get(_ context.Context, key string) (io.ReadCloser, *Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.objects[key]
	if !ok {
		return nil, nil, ErrNotFound
	}

	obj := &Object{
		Key:         key,
		Size:        int64(len(o.data)),
		ContentType: o.contentType,
		CreatedAt:   o.createdAt,
	}

	return io.NopCloser(bytes.NewReader(o.data)), obj, nil
}

func (m *MemStore) Copy(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.objects[src]
	if !ok {
		return ErrNotFound
	}

	m.objects[dst] = o
	return nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

func (m *MemStore) DeleteBatch(_ context.Context, keys []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, k := range keys {
		if _, ok := m.objects[k]; ok {
			delete(m.objects, k)
			n++
		}
	}

	return n, nil
}

func (m *MemStore) List(_ context.Context, prefix string) ([]Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var objects []Object
	for k, o := range m.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		objects = append(objects, Object{
			Key:         k,
			Size:        int64(len(o.data)),
			ContentType: o.contentType,
			CreatedAt:   o.createdAt,
		})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// SetCreatedAt backdates an object. Only useful in retention tests.
func (m *MemStore) SetCreatedAt(key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.objects[key]; ok {
		o.createdAt = t
		m.objects[key] = o
	}
}

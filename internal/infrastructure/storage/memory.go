package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/printshop/backend/internal/application/attachment"
)

var _ attachment.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in memory. It backs development setups
// without a bucket and the service tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StoredObject
}

// StoredObject is one object held by MemoryObjectStorage
type StoredObject struct {
	Data        []byte
	ContentType string
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:8080/files",
		objects: make(map[string]StoredObject),
	}
}

// Upload stores a copy of data
func (m *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = StoredObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// DeleteObject removes storageKey
func (m *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}

// GenerateDownloadURL returns BaseURL/key with an expires query parameter
func (m *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	u := m.BaseURL + "/" + storageKey + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// Get returns the object stored under storageKey
func (m *MemoryObjectStorage) Get(storageKey string) (StoredObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[storageKey]
	return obj, ok
}

// Len returns the number of stored objects
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStore keeps objects in process. Used by the memory driver and tests.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	objects map[string]memoryObject
	// FailDelete forces Delete to fail, for exercising error paths.
	FailDelete error
}

// NewMemoryStore issues URLs of the form baseURL/<owner>/<file>.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: strings.TrimRight(baseURL, "/"), objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Validate(contentType string, size int) error {
	return Validate(contentType, size)
}

func (m *MemoryStore) Put(_ context.Context, ownerID string, data []byte, contentType string) (domain.Media, error) {
	if err := Validate(contentType, len(data)); err != nil {
		return domain.Media{}, err
	}
	key, err := newKey(ownerID, contentType)
	if err != nil {
		return domain.Media{}, err
	}
	m.mu.Lock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: normalize(contentType)}
	m.mu.Unlock()
	return newMedia(contentType, m.baseURL+"/"+key), nil
}

func (m *MemoryStore) Delete(_ context.Context, url string) error {
	if m.FailDelete != nil {
		return domain.StorageError("failed to delete media", m.FailDelete)
	}
	key, err := keyFor(m.baseURL, url)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Owner(url string) (string, bool) {
	_, owner, ok := splitObjectURL(m.baseURL, url)
	return owner, ok
}

// Object returns a copy of the object stored under key.
func (m *MemoryStore) Object(key string) (data []byte, contentType string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}

// Has reports whether the object behind url is stored.
func (m *MemoryStore) Has(url string) bool {
	key, err := keyFor(m.baseURL, url)
	if err != nil {
		return false
	}
	_, _, ok := m.Object(key)
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*S3Store)(nil)
	_ Store = (*BreakerStore)(nil)
)

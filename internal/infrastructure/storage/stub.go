package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	appregistry "github.com/bony/backend/internal/application/registry"
)

var _ appregistry.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage is an in-memory stand-in used when object storage
// is disabled. URLs point at a fake host and keys are tracked so the
// exists/delete flow behaves consistently in development and tests.
type StubObjectStorage struct {
	// BaseURL is the base for generated upload and download URLs
	BaseURL string

	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.invalid",
		keys:    make(map[string]struct{}),
	}
}

// GenerateUploadURL returns a fake upload URL and marks the key as
// present, since nothing will actually PUT to it
func (s *StubObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	s.mu.Lock()
	s.keys[storageKey] = struct{}{}
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL returns a fake download URL
func (s *StubObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject forgets the key
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.keys, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether an upload URL was issued for the key
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.keys[storageKey]
	s.mu.RUnlock()
	return ok, nil
}

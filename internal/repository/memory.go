package repository

import (
	"context"
	"strconv"
	"sync"
)

type memoryObject struct {
	body     []byte
	revision int64
}

// MemoryStore is a BlobStore kept in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	body := make([]byte, len(obj.body))
	copy(body, obj.body)
	return Object{Body: body, Version: strconv.FormatInt(obj.revision, 10)}, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, body []byte, opts PutOptions) (string, error) {
	if key == "" {
		return "", ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.objects[key]
	if opts.IfNoneMatch && exists {
		return "", ErrConflict
	}
	if opts.IfMatch != "" && (!exists || strconv.FormatInt(current.revision, 10) != opts.IfMatch) {
		return "", ErrConflict
	}

	stored := make([]byte, len(body))
	copy(stored, body)
	next := memoryObject{body: stored, revision: current.revision + 1}
	s.objects[key] = next
	return strconv.FormatInt(next.revision, 10), nil
}

// Package filestore keeps blobs as files in a local directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ganot/rbm-dashboard/internal/repository"
)

// Store is a repository.BlobStore over a directory. Version tokens are
// content hashes. Preconditions are checked under a process-local mutex, so
// conditional writes only exclude writers sharing this Store.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates the directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Get(_ context.Context, key string) (repository.Object, error) {
	path, err := s.path(key)
	if err != nil {
		return repository.Object{}, err
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return repository.Object{}, repository.ErrNotFound
	}
	if err != nil {
		return repository.Object{}, fmt.Errorf("read %s: %w", key, err)
	}
	return repository.Object{Body: body, Version: repository.ContentVersion(body)}, nil
}

func (s *Store) Put(ctx context.Context, key string, body []byte, opts repository.PutOptions) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Conditional() {
		current, err := s.Get(ctx, key)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if opts.IfMatch != "" {
				return "", repository.ErrConflict
			}
		case err != nil:
			return "", err
		case opts.IfNoneMatch || current.Version != opts.IfMatch:
			return "", repository.ErrConflict
		}
	}

	if err := writeFileAtomic(path, body); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return repository.ContentVersion(body), nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(key) {
		return "", fmt.Errorf("%w: key %q", repository.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key), nil
}

// writeFileAtomic replaces path so readers never see a partial file.
func writeFileAtomic(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

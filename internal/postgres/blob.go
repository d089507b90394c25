package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/ganot/rbm-dashboard/internal/repository"
)

// BlobStore implements repository.BlobStore for PostgreSQL. Conditional
// writes are enforced by the database, so they hold across processes.
type BlobStore struct {
	db *DB
}

// NewBlobStore creates a new BlobStore
func NewBlobStore(db *DB) *BlobStore {
	return &BlobStore{db: db}
}

// Get returns the blob stored under key
func (s *BlobStore) Get(ctx context.Context, key string) (repository.Object, error) {
	var (
		body     []byte
		revision int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT body, revision FROM blobs WHERE key = $1`, key).Scan(&body, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.Object{}, repository.ErrNotFound
	}
	if err != nil {
		return repository.Object{}, fmt.Errorf("failed to get blob: %w", err)
	}
	return repository.Object{Body: body, Version: strconv.FormatInt(revision, 10)}, nil
}

// Put stores body under key, honouring the preconditions in opts
func (s *BlobStore) Put(ctx context.Context, key string, body []byte, opts repository.PutOptions) (string, error) {
	if key == "" {
		return "", repository.ErrInvalidInput
	}

	switch {
	case opts.IfNoneMatch:
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO blobs (key, body, revision) VALUES ($1, $2, 1)`, key, body)
		if isUniqueViolation(err) {
			return "", repository.ErrConflict
		}
		if err != nil {
			return "", fmt.Errorf("failed to create blob: %w", err)
		}
		return "1", nil

	case opts.IfMatch != "":
		expected, err := strconv.ParseInt(opts.IfMatch, 10, 64)
		if err != nil {
			return "", repository.ErrConflict
		}
		var revision int64
		err = s.db.QueryRowContext(ctx, `
			UPDATE blobs SET body = $1, revision = revision + 1, updated_at = now()
			WHERE key = $2 AND revision = $3
			RETURNING revision`,
			body, key, expected).Scan(&revision)
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrConflict
		}
		if err != nil {
			return "", fmt.Errorf("failed to update blob: %w", err)
		}
		return strconv.FormatInt(revision, 10), nil

	default:
		var revision int64
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO blobs (key, body, revision) VALUES ($1, $2, 1)
			ON CONFLICT (key) DO UPDATE SET
				body = EXCLUDED.body,
				revision = blobs.revision + 1,
				updated_at = now()
			RETURNING revision`,
			key, body).Scan(&revision)
		if err != nil {
			return "", fmt.Errorf("failed to put blob: %w", err)
		}
		return strconv.FormatInt(revision, 10), nil
	}
}

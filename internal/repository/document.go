package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const defaultMaxWriteAttempts = 3

// DocumentOptions configures a DocumentStore.
type DocumentOptions struct {
	// ConditionalWrites makes every write compare-and-swap on the version
	// that was read. Off by default: only the in-process guard applies.
	ConditionalWrites bool
	// MaxAttempts bounds how often a conflicting update is re-run.
	MaxAttempts int
}

// DocumentStore persists JSON documents in a BlobStore. All mutations of a
// store share one WriteGuard.
type DocumentStore struct {
	blobs       BlobStore
	guard       *WriteGuard
	conditional bool
	maxAttempts int
	logger      *slog.Logger
}

// NewDocumentStore creates a document store over blobs.
func NewDocumentStore(blobs BlobStore, opts DocumentOptions, logger *slog.Logger) *DocumentStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxWriteAttempts
	}
	return &DocumentStore{
		blobs:       blobs,
		guard:       NewWriteGuard(),
		conditional: opts.ConditionalWrites,
		maxAttempts: attempts,
		logger:      logger,
	}
}

// ConditionalWrites reports whether updates compare-and-swap.
func (d *DocumentStore) ConditionalWrites() bool {
	return d.conditional
}

// Load reads and decodes the document at key. A missing document yields the
// zero value and found == false.
func Load[T any](ctx context.Context, d *DocumentStore, key string) (T, bool, error) {
	doc, _, found, err := load[T](ctx, d, key)
	return doc, found, err
}

// Update runs fn on the current document and persists what it returns. The
// write guard is held for the whole cycle. With conditional writes enabled,
// a lost race re-runs fn on the fresh document up to the configured number
// of attempts before ErrConflict is returned.
func Update[T any](ctx context.Context, d *DocumentStore, key string, fn func(current T, found bool) (T, error)) (T, error) {
	var zero T
	if err := d.guard.Lock(ctx); err != nil {
		return zero, fmt.Errorf("waiting for write guard: %w", err)
	}
	defer d.guard.Unlock()

	attempts := 1
	if d.conditional {
		attempts = d.maxAttempts
	}

	for attempt := 1; ; attempt++ {
		current, version, found, err := load[T](ctx, d, key)
		if err != nil {
			return zero, err
		}

		next, err := fn(current, found)
		if err != nil {
			return zero, err
		}

		body, err := Encode(next)
		if err != nil {
			return zero, fmt.Errorf("encoding %s: %w", key, err)
		}

		var opts PutOptions
		if d.conditional {
			if found {
				opts.IfMatch = version
			} else {
				opts.IfNoneMatch = true
			}
		}

		_, err = d.blobs.Put(ctx, key, body, opts)
		if errors.Is(err, ErrConflict) && attempt < attempts {
			d.logger.Warn("conditional write lost race, retrying", "key", key, "attempt", attempt)
			continue
		}
		if err != nil {
			return zero, fmt.Errorf("writing %s: %w", key, err)
		}
		return next, nil
	}
}

func load[T any](ctx context.Context, d *DocumentStore, key string) (T, string, bool, error) {
	var doc T
	obj, err := d.blobs.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return doc, "", false, nil
	}
	if err != nil {
		return doc, "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := Decode(obj.Body, &doc); err != nil {
		return doc, "", false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return doc, obj.Version, true, nil
}

// Encode renders v as two-space indented JSON without HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses JSON keeping numbers as json.Number inside untyped values.
func Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// ContentVersion derives a version token from the stored bytes.
func ContentVersion(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

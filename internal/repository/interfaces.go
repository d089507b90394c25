package repository

import "context"

// Object is a stored blob together with the version token it was read at.
type Object struct {
	Body    []byte
	Version string
}

// PutOptions controls conditional writes.
type PutOptions struct {
	// IfMatch, when set, requires the stored version to equal it.
	IfMatch string
	// IfNoneMatch requires the key to be absent.
	IfNoneMatch bool
}

// Conditional reports whether the write carries a precondition.
func (o PutOptions) Conditional() bool {
	return o.IfMatch != "" || o.IfNoneMatch
}

// BlobStore manages whole-object persistence keyed by name.
type BlobStore interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) (Object, error)
	// Put replaces the object and returns its new version. A failed
	// precondition returns ErrConflict.
	Put(ctx context.Context, key string, body []byte, opts PutOptions) (string, error)
}

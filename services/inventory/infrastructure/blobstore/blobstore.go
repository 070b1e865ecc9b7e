// Package blobstore provides photo blob storage for the inventory service.
// It defines a Store interface for blob operations and includes a filesystem
// implementation suitable for single-node deployments.
//
// Blob names are opaque collision-free tokens assigned at write time; two
// items never share a blob name because every Put mints a fresh one.
package blobstore

import (
	"context"
	"errors"
	"io"
)

// Blob storage errors returned by Store implementations.
var (
	// ErrNotFound indicates the requested blob does not exist in storage.
	ErrNotFound = errors.New("blobstore: blob not found")

	// ErrInvalidName indicates the blob name is malformed. This includes
	// empty names and path traversal attempts.
	ErrInvalidName = errors.New("blobstore: invalid blob name")
)

// Store is the contract for photo blob storage.
//
// Delete is idempotent: removing a missing blob is not an error, so cleanup
// is always safe to retry when the repository and the blob store have fallen
// out of sync.
type Store interface {
	// Put stores the incoming upload under a freshly minted collision-free
	// name and returns that name. On failure any partially written artifact
	// is removed before the error is returned.
	Put(ctx context.Context, src io.Reader, originalName string) (string, error)

	// Open returns a reader over the stored blob bytes.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the blob if present. A missing blob is NOT an error.
	Delete(ctx context.Context, name string) error

	// Exists reports whether a blob with the given name is stored.
	Exists(name string) bool

	// Path resolves the blob's location without touching the filesystem.
	Path(name string) string

	// Walk calls fn for every stored blob name. Used by the orphan sweep.
	Walk(fn func(name string) error) error
}

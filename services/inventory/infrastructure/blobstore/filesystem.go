package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ghuser/stockroom/pkg/logger"
	"github.com/ghuser/stockroom/services/inventory/domain"
)

// filesystem implements Store using the local filesystem. Blobs live as
// flat files directly under a configurable base directory; names map to
// relative file paths.
type filesystem struct {
	basePath string
	log      logger.Logger
}

// New creates a filesystem blob store rooted at basePath. The directory is
// created if it does not exist; the base path is resolved to an absolute
// path during construction.
func New(basePath string, log logger.Logger) (Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("blobstore: base path required")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("blobstore: resolve base path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create base directory: %w", err)
	}

	return &filesystem{
		basePath: absPath,
		log:      log.With("system", "blobstore"),
	}, nil
}

func (f *filesystem) Put(ctx context.Context, src io.Reader, originalName string) (string, error) {
	name := freshName(originalName)
	path := filepath.Join(f.basePath, name)

	tmpPath := path + ".tmp"
	dst, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", domain.ErrStorage, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: write blob: %w", domain.ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: close blob: %w", domain.ErrStorage, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: rename temp file: %w", domain.ErrStorage, err)
	}

	f.log.DebugContext(ctx, "blob stored", "name", name)
	return name, nil
}

func (f *filesystem) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := f.fullPath(name)
	if err != nil {
		return nil, err
	}

	rc, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: open blob: %w", domain.ErrStorage, err)
	}
	return rc, nil
}

func (f *filesystem) Delete(ctx context.Context, name string) error {
	path, err := f.fullPath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: remove blob: %w", domain.ErrStorage, err)
	}

	f.log.DebugContext(ctx, "blob removed", "name", name)
	return nil
}

func (f *filesystem) Exists(name string) bool {
	path, err := f.fullPath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Path resolves name inside the base directory. Pure, no filesystem access;
// callers must validate existence separately.
func (f *filesystem) Path(name string) string {
	return filepath.Join(f.basePath, name)
}

func (f *filesystem) Walk(fn func(name string) error) error {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return fmt.Errorf("%w: read base directory: %w", domain.ErrStorage, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		if err := fn(entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Ping reports whether the base directory is reachable, for the health endpoint.
func (f *filesystem) Ping(_ context.Context) error {
	if _, err := os.Stat(f.basePath); err != nil {
		return fmt.Errorf("blobstore: ping: %w", err)
	}
	return nil
}

// fullPath validates name and resolves it inside the base directory.
// Rejects empty names and anything that could escape the base path.
func (f *filesystem) fullPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(f.basePath, name), nil
}

// freshName mints a collision-free blob name, preserving the upload's
// extension so served files keep a recognizable suffix.
func freshName(originalName string) string {
	ext := filepath.Ext(originalName)
	if strings.ContainsAny(ext, `/\`) || len(ext) > 16 {
		ext = ""
	}
	return uuid.NewString() + ext
}

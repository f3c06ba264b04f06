package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// BlobStore keeps uploaded files on an afero filesystem and serves them under
// a public base URL.
type BlobStore struct {
	fs      afero.Fs
	baseURL string
}

// NewBlobStore roots the store at dir on the OS filesystem.
func NewBlobStore(dir, baseURL string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return NewBlobStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir), baseURL), nil
}

// NewBlobStoreFs wraps an existing filesystem, typically afero.MemMapFs in tests.
func NewBlobStoreFs(fs afero.Fs, baseURL string) *BlobStore {
	return &BlobStore{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// Fs exposes the underlying filesystem for static serving.
func (s *BlobStore) Fs() afero.Fs {
	return s.fs
}

// Put writes r under namespace with a generated name that keeps the original
// extension, and returns the relative path.
func (s *BlobStore) Put(ctx context.Context, r io.Reader, namespace, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	namespace = strings.Trim(path.Clean("/"+namespace), "/")
	if err := s.fs.MkdirAll(namespace, 0o755); err != nil {
		return "", fmt.Errorf("create namespace %q: %w", namespace, err)
	}

	name := uuid.NewString() + strings.ToLower(path.Ext(path.Base(filename)))
	p := path.Join(namespace, name)

	f, err := s.fs.Create(p)
	if err != nil {
		return "", fmt.Errorf("create blob %q: %w", p, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(p)
		return "", fmt.Errorf("write blob %q: %w", p, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(p)
		return "", fmt.Errorf("close blob %q: %w", p, err)
	}
	return p, nil
}

func (s *BlobStore) URL(p string) string {
	return s.baseURL + "/" + strings.TrimLeft(p, "/")
}

// Delete removes the blob at p. A missing blob is not an error.
func (s *BlobStore) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob %q: %w", p, err)
	}
	return nil
}

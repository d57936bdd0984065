// Package storage persists uploaded media and hands back reference strings.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ProductNamespace is the directory product images are stored under
const ProductNamespace = "products"

var ErrInvalidReference = errors.New("invalid media reference")

// Upload is a file received from a client
type Upload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// MediaStore persists binary assets and deletes them by reference
type MediaStore interface {
	Store(ctx context.Context, namespace string, upload *Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DiskStore keeps media on a filesystem rooted at a public directory
type DiskStore struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewDiskStore creates a DiskStore rooted at dir on the local disk
func NewDiskStore(dir string, logger *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewDiskStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir), logger), nil
}

// NewDiskStoreFs creates a DiskStore over an arbitrary afero filesystem
func NewDiskStoreFs(fs afero.Fs, logger *zap.Logger) *DiskStore {
	return &DiskStore{fs: fs, logger: logger}
}

// Store writes upload under namespace with a random name and returns its reference
func (s *DiskStore) Store(ctx context.Context, namespace string, upload *Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(namespace, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", namespace, err)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	ref := path.Join(namespace, uuid.NewString()+ext)

	if err := afero.WriteReader(s.fs, ref, upload.Content); err != nil {
		return "", fmt.Errorf("failed to store media: %w", err)
	}

	s.logger.Debug("Media stored", zap.String("ref", ref), zap.Int64("size", upload.Size))
	return ref, nil
}

// Delete removes the file behind ref. Missing files are not an error.
func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := path.Clean("/" + ref)[1:]
	if clean == "" || clean != ref {
		return fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}

	if err := s.fs.Remove(clean); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Media already gone", zap.String("ref", ref))
			return nil
		}
		return fmt.Errorf("failed to delete media: %w", err)
	}

	s.logger.Debug("Media deleted", zap.String("ref", ref))
	return nil
}

// Handler serves stored media read-only
func (s *DiskStore) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(afero.NewReadOnlyFs(s.fs)))
}

// Package imagestore persists product images. A local filesystem store backs
// the /uploads/ route; an optional S3 store can front it, with the local
// store as fallback.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Store abstracts product image persistence.
type Store interface {
	// Save writes the image under the given filename.
	Save(ctx context.Context, filename string, r io.Reader) error

	// Open returns a reader for the stored image.
	Open(ctx context.Context, filename string) (io.ReadCloser, error)

	// Delete removes the stored image. Deleting an absent image is not an error.
	Delete(ctx context.Context, filename string) error
}

// fileStore implements Store on the local filesystem.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a filesystem-backed image store rooted at dir,
// creating the directory if needed.
func NewFileStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}

	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "image-store").Logger(),
	}, nil
}

// path resolves a filename inside the store directory, rejecting anything
// that would escape it.
func (s *fileStore) path(filename string) (string, error) {
	clean := filepath.Base(filepath.Clean(filename))
	if clean == "." || clean == ".." || strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("invalid image filename: %s", filename)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *fileStore) Save(_ context.Context, filename string, r io.Reader) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", filename).Msg("failed to create image file")
		return fmt.Errorf("failed to create image file %s: %w", filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		s.logger.Error().Err(err).Str("file", filename).Msg("failed to write image file")
		return fmt.Errorf("failed to write image file %s: %w", filename, err)
	}

	s.logger.Debug().Str("file", filename).Msg("image saved")

	return nil
}

func (s *fileStore) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", filename, err)
	}

	return f, nil
}

func (s *fileStore) Delete(_ context.Context, filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Error().Err(err).Str("file", filename).Msg("failed to delete image file")
		return fmt.Errorf("failed to delete image file %s: %w", filename, err)
	}

	return nil
}

// fallbackStore tries a primary store first and falls back to a secondary.
// Saves and deletes go to both so the fallback stays usable for reads.
type fallbackStore struct {
	primary   Store
	secondary Store
	logger    zerolog.Logger
}

// NewFallbackStore composes two stores; reads try the primary first.
func NewFallbackStore(primary, secondary Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-image-store").Logger(),
	}
}

func (s *fallbackStore) Save(ctx context.Context, filename string, r io.Reader) error {
	// Stream once into the secondary, then copy from there to the primary so
	// the reader is consumed only once.
	if err := s.secondary.Save(ctx, filename, r); err != nil {
		return err
	}

	local, err := s.secondary.Open(ctx, filename)
	if err != nil {
		return err
	}
	defer local.Close()

	if err := s.primary.Save(ctx, filename, local); err != nil {
		s.logger.Warn().
			Err(err).
			Str("file", filename).
			Msg("failed to save image to primary store, local copy retained")
	}

	return nil
}

func (s *fallbackStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	rc, err := s.primary.Open(ctx, filename)
	if err == nil {
		return rc, nil
	}

	s.logger.Debug().
		Err(err).
		Str("file", filename).
		Msg("primary image store miss, trying fallback")

	return s.secondary.Open(ctx, filename)
}

func (s *fallbackStore) Delete(ctx context.Context, filename string) error {
	if err := s.primary.Delete(ctx, filename); err != nil {
		s.logger.Warn().Err(err).Str("file", filename).Msg("failed to delete image from primary store")
	}
	return s.secondary.Delete(ctx, filename)
}

package media

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// LocalStore keeps pictures in a directory served as static files.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create picture dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) path(name string) (string, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("invalid picture name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *LocalStore) Save(_ context.Context, name, _ string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// Delete removes the file; a missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete picture: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(name string) string {
	return path.Join(s.urlPrefix, name)
}

// EnsureDefaultPicture writes the shared placeholder into dir when missing.
func EnsureDefaultPicture(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create picture dir: %w", err)
	}
	p := filepath.Join(dir, domain.DefaultImageFile)
	if _, err := os.Stat(p); err == nil {
		return nil
	}
	img := imaging.New(PictureSize, PictureSize, color.NRGBA{R: 0xc8, G: 0xcd, B: 0xd3, A: 0xff})
	if err := imaging.Save(img, p); err != nil {
		return fmt.Errorf("failed to write default picture: %w", err)
	}
	return nil
}

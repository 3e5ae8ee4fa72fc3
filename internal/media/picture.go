package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

const (
	// PictureSize bounds both sides of a stored profile picture.
	PictureSize = 125
	// MaxUploadBytes caps the accepted upload size.
	MaxUploadBytes = 8 << 20
	// MaxSourceSide and MaxSourcePixels bound the decoded canvas. A small
	// compressed file can declare a huge one.
	MaxSourceSide   = 10000
	MaxSourcePixels = 25_000_000
)

var allowedFormats = map[string]string{
	".jpg": "jpeg",
	".png": "png",
}

// Store persists encoded pictures under flat file names.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// Pipeline turns uploads into bounded profile pictures.
type Pipeline struct {
	store      Store
	defaultURL string
	random     io.Reader
}

func NewPipeline(store Store, defaultURL string) *Pipeline {
	return &Pipeline{store: store, defaultURL: defaultURL, random: rand.Reader}
}

// Save validates, shrinks and stores an upload, returning the new file name.
// Nothing is written unless the upload decodes as an allowed format.
func (p *Pipeline) Save(ctx context.Context, upload domain.Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	wantFormat, ok := allowedFormats[ext]
	if !ok {
		return "", fmt.Errorf("extension %q: %w", ext, domain.ErrUnsupportedImage)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read picture: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", fmt.Errorf("picture exceeds %d bytes: %w", MaxUploadBytes, domain.ErrUnsupportedImage)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read picture header: %w", domain.ErrUnsupportedImage)
	}
	if format != wantFormat {
		return "", fmt.Errorf("%s content in %s file: %w", format, ext, domain.ErrUnsupportedImage)
	}
	if cfg.Width > MaxSourceSide || cfg.Height > MaxSourceSide || cfg.Width*cfg.Height > MaxSourcePixels {
		return "", fmt.Errorf("picture is %dx%d: %w", cfg.Width, cfg.Height, domain.ErrUnsupportedImage)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode picture: %w", domain.ErrUnsupportedImage)
	}

	out := imaging.Fit(src, PictureSize, PictureSize, imaging.Lanczos)

	var buf bytes.Buffer
	encFormat, contentType := imaging.JPEG, "image/jpeg"
	if ext == ".png" {
		encFormat, contentType = imaging.PNG, "image/png"
	}
	if err := imaging.Encode(&buf, out, encFormat); err != nil {
		return "", fmt.Errorf("failed to encode picture: %w", err)
	}

	name, err := p.randomName(ext)
	if err != nil {
		return "", err
	}
	if err := p.store.Save(ctx, name, contentType, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to store picture: %w", err)
	}
	return name, nil
}

// Remove deletes a stored picture. The shared default is never removed.
func (p *Pipeline) Remove(ctx context.Context, name string) error {
	if name == "" || name == domain.DefaultImageFile {
		return nil
	}
	return p.store.Delete(ctx, name)
}

func (p *Pipeline) URL(name string) string {
	if name == "" || name == domain.DefaultImageFile {
		return p.defaultURL
	}
	return p.store.URL(name)
}

// randomName returns 16 hex characters plus ext.
func (p *Pipeline) randomName(ext string) (string, error) {
	b := make([]byte, 8)
	if _, err := io.ReadFull(p.random, b); err != nil {
		return "", fmt.Errorf("failed to generate picture name: %w", err)
	}
	return hex.EncodeToString(b) + ext, nil
}

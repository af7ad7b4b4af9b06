package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotDataURI is returned when the payload is not an embedded
// "data:image/<ext>;base64,<data>" image.
var ErrNotDataURI = errors.New("image is not a base64 data URI")

// ImageStore writes uploaded recipe images below a media root and hands
// back the relative path that gets persisted on the recipe.
type ImageStore struct {
	basePath string
}

func NewImageStore(basePath string) *ImageStore {
	return &ImageStore{basePath: basePath}
}

// SaveDataURI decodes an embedded base64 image and stores it as
// recipe_images/<uuid>/photo.<ext>. Returns the relative path.
func (s *ImageStore) SaveDataURI(dataURI string) (string, error) {
	ext, encoded, err := splitDataURI(dataURI)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	relDir := filepath.Join("recipe_images", uuid.New().String())
	relPath := filepath.Join(relDir, "photo."+ext)

	if err := os.MkdirAll(filepath.Join(s.basePath, relDir), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.basePath, relPath), raw, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return relPath, nil
}

// splitDataURI pulls the extension and base64 payload out of a
// "data:image/<ext>;base64,<data>" string.
func splitDataURI(dataURI string) (ext, encoded string, err error) {
	if !strings.HasPrefix(dataURI, "data:image/") {
		return "", "", ErrNotDataURI
	}
	header, data, found := strings.Cut(dataURI, ";base64,")
	if !found || data == "" {
		return "", "", ErrNotDataURI
	}
	ext = strings.TrimPrefix(header, "data:image/")
	if ext == "" || strings.ContainsAny(ext, "/\\.") {
		return "", "", ErrNotDataURI
	}
	return ext, data, nil
}

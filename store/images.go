package store

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskImageStore writes uploaded images under a local directory and serves
// them back under baseURL (the router exposes the directory at /uploads).
type DiskImageStore struct {
	dir     string
	baseURL string
}

func NewDiskImageStore(dir, baseURL string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskImageStore) Store(r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return s.baseURL + "/uploads/" + name, nil
}

// Delete removes the file behind a URI previously returned by Store. URIs
// from elsewhere (e.g. the default event image) are ignored.
func (s *DiskImageStore) Delete(uri string) error {
	if uri == "" || !strings.HasPrefix(uri, s.baseURL+"/uploads/") {
		return nil
	}
	name := path.Base(uri)
	return os.Remove(filepath.Join(s.dir, name))
}

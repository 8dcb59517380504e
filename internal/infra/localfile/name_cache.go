// Package localfile persists the last-used display name to a single file,
// the service-side counterpart of the widget's localStorage key. One key,
// last-write-wins; a missing file reads as an empty name.
package localfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type NameCache struct {
	path string
}

func NewNameCache(path string) *NameCache {
	return &NameCache{path: path}
}

func (c *NameCache) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *NameCache) Store(name string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.path, []byte(name+"\n"), 0o600)
}

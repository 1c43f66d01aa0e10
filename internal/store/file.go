package store

import (
	"context"
	"errors"
	"io/fs"

	"github.com/mj1618/a11y-audit/internal/model"
)

// FileStore keeps a single baseline in a YAML or JSON file. The key is
// ignored; one file holds one document's baseline.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, _ string) (model.Baseline, error) {
	b, err := model.LoadBaseline(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Baseline{}, ErrNotFound
	}
	return b, err
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, _ string, b model.Baseline) error {
	return model.SaveBaseline(s.Path, b)
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

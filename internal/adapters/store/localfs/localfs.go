// Package localfs implements the template store on the local filesystem,
// one file per template under a configured root directory. O_EXCL makes the
// create atomic: EEXIST is the duplicate signal.
//
// Meant for development and tests; ids are validated upstream, so the file
// name is always a plain UUID.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"stencil/internal/models"
	"stencil/internal/ports"
)

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Provider() string { return "localfs" }

func (s *Store) Insert(ctx context.Context, id string, content string) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path(id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ports.ErrDuplicateID
		}
		return err
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Template, error) {
	p := s.path(id)

	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.ErrTemplateNotFound
		}
		return nil, err
	}

	st, err := os.Stat(p)
	if err != nil {
		return nil, err
	}

	return &models.Template{
		ID:        id,
		Content:   json.RawMessage(b),
		CreatedAt: st.ModTime().UTC(),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		// Root is created lazily on first insert.
		return nil
	}
	return err
}

func (s *Store) Close() error { return nil }

func (s *Store) path(id string) string {
	return filepath.Join(s.root, id+".json")
}

package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/srgjo27/airline_desk/internal/core/domain"
)

// DocumentStore keeps each document as <dir>/<name>.json. Saves write a
// temporary file and rename it over the old one.
type DocumentStore struct {
	dir string
}

func NewDocumentStore(dir string) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &DocumentStore{dir: dir}, nil
}

func (s *DocumentStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *DocumentStore) Load(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, name)
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", name, err)
	}

	return nil
}

func (s *DocumentStore) Save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", name, err)
	}

	tmp := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, s.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace document %s: %w", name, err)
	}

	return nil
}

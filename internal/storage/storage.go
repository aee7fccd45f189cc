package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	tmpSuffix    = ".tmp"
	backupSuffix = ".bak"
)

// AferoStore writes snapshot files through an afero filesystem. Saves are atomic:
// content goes to <path>.tmp first, the previous file is kept as <path>.bak and
// the temporary file is renamed into place.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// Save writes the content of the reader to path.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp := path + tmpSuffix
	n, err := s.writeFile(tmp, reader)
	if err != nil {
		_ = s.fs.Remove(tmp)
		return 0, err
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return 0, err
	}
	if exists {
		data, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s for backup: %w", path, err)
		}
		if err := afero.WriteFile(s.fs, path+backupSuffix, data, 0644); err != nil {
			return 0, fmt.Errorf("failed to write backup of %s: %w", path, err)
		}
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return n, nil
}

func (s *AferoStore) writeFile(path string, reader io.Reader) (int64, error) {
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to sync %s: %w", path, err)
	}
	return n, f.Close()
}

// Load returns the content of path, falling back to its backup when the file is
// missing or empty. It returns ErrNotExist when neither is available.
func (s *AferoStore) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	backup := path + backupSuffix
	data, err = afero.ReadFile(s.fs, backup)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	slog.Warn("Loaded snapshot from backup file", "path", backup)
	return data, nil
}

// Delete removes a file and its backup.
func (s *AferoStore) Delete(ctx context.Context, path string) error {
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := s.fs.Remove(path + backupSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

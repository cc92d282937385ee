package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const snapshotFileMode = 0o600

// FileStore keeps one JSON file per session key under a root directory.
// Writes go through a temp file and rename so a crash mid-write leaves the
// previous snapshot intact.
type FileStore struct {
	root string
}

// NewFileStore creates a file-backed store rooted at dir, creating it if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("snapshot dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{root: dir}, nil
}

// Load implements Store.
func (f *FileStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		// Only Decode classifies corruption; a failed read says
		// nothing about the stored bytes.
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

// Save implements Store.
func (f *FileStore) Save(ctx context.Context, key string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, snapshotFileMode); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// path maps a session key to its file, flattening separators so keys cannot
// escape the root directory.
func (f *FileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ':':
			return '_'
		}
		return r
	}, key)
	return filepath.Join(f.root, safe+".json")
}

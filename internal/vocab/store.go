package vocab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when the level has no item file.
var ErrNotFound = errors.New("item file not found")

// StructuralError reports an item file that cannot be read, parsed, or
// written. It aborts work on that level only.
type StructuralError struct {
	Level Level
	Path  string
	Err   error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("level %s: item file %s: %v", e.Level, e.Path, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Store is the in-memory copy of one level's item file. The whole file is
// the unit of persistence: Save always rewrites every item.
type Store struct {
	Level Level
	Path  string
	Items []Item
}

// PathFor returns the item file path for a level under dataDir.
func PathFor(dataDir string, level Level) string {
	return filepath.Join(dataDir, level.FileName())
}

// Load reads the level's item file from dataDir.
func Load(dataDir string, level Level) (*Store, error) {
	path := PathFor(dataDir, level)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("level %s: %s: %w", level, path, ErrNotFound)
	}
	if err != nil {
		return nil, &StructuralError{Level: level, Path: path, Err: err}
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &StructuralError{Level: level, Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	return &Store{Level: level, Path: path, Items: items}, nil
}

// Save rewrites the item file, pretty-printed with two-space indentation.
// The file is replaced through a temporary sibling so a crash mid-write
// leaves the previous version in place.
func (s *Store) Save() error {
	items := s.Items
	if items == nil {
		items = []Item{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return &StructuralError{Level: s.Level, Path: s.Path, Err: fmt.Errorf("encode: %w", err)}
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return &StructuralError{Level: s.Level, Path: s.Path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return &StructuralError{Level: s.Level, Path: s.Path, Err: err}
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StructuralError{Level: s.Level, Path: s.Path, Err: err}
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StructuralError{Level: s.Level, Path: s.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StructuralError{Level: s.Level, Path: s.Path, Err: err}
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return &StructuralError{Level: s.Level, Path: s.Path, Err: err}
	}
	return nil
}

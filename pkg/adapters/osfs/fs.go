// Package osfs implements ports.FileSystem on the local disk.
package osfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// FS implements ports.FileSystem with the os package.
type FS struct{}

// New returns a local filesystem.
func New() FS {
	return FS{}
}

func (FS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (FS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (FS) ReadString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteString replaces the file content, keeping its mode when it already exists.
func (FS) WriteString(path, content string) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (FS) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (FS) DeleteDirectory(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete directory %s: %w", path, err)
	}
	return nil
}

// MoveContentsUp moves every entry of dir into its parent and removes dir.
// An entry named like dir itself is handled by moving dir aside first.
func (f FS) MoveContentsUp(dir string) error {
	parent := filepath.Dir(dir)

	staging, err := os.MkdirTemp(parent, ".hoist-")
	if err != nil {
		return fmt.Errorf("hoist %s: %w", dir, err)
	}
	if err := os.Remove(staging); err != nil {
		return fmt.Errorf("hoist %s: %w", dir, err)
	}
	if err := os.Rename(dir, staging); err != nil {
		return fmt.Errorf("hoist %s: %w", dir, err)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return fmt.Errorf("hoist %s: %w", dir, err)
	}
	for _, e := range entries {
		dst := filepath.Join(parent, e.Name())
		if f.Exists(dst) {
			return fmt.Errorf("hoist %s: %s already exists", dir, dst)
		}
		if err := os.Rename(filepath.Join(staging, e.Name()), dst); err != nil {
			return fmt.Errorf("hoist %s: %w", dir, err)
		}
	}
	return f.DeleteDirectory(staging)
}

func (FS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

func (FS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

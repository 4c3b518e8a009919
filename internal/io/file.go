package ioutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic replaces the file at path with whatever write produces.
//
// The content goes to a temporary file in the same directory, which is
// renamed over path only after write and Close succeed. A failed or
// interrupted write leaves the previous file untouched. Missing parent
// directories are created.
//
// Example:
//
//	err := WriteAtomic("cache/genres.csv", func(w io.Writer) error {
//	    return csv.NewWriter(w).WriteAll(rows)
//	})
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

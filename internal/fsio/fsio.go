// Package fsio defines the file system port consumed by the sync pipeline.
// The core never touches a concrete storage medium directly; everything goes
// through the FS interface so tests and dry runs can observe every access.
package fsio

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FS is the file system surface the pipeline depends on.
type FS interface {
	// List returns the slash-separated paths of all regular files under root,
	// relative to root, for which keep returns true. A nil keep keeps
	// everything. Paths come back in lexical order.
	List(root string, keep func(path string) bool) ([]string, error)

	// Read returns the contents of the file at path. A missing file yields an
	// error satisfying errors.Is(err, fs.ErrNotExist).
	Read(path string) ([]byte, error)

	// Write replaces the contents of the file at path, creating it if needed.
	Write(path string, data []byte) error
}

// OS is the production FS backed by the local file system.
type OS struct{}

func (OS) List(root string, keep func(string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if keep == nil || keep(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (OS) Read(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // paths come from the workspace manifest
}

func (OS) Write(path string, data []byte) error {
	return os.WriteFile(path, data, 0644) //nolint:gosec // manifests need to be readable
}

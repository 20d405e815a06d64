// Package testutil provides workspace fixture builders for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/refsync/internal/manifest"
	"github.com/fbkclanna/refsync/internal/tmpl"
)

// Workspace assembles a temporary workspace tree on disk.
type Workspace struct {
	Root string
}

// NewWorkspace creates an empty workspace rooted in a temp directory.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{Root: t.TempDir()}
}

// WriteManifest writes workspace.yaml listing the given member paths.
func (w *Workspace) WriteManifest(t *testing.T, name string, packages, exclude []string) {
	t.Helper()
	ws := manifest.Workspace{
		Version:  1,
		Name:     name,
		Packages: packages,
		Exclude:  exclude,
	}
	data, err := yaml.Marshal(&ws)
	if err != nil {
		t.Fatalf("marshaling workspace manifest: %v", err)
	}
	w.WriteFile(t, "workspace.yaml", string(data))
}

// AddPackage creates a member directory with a package.yaml declaring the
// given identity and dependencies, carrying the library template's build
// defaults the way a synced manifest does.
func (w *Workspace) AddPackage(t *testing.T, path, name string, deps map[string]string) {
	t.Helper()
	pkg := manifest.Package{Name: name, Dependencies: deps}
	data, err := yaml.Marshal(&pkg)
	if err != nil {
		t.Fatalf("marshaling package manifest: %v", err)
	}
	doc, err := manifest.ParseDoc(data)
	if err != nil {
		t.Fatalf("parsing package manifest: %v", err)
	}
	tmpl.Apply(doc, manifest.KindLibrary)
	out, err := doc.Marshal()
	if err != nil {
		t.Fatalf("marshaling package manifest: %v", err)
	}
	w.WriteFile(t, path+"/package.yaml", string(out))
}

// WriteSource writes a source file under a member directory.
func (w *Workspace) WriteSource(t *testing.T, pkgPath, rel, content string) {
	t.Helper()
	w.WriteFile(t, pkgPath+"/"+rel, content)
}

// WriteFile writes an arbitrary file relative to the workspace root.
func (w *Workspace) WriteFile(t *testing.T, rel, content string) {
	t.Helper()
	full := filepath.Join(w.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// ReadFile returns the contents of a file relative to the workspace root.
func (w *Workspace) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(w.Root, filepath.FromSlash(rel))) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether a file exists relative to the workspace root.
func (w *Workspace) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(w.Root, filepath.FromSlash(rel)))
	return err == nil
}

package manifest

import (
	"testing"
)

func TestParse_valid(t *testing.T) {
	data := []byte(`
version: 1
name: acme
packages:
  - packages/utils
  - packages/ui
exclude:
  - "**/node_modules/**"
  - "**/dist/**"
defaults:
  kind: library
`)
	ws, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.Name != "acme" {
		t.Errorf("name = %q, want %q", ws.Name, "acme")
	}
	if len(ws.Packages) != 2 {
		t.Errorf("packages count = %d, want 2", len(ws.Packages))
	}
	if ws.Defaults.Kind != KindLibrary {
		t.Errorf("defaults.kind = %q, want library", ws.Defaults.Kind)
	}
}

func TestParse_missingVersion(t *testing.T) {
	data := []byte(`
name: acme
packages: [packages/a]
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestParse_missingName(t *testing.T) {
	data := []byte(`
version: 1
packages: [packages/a]
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestParse_missingPackages(t *testing.T) {
	data := []byte(`
version: 1
name: acme
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for missing packages")
	}
}

func TestParse_duplicatePackagePath(t *testing.T) {
	data := []byte(`
version: 1
name: acme
packages:
  - packages/a
  - packages/a/
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for duplicate package path")
	}
}

func TestParse_overlappingPackagePaths(t *testing.T) {
	data := []byte(`
version: 1
name: acme
packages:
  - packages/a
  - packages/a/nested
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for overlapping package paths")
	}
}

func TestParse_badPaths(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"absolute path", `
version: 1
name: acme
packages: [/tmp/pkg]
`},
		{"escaping path", `
version: 1
name: acme
packages: [../outside]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParse_badDefaultsKind(t *testing.T) {
	data := []byte(`
version: 1
name: acme
packages: [packages/a]
defaults:
  kind: widget
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for unknown defaults.kind")
	}
}

func TestParseDoc_valid(t *testing.T) {
	data := []byte(`
name: "@scope/ui"
kind: library
aliases:
  - "@scope/ui/button"
dependencies:
  "@scope/utils": "workspace:*"
  left-pad: "1.3.0"
`)
	d, err := ParseDoc(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Pkg.Name != "@scope/ui" {
		t.Errorf("name = %q", d.Pkg.Name)
	}
	if d.Pkg.Dependencies["@scope/utils"] != WorkspaceMarker {
		t.Errorf("workspace dep marker = %q", d.Pkg.Dependencies["@scope/utils"])
	}
	if len(d.Pkg.Aliases) != 1 {
		t.Errorf("aliases = %v", d.Pkg.Aliases)
	}
}

func TestParseDoc_missingName(t *testing.T) {
	if _, err := ParseDoc([]byte("kind: library\n")); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestParseDoc_unknownKind(t *testing.T) {
	if _, err := ParseDoc([]byte("name: x\nkind: widget\n")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseDoc_aliasDuplicatesName(t *testing.T) {
	if _, err := ParseDoc([]byte("name: x\naliases: [x]\n")); err == nil {
		t.Fatal("expected error for alias equal to name")
	}
}

func TestPackage_EffectiveKind(t *testing.T) {
	p := &Package{Kind: KindApplication}
	if got := p.EffectiveKind(Defaults{Kind: KindLibrary}); got != KindApplication {
		t.Errorf("got %q, want application", got)
	}
	p2 := &Package{}
	if got := p2.EffectiveKind(Defaults{Kind: KindApplication}); got != KindApplication {
		t.Errorf("got %q, want defaults kind", got)
	}
	if got := p2.EffectiveKind(Defaults{}); got != KindLibrary {
		t.Errorf("got %q, want library fallback", got)
	}
}

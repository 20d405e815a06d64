package manifest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate checks the workspace manifest for errors.
func Validate(ws *Workspace) error { return validate(ws) }

// Parse parses and validates workspace.yaml content.
func Parse(data []byte) (*Workspace, error) {
	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing workspace YAML: %w", err)
	}
	if err := validate(&ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Marshal serializes a workspace manifest after validating it.
func Marshal(ws *Workspace) ([]byte, error) {
	if err := validate(ws); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("marshaling workspace manifest: %w", err)
	}
	return data, nil
}

func validate(ws *Workspace) error {
	if ws.Version != 1 {
		return fmt.Errorf("unsupported workspace manifest version: %d (expected 1)", ws.Version)
	}
	if ws.Name == "" {
		return fmt.Errorf("workspace manifest: name is required")
	}
	if len(ws.Packages) == 0 {
		return fmt.Errorf("workspace manifest: packages is required")
	}

	seen := make(map[string]bool, len(ws.Packages))
	cleaned := make([]string, 0, len(ws.Packages))
	for i, p := range ws.Packages {
		if p == "" {
			return fmt.Errorf("workspace manifest: packages[%d] is empty", i)
		}
		if err := validatePath(p, fmt.Sprintf("packages[%d]", i)); err != nil {
			return err
		}
		c := filepath.ToSlash(filepath.Clean(p))
		if seen[c] {
			return fmt.Errorf("workspace manifest: duplicate package path %q", p)
		}
		seen[c] = true
		cleaned = append(cleaned, c)
	}

	if err := validateNoOverlap(cleaned); err != nil {
		return err
	}

	for i, pat := range ws.Exclude {
		if strings.TrimSpace(pat) == "" {
			return fmt.Errorf("workspace manifest: exclude[%d] is empty", i)
		}
	}

	if ws.Defaults.Kind != "" && ws.Defaults.Kind != KindLibrary && ws.Defaults.Kind != KindApplication {
		return fmt.Errorf("workspace manifest: defaults.kind must be %q or %q, got %q",
			KindLibrary, KindApplication, ws.Defaults.Kind)
	}

	return nil
}

// validateNoOverlap rejects member paths where one is nested inside another.
// Nested members would make file ownership during scanning ambiguous.
func validateNoOverlap(paths []string) error {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	for i := 1; i < len(sorted); i++ {
		if strings.HasPrefix(sorted[i], sorted[i-1]+"/") {
			return fmt.Errorf("workspace manifest: package path %q overlaps %q", sorted[i], sorted[i-1])
		}
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("workspace manifest: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("workspace manifest: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}

func validatePackage(p *Package) error {
	if p.Name == "" {
		return fmt.Errorf("package manifest: name is required")
	}
	if p.Kind != "" && p.Kind != KindLibrary && p.Kind != KindApplication {
		return fmt.Errorf("package manifest %s: kind must be %q or %q, got %q",
			p.Name, KindLibrary, KindApplication, p.Kind)
	}
	for i, a := range p.Aliases {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("package manifest %s: aliases[%d] is empty", p.Name, i)
		}
		if a == p.Name {
			return fmt.Errorf("package manifest %s: alias duplicates the package name", p.Name)
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

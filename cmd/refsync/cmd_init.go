package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/refsync/internal/manifest"
	"github.com/fbkclanna/refsync/internal/tmpl"
	"github.com/fbkclanna/refsync/internal/workspace"
)

// defaultExcludes keeps build output and installed modules out of scans for
// freshly scaffolded workspaces.
var defaultExcludes = []string{"**/node_modules/**", "**/dist/**"}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a workspace manifest interactively or from flags",
		RunE:  runInit,
	}
	cmd.Flags().String("name", "", "Workspace name (skips the interactive prompts)")
	cmd.Flags().StringSlice("package", nil, "Member directory, relative to the root (repeatable)")
	cmd.Flags().Bool("force", false, "Overwrite an existing workspace manifest")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	name, _ := cmd.Flags().GetString("name")
	packages, _ := cmd.Flags().GetStringSlice("package")
	force, _ := cmd.Flags().GetBool("force")

	manifestPath := filepath.Join(root, workspace.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", manifestPath)
	}

	members := make([]memberSpec, 0, len(packages))
	for _, p := range packages {
		members = append(members, memberSpec{Path: p, Kind: manifest.KindLibrary})
	}
	if name == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive init requires a TTY; pass --name and --package")
		}
		var err error
		name, members, err = interactiveWorkspace()
		if err != nil {
			return fmt.Errorf("interactive setup: %w", err)
		}
	}
	if len(members) == 0 {
		return fmt.Errorf("a workspace needs at least one --package")
	}

	paths := make([]string, 0, len(members))
	for _, m := range members {
		paths = append(paths, m.Path)
	}
	ws := manifest.Workspace{
		Version:  1,
		Name:     name,
		Packages: paths,
		Exclude:  defaultExcludes,
	}
	data, err := manifest.Marshal(&ws)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0755); err != nil { //nolint:gosec // workspace dir needs to be world-readable
		return fmt.Errorf("creating workspace directory: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil { //nolint:gosec // manifest needs to be readable
		return fmt.Errorf("writing workspace manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, m := range members {
		created, err := scaffoldMember(root, m)
		if err != nil {
			return err
		}
		if created {
			_, _ = fmt.Fprintf(out, "Scaffolded %s/%s\n", m.Path, workspace.PackageFileName)
		}
	}

	_, _ = fmt.Fprintf(out, "Workspace %q initialized at %s\n", name, manifestPath)
	return nil
}

// memberSpec is one package to declare and, if absent, scaffold.
type memberSpec struct {
	Path string
	Kind string
}

// scaffoldMember creates a member's package.yaml with its kind template's
// defaults, unless one already exists. The kind is written out only when it
// differs from the library default.
func scaffoldMember(root string, spec memberSpec) (bool, error) {
	dir := filepath.Join(root, filepath.FromSlash(spec.Path))
	manifestPath := filepath.Join(dir, workspace.PackageFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return false, nil
	}

	pkg := manifest.Package{Name: path.Base(spec.Path)}
	if spec.Kind != manifest.KindLibrary {
		pkg.Kind = spec.Kind
	}
	seed, err := yaml.Marshal(&pkg)
	if err != nil {
		return false, fmt.Errorf("package %s: %w", spec.Path, err)
	}
	doc, err := manifest.ParseDoc(seed)
	if err != nil {
		return false, fmt.Errorf("package %s: %w", spec.Path, err)
	}
	tmpl.Apply(doc, spec.Kind)
	data, err := doc.Marshal()
	if err != nil {
		return false, fmt.Errorf("package %s: %w", spec.Path, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // member dir needs to be world-readable
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil { //nolint:gosec // manifest needs to be readable
		return false, fmt.Errorf("writing %s: %w", manifestPath, err)
	}
	return true, nil
}

// interactiveWorkspace collects the workspace name and member paths and
// kinds through the terminal prompts.
func interactiveWorkspace() (string, []memberSpec, error) {
	name, err := promptInput("Workspace name", "acme", func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("workspace name is required")
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	name = strings.TrimSpace(name)

	var members []memberSpec
	seen := make(map[string]bool)
	for {
		p, err := promptInput("Package directory", "packages/utils", packagePathValidator(seen))
		if err != nil {
			return "", nil, err
		}
		p = path.Clean(filepath.ToSlash(strings.TrimSpace(p)))
		seen[p] = true

		app, err := promptConfirm("Is this an application (not a library)?")
		if err != nil {
			return "", nil, err
		}
		kind := manifest.KindLibrary
		if app {
			kind = manifest.KindApplication
		}
		members = append(members, memberSpec{Path: p, Kind: kind})

		more, err := promptConfirm("Add another package?")
		if err != nil {
			return "", nil, err
		}
		if !more {
			break
		}
	}
	return name, members, nil
}

func packagePathValidator(seen map[string]bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("package directory is required")
		}
		p := path.Clean(filepath.ToSlash(s))
		if path.IsAbs(p) || p == "." || strings.HasPrefix(p, "../") {
			return fmt.Errorf("package directory must be a relative path inside the workspace")
		}
		if seen[p] {
			return fmt.Errorf("package %q is already added", p)
		}
		return nil
	}
}

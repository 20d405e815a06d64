package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/fbkclanna/refsync/internal/fsio"
	"github.com/fbkclanna/refsync/internal/manifest"
)

// Well-known file names within a workspace root.
const (
	ManifestFileName = "workspace.yaml"
	RefsFileName     = "workspace.refs.yaml"
	PackageFileName  = "package.yaml"
)

// Member is one loaded workspace package.
type Member struct {
	Path         string // member directory, slash-separated, relative to root
	Dir          string // absolute member directory
	ManifestPath string // absolute path of the member's package.yaml
	Doc          *manifest.Doc
}

// Name returns the member's declared public identity.
func (m *Member) Name() string { return m.Doc.Pkg.Name }

// Context holds the resolved paths and loaded manifests for a workspace.
// It is owned exclusively by a single run.
type Context struct {
	Root         string
	ManifestPath string
	RefsPath     string
	Manifest     *manifest.Workspace
	Members      []*Member

	byName      map[string]*Member
	bySpecifier map[string]*Member
}

// Load resolves the workspace root and loads the workspace manifest plus
// every member's package.yaml. Any unreadable or malformed manifest is fatal.
func Load(root string, fsys fsio.FS) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	manifestPath := filepath.Join(root, ManifestFileName)
	data, err := fsys.Read(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no %s found in %s", ManifestFileName, root)
		}
		return nil, fmt.Errorf("reading workspace manifest: %w", err)
	}
	ws, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		Root:         root,
		ManifestPath: manifestPath,
		RefsPath:     filepath.Join(root, RefsFileName),
		Manifest:     ws,
		byName:       make(map[string]*Member, len(ws.Packages)),
		bySpecifier:  make(map[string]*Member, len(ws.Packages)),
	}

	for _, p := range ws.Packages {
		m, err := loadMember(root, p, fsys)
		if err != nil {
			return nil, err
		}
		if prev, ok := ctx.byName[m.Name()]; ok {
			return nil, fmt.Errorf("duplicate package identity %q declared by %s and %s",
				m.Name(), prev.Path, m.Path)
		}
		ctx.byName[m.Name()] = m
		ctx.Members = append(ctx.Members, m)
	}

	if err := ctx.indexSpecifiers(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func loadMember(root, p string, fsys fsio.FS) (*Member, error) {
	rel := path.Clean(filepath.ToSlash(p))
	dir := filepath.Join(root, filepath.FromSlash(rel))
	manifestPath := filepath.Join(dir, PackageFileName)

	data, err := fsys.Read(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("package %s: no %s found", rel, PackageFileName)
		}
		return nil, fmt.Errorf("package %s: reading manifest: %w", rel, err)
	}
	doc, err := manifest.ParseDoc(data)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", rel, err)
	}
	return &Member{Path: rel, Dir: dir, ManifestPath: manifestPath, Doc: doc}, nil
}

// indexSpecifiers builds the specifier lookup from package names and declared
// aliases. Resolution is exact-match only; a specifier never resolves to a
// package whose name is merely a prefix of it.
func (c *Context) indexSpecifiers() error {
	for _, m := range c.Members {
		c.bySpecifier[m.Name()] = m
	}
	for _, m := range c.Members {
		for _, alias := range m.Doc.Pkg.Aliases {
			if prev, ok := c.bySpecifier[alias]; ok && prev != m {
				return fmt.Errorf("alias %q of %s collides with %s", alias, m.Name(), prev.Name())
			}
			c.bySpecifier[alias] = m
		}
	}
	return nil
}

// Member looks up a member by its declared identity.
func (c *Context) Member(name string) (*Member, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Resolve maps an import specifier to the workspace member it names, if any.
func (c *Context) Resolve(specifier string) (*Member, bool) {
	m, ok := c.bySpecifier[specifier]
	return m, ok
}

// Identities returns all member identities in sorted order.
func (c *Context) Identities() []string {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.Name())
	}
	sort.Strings(ids)
	return ids
}

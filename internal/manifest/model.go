package manifest

// Workspace represents the top-level workspace.yaml manifest.
type Workspace struct {
	Version  int      `yaml:"version"`
	Name     string   `yaml:"name"`
	Packages []string `yaml:"packages"`
	Exclude  []string `yaml:"exclude,omitempty"`
	Defaults Defaults `yaml:"defaults,omitempty"`
}

// Defaults defines fallbacks applied to all members unless overridden
// at the package level.
type Defaults struct {
	Kind string `yaml:"kind,omitempty"`
}

// Package is the typed view of a member's package.yaml. It carries only the
// fields the pipeline interprets; everything else lives in the underlying
// document and survives rewrites untouched.
type Package struct {
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind,omitempty"`
	Aliases      []string          `yaml:"aliases,omitempty"`
	Dependencies map[string]string `yaml:"dependencies,omitempty"`
}

// Workspace-member kinds, driving template selection.
const (
	KindLibrary     = "library"
	KindApplication = "application"
)

// WorkspaceMarker is the reserved dependency version meaning "resolve within
// the workspace".
const WorkspaceMarker = "workspace:*"

// EffectiveKind returns the member kind, falling back to workspace defaults
// and then to library.
func (p *Package) EffectiveKind(d Defaults) string {
	if p.Kind != "" {
		return p.Kind
	}
	if d.Kind != "" {
		return d.Kind
	}
	return KindLibrary
}

// DependencyNames returns the declared dependency names in sorted order.
func (p *Package) DependencyNames() []string {
	return sortedKeys(p.Dependencies)
}

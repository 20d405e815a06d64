package reconcile

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/refsync/internal/fsio"
)

// RefFile represents workspace.refs.yaml, the ordered project-reference list
// shared by the whole workspace.
type RefFile struct {
	Version     int   `yaml:"version"`
	Composite   bool  `yaml:"composite"`
	Incremental bool  `yaml:"incremental"`
	References  []Ref `yaml:"references"`
}

// Ref is one ordered reference entry, naming a member directory.
type Ref struct {
	Path string `yaml:"path"`
}

// Paths returns the reference paths in file order.
func (f *RefFile) Paths() []string {
	out := make([]string, 0, len(f.References))
	for _, r := range f.References {
		out = append(out, r.Path)
	}
	return out
}

// LoadRefs reads the current reference file. A missing file is not an error;
// it returns nil.
func LoadRefs(fsys fsio.FS, path string) (*RefFile, error) {
	data, err := fsys.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading reference file: %w", err)
	}
	return ParseRefs(data)
}

// ParseRefs parses workspace.refs.yaml content.
func ParseRefs(data []byte) (*RefFile, error) {
	var f RefFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing reference file YAML: %w", err)
	}
	return &f, nil
}

// NewRefFile builds a reference file for the given ordered member paths,
// carrying over the composite/incremental flags from prev when present.
func NewRefFile(paths []string, prev *RefFile) *RefFile {
	f := &RefFile{Version: 1, Composite: true, Incremental: true}
	if prev != nil {
		f.Composite = prev.Composite
		f.Incremental = prev.Incremental
	}
	for _, p := range paths {
		f.References = append(f.References, Ref{Path: p})
	}
	return f
}

// Marshal serializes the reference file.
func (f *RefFile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshaling reference file: %w", err)
	}
	return data, nil
}

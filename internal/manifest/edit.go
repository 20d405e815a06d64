package manifest

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Doc is a parsed package.yaml that retains the underlying YAML document.
// Rewrites go through the node tree so that key order, comments, and fields
// this tool does not understand survive byte-for-byte; only the dependency
// block (and template-supplied defaults) are ever touched.
type Doc struct {
	Pkg  Package
	root yaml.Node
}

// ParseDoc parses and validates package.yaml content.
func ParseDoc(data []byte) (*Doc, error) {
	d := &Doc{}
	if err := yaml.Unmarshal(data, &d.Pkg); err != nil {
		return nil, fmt.Errorf("parsing package YAML: %w", err)
	}
	if err := validatePackage(&d.Pkg); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &d.root); err != nil {
		return nil, fmt.Errorf("parsing package YAML: %w", err)
	}
	return d, nil
}

// Mapping returns the document's top-level mapping node.
func (d *Doc) Mapping() *yaml.Node {
	return d.root.Content[0]
}

// SetDependency adds or updates a dependency entry. New entries are inserted
// in sorted position among existing dependency keys so repeated runs produce
// identical bytes.
func (d *Doc) SetDependency(name, version string) {
	deps := d.ensureDependencies()
	if v := MappingValue(deps, name); v != nil {
		*v = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: version}
	} else {
		insertSorted(deps, name, version)
	}
	if d.Pkg.Dependencies == nil {
		d.Pkg.Dependencies = make(map[string]string)
	}
	d.Pkg.Dependencies[name] = version
}

// RemoveDependency deletes a dependency entry. The dependencies key itself is
// dropped once it becomes empty.
func (d *Doc) RemoveDependency(name string) {
	deps := MappingValue(d.Mapping(), "dependencies")
	if deps == nil || deps.Kind != yaml.MappingNode {
		return
	}
	deleteMappingKey(deps, name)
	if len(deps.Content) == 0 {
		deleteMappingKey(d.Mapping(), "dependencies")
	}
	delete(d.Pkg.Dependencies, name)
}

// Marshal serializes the document with two-space indentation.
func (d *Doc) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d.root); err != nil {
		return nil, fmt.Errorf("marshaling package manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling package manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Doc) ensureDependencies() *yaml.Node {
	m := d.Mapping()
	if deps := MappingValue(m, "dependencies"); deps != nil {
		if deps.Kind != yaml.MappingNode {
			// A scalar/sequence dependencies value is replaced wholesale; the
			// typed parse would have rejected anything but a mapping or null.
			*deps = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		return deps
	}
	deps := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "dependencies"},
		deps)
	return deps
}

// MappingValue returns the value node for key within a mapping node, or nil.
func MappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func insertSorted(m *yaml.Node, key, value string) {
	pos := len(m.Content)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value > key {
			pos = i
			break
		}
	}
	pair := []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	}
	m.Content = append(m.Content[:pos], append(pair, m.Content[pos:]...)...)
}

func deleteMappingKey(m *yaml.Node, key string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return
		}
	}
}

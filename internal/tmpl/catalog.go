package tmpl

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/refsync/internal/manifest"
)

// catalog holds the default manifest shape per workspace-member kind. The
// shapes carry the structural build fields every member of that kind needs;
// the merge never overrides anything a manifest already declares.
var catalog = map[string]string{
	manifest.KindLibrary: `
build:
  composite: true
  incremental: true
  declaration: true
  outDir: dist
`,
	manifest.KindApplication: `
private: true
build:
  composite: true
  incremental: true
  outDir: build
`,
}

// Defaults returns the default manifest mapping for a member kind, or false
// for a kind without a template.
func Defaults(kind string) (*yaml.Node, bool) {
	src, ok := catalog[kind]
	if !ok {
		return nil, false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		panic(fmt.Sprintf("invalid template for kind %q: %v", kind, err))
	}
	return doc.Content[0], true
}

// Apply merges the kind's defaults into the package document and reports
// whether anything was added.
func Apply(doc *manifest.Doc, kind string) bool {
	defaults, ok := Defaults(kind)
	if !ok {
		return false
	}
	return Merge(doc.Mapping(), defaults)
}

// Needs reports whether Apply would change the document, without touching it.
func Needs(doc *manifest.Doc, kind string) bool {
	defaults, ok := Defaults(kind)
	if !ok {
		return false
	}
	return Merge(cloneNode(doc.Mapping()), defaults)
}

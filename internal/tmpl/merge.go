package tmpl

import (
	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/refsync/internal/manifest"
)

// Merge deep-merges defaults into existing at the key level and reports
// whether existing changed. Existing values always win: mapping values
// recurse, every other kind of value is left untouched when the key is
// already present, and sequence values are only ever adopted whole when the
// key is entirely absent.
func Merge(existing, defaults *yaml.Node) bool {
	if existing == nil || defaults == nil ||
		existing.Kind != yaml.MappingNode || defaults.Kind != yaml.MappingNode {
		return false
	}

	changed := false
	for i := 0; i+1 < len(defaults.Content); i += 2 {
		key := defaults.Content[i]
		val := defaults.Content[i+1]

		cur := manifest.MappingValue(existing, key.Value)
		if cur == nil {
			existing.Content = append(existing.Content, cloneNode(key), cloneNode(val))
			changed = true
			continue
		}
		if cur.Kind == yaml.MappingNode && val.Kind == yaml.MappingNode {
			if Merge(cur, val) {
				changed = true
			}
		}
	}
	return changed
}

func cloneNode(n *yaml.Node) *yaml.Node {
	c := *n
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child)
		}
	}
	return &c
}

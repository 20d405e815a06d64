package scanner

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tstypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// importQuery captures every construct that can carry a static import
// specifier in the JS/TS grammars: import declarations, re-exports,
// require(...) calls, and dynamic import(...) calls. The callee capture is
// filtered in Go rather than with a query predicate.
const importQuery = `
(import_statement source: (string (string_fragment) @source))
(export_statement source: (string (string_fragment) @source))
(call_expression
  function: (identifier) @callee
  arguments: (arguments . (string (string_fragment) @source)))
(call_expression
  function: (import)
  arguments: (arguments . (string (string_fragment) @source)))
`

type language struct {
	lang  *sitter.Language
	query *sitter.Query
}

// languages maps a lowercased file extension to its compiled grammar and
// import query. Extensions outside this map are not source files.
var languages = map[string]*language{}

func init() {
	js := newLanguage(sitter.NewLanguage(tsjavascript.Language()))
	ts := newLanguage(sitter.NewLanguage(tstypescript.LanguageTypescript()))
	tsx := newLanguage(sitter.NewLanguage(tstypescript.LanguageTSX()))
	for _, ext := range []string{".js", ".jsx", ".mjs", ".cjs"} {
		languages[ext] = js
	}
	languages[".ts"] = ts
	languages[".mts"] = ts
	languages[".cts"] = ts
	languages[".tsx"] = tsx
}

func newLanguage(lang *sitter.Language) *language {
	q, qerr := sitter.NewQuery(lang, importQuery)
	if qerr != nil {
		panic(fmt.Sprintf("compiling import query: %v", qerr))
	}
	return &language{lang: lang, query: q}
}

// importSpecifiers parses one source file and returns every import specifier
// it names, in document order, duplicates included.
func importSpecifiers(parser *sitter.Parser, l *language, src []byte) ([]string, error) {
	if err := parser.SetLanguage(l.lang); err != nil {
		return nil, fmt.Errorf("configuring parser: %w", err)
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse produced no tree")
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	names := l.query.CaptureNames()
	matches := cursor.Matches(l.query, tree.RootNode(), src)

	var specs []string
	for m := matches.Next(); m != nil; m = matches.Next() {
		var callee, source string
		for _, c := range m.Captures {
			switch names[c.Index] {
			case "callee":
				callee = c.Node.Utf8Text(src)
			case "source":
				source = c.Node.Utf8Text(src)
			}
		}
		if callee != "" && callee != "require" {
			continue
		}
		if source != "" {
			specs = append(specs, source)
		}
	}
	return specs, nil
}

package scanner

import (
	"fmt"
	"strings"
)

// Rule is a compiled path-exclusion glob. Matching is segment-aware: the
// pattern and the candidate path are both split on separators and compared
// segment by segment, never by substring, so `**/dist/**` excludes
// `dist/bundle.js` but not `distribution/bundle.js`.
type Rule struct {
	raw  string
	segs []string
}

// Compile parses a single exclude pattern. A trailing separator is shorthand
// for everything beneath that directory.
func Compile(pattern string) (Rule, error) {
	p := strings.ReplaceAll(pattern, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	if strings.Trim(p, "/") == "" {
		return Rule{}, fmt.Errorf("empty exclude pattern %q", pattern)
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for _, s := range segs {
		if s == "" {
			return Rule{}, fmt.Errorf("exclude pattern %q has an empty segment", pattern)
		}
		if strings.Contains(s, "**") && s != "**" {
			return Rule{}, fmt.Errorf("exclude pattern %q: ** must stand alone as a segment", pattern)
		}
	}
	return Rule{raw: pattern, segs: segs}, nil
}

// CompileRules compiles a pattern list, failing on the first invalid one.
func CompileRules(patterns []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		r, err := Compile(p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// String returns the original pattern text.
func (r Rule) String() string { return r.raw }

// Match reports whether the slash- or backslash-separated path matches the
// rule across complete path segments.
func (r Rule) Match(path string) bool {
	p := strings.ReplaceAll(path, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	parts := strings.Split(strings.Trim(p, "/"), "/")
	return matchSegs(r.segs, parts)
}

// Excluded reports whether the path matches any rule.
func Excluded(rules []Rule, path string) bool {
	for _, r := range rules {
		if r.Match(path) {
			return true
		}
	}
	return false
}

// matchSegs matches pattern segments against path segments. `**` spans zero
// or more whole segments; every other pattern segment must consume exactly
// one path segment.
func matchSegs(pat, parts []string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}
	if pat[0] == "**" {
		if matchSegs(pat[1:], parts) {
			return true
		}
		if len(parts) > 0 {
			return matchSegs(pat, parts[1:])
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if !matchSegment(pat[0], parts[0]) {
		return false
	}
	return matchSegs(pat[1:], parts[1:])
}

// matchSegment matches one pattern segment against one path segment. `*`
// matches any run of characters within the segment, `?` exactly one; neither
// ever crosses a separator.
func matchSegment(pat, s string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			for len(pat) > 0 && pat[0] == '*' {
				pat = pat[1:]
			}
			if len(pat) == 0 {
				return true
			}
			for i := 0; i <= len(s); i++ {
				if matchSegment(pat, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pat, s = pat[1:], s[1:]
		default:
			if len(s) == 0 || s[0] != pat[0] {
				return false
			}
			pat, s = pat[1:], s[1:]
		}
	}
	return len(s) == 0
}

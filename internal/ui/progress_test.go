package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestTracker_countsPackages(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, 3)

	tr.Package("@scope/utils", 4, 0)
	tr.Package("@scope/ui", 2, 1)
	tr.Package("@scope/web", 7, 2)

	out := buf.String()
	for _, want := range []string{
		"[1/3] @scope/utils: 4 files, 0 workspace deps",
		"[2/3] @scope/ui: 2 files, 1 workspace deps",
		"[3/3] @scope/web: 7 files, 2 workspace deps",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing line %q in: %s", want, out)
		}
	}
}

func TestTracker_concurrentScans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, 8)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Package("pkg", i, 0)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(buf.String(), "[8/8]") {
		t.Errorf("final counter missing: %s", buf.String())
	}
}

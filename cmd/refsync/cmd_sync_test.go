package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fbkclanna/refsync/internal/fsio"
	"github.com/fbkclanna/refsync/internal/reconcile"
	"github.com/fbkclanna/refsync/internal/testutil"
	"github.com/fbkclanna/refsync/internal/workspace"
)

// fiveWorkspace builds a workspace whose sources produce the graph
// utils <- ui <- web/mobile, utils <- api-client <- web/mobile.
func fiveWorkspace(t *testing.T) *testutil.Workspace {
	t.Helper()
	w := testutil.NewWorkspace(t)
	w.WriteManifest(t, "acme", []string{
		"packages/utils", "packages/ui", "packages/api-client", "packages/web", "packages/mobile",
	}, []string{"**/node_modules/**", "**/dist/**"})

	w.AddPackage(t, "packages/utils", "utils", nil)
	w.AddPackage(t, "packages/ui", "ui", nil)
	w.AddPackage(t, "packages/api-client", "api-client", nil)
	w.AddPackage(t, "packages/web", "web", nil)
	w.AddPackage(t, "packages/mobile", "mobile", nil)

	w.WriteSource(t, "packages/utils", "src/index.ts", "export const capitalize = (s: string) => s;\n")
	w.WriteSource(t, "packages/ui", "src/index.ts", "import { capitalize } from \"utils\";\nexport const Button = capitalize;\n")
	w.WriteSource(t, "packages/api-client", "src/client.ts", "import { capitalize } from \"utils\";\nexport const get = capitalize;\n")
	w.WriteSource(t, "packages/web", "src/app.tsx", "import { Button } from \"ui\";\nimport { get } from \"api-client\";\nimport { capitalize } from \"utils\";\nexport const app = [Button, get, capitalize];\n")
	w.WriteSource(t, "packages/mobile", "src/index.js", "import { Button } from \"ui\";\nconst api = require(\"api-client\");\nmodule.exports = { Button, api };\n")
	return w
}

func runCmd(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func loadCtx(t *testing.T, root string) *workspace.Context {
	t.Helper()
	ctx, err := workspace.Load(root, fsio.OS{})
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func TestRunSync_addsDependenciesAndRefs(t *testing.T) {
	w := fiveWorkspace(t)

	out, err := runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}

	ctx := loadCtx(t, w.Root)
	web, _ := ctx.Member("web")
	for _, dep := range []string{"ui", "api-client", "utils"} {
		if web.Doc.Pkg.Dependencies[dep] != "workspace:*" {
			t.Errorf("web missing workspace dependency %s: %v", dep, web.Doc.Pkg.Dependencies)
		}
	}
	utils, _ := ctx.Member("utils")
	if len(utils.Doc.Pkg.Dependencies) != 0 {
		t.Errorf("utils should have no dependencies: %v", utils.Doc.Pkg.Dependencies)
	}

	refs := w.ReadFile(t, "workspace.refs.yaml")
	order := []string{"packages/utils", "packages/api-client", "packages/ui", "packages/mobile", "packages/web"}
	last := -1
	for _, p := range order {
		idx := strings.Index(refs, "path: "+p)
		if idx < 0 {
			t.Fatalf("reference %s missing:\n%s", p, refs)
		}
		if idx < last {
			t.Fatalf("reference %s out of order:\n%s", p, refs)
		}
		last = idx
	}
}

func TestRunSync_idempotent(t *testing.T) {
	w := fiveWorkspace(t)

	if out, err := runCmd(t, w.Root, "sync"); err != nil {
		t.Fatalf("first sync failed: %v\n%s", err, out)
	}

	files := []string{
		"packages/utils/package.yaml",
		"packages/ui/package.yaml",
		"packages/api-client/package.yaml",
		"packages/web/package.yaml",
		"packages/mobile/package.yaml",
		"workspace.refs.yaml",
	}
	before := make(map[string]string, len(files))
	for _, f := range files {
		before[f] = w.ReadFile(t, f)
	}

	out, err := runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("second sync failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Workspace is clean.") {
		t.Errorf("second sync should report a clean workspace:\n%s", out)
	}
	for _, f := range files {
		if got := w.ReadFile(t, f); got != before[f] {
			t.Errorf("%s changed on second sync:\n%s", f, got)
		}
	}
}

func TestRunSync_dryRunWritesNothing(t *testing.T) {
	w := fiveWorkspace(t)
	manifestBefore := w.ReadFile(t, "packages/web/package.yaml")

	out, err := runCmd(t, w.Root, "sync", "--dry-run")
	if err != nil {
		t.Fatalf("dry run must exit zero: %v\n%s", err, out)
	}
	if !strings.Contains(out, "would write") {
		t.Errorf("dry run should report pending writes:\n%s", out)
	}
	if w.Exists("workspace.refs.yaml") {
		t.Error("dry run must not create the reference file")
	}
	if got := w.ReadFile(t, "packages/web/package.yaml"); got != manifestBefore {
		t.Errorf("dry run rewrote a manifest:\n%s", got)
	}
}

func TestRunSync_cycleWritesNothing(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.WriteManifest(t, "acme", []string{"packages/a", "packages/b"}, nil)
	w.AddPackage(t, "packages/a", "a", nil)
	w.AddPackage(t, "packages/b", "b", nil)
	w.WriteSource(t, "packages/a", "src/index.ts", "import \"b\";\n")
	w.WriteSource(t, "packages/b", "src/index.ts", "import \"a\";\n")

	out, err := runCmd(t, w.Root, "sync")
	if err == nil {
		t.Fatalf("cyclic workspace must fail:\n%s", out)
	}
	if !strings.Contains(err.Error(), "cyclic dependency") {
		t.Errorf("error should name the cycle: %v", err)
	}
	if w.Exists("workspace.refs.yaml") {
		t.Error("failed sync must not create the reference file")
	}
	ctx := loadCtx(t, w.Root)
	for _, m := range ctx.Members {
		if len(m.Doc.Pkg.Dependencies) != 0 {
			t.Errorf("%s was rewritten despite the cycle: %v", m.Name(), m.Doc.Pkg.Dependencies)
		}
	}
}

func TestRunSync_preservesExternalDeps(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.WriteManifest(t, "acme", []string{"packages/utils", "packages/ui"}, nil)
	w.AddPackage(t, "packages/utils", "utils", nil)
	w.AddPackage(t, "packages/ui", "ui", map[string]string{"left-pad": "1.3.0"})
	w.WriteSource(t, "packages/ui", "src/index.ts", "import \"utils\";\nimport leftPad from \"left-pad\";\n")

	out, err := runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}

	ctx := loadCtx(t, w.Root)
	ui, _ := ctx.Member("ui")
	if ui.Doc.Pkg.Dependencies["left-pad"] != "1.3.0" {
		t.Errorf("external dependency lost: %v", ui.Doc.Pkg.Dependencies)
	}
	if ui.Doc.Pkg.Dependencies["utils"] != "workspace:*" {
		t.Errorf("workspace dependency missing: %v", ui.Doc.Pkg.Dependencies)
	}
}

func TestRunSync_respectsExcludes(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.WriteManifest(t, "acme", []string{"packages/utils", "packages/api-client", "packages/ui"},
		[]string{"**/generated/**"})
	w.AddPackage(t, "packages/utils", "utils", nil)
	w.AddPackage(t, "packages/api-client", "api-client", nil)
	w.AddPackage(t, "packages/ui", "ui", nil)
	w.WriteSource(t, "packages/ui", "src/index.ts", "import \"utils\";\n")
	w.WriteSource(t, "packages/ui", "generated/schema.ts", "import \"api-client\";\n")

	out, err := runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}

	ctx := loadCtx(t, w.Root)
	ui, _ := ctx.Member("ui")
	if _, ok := ui.Doc.Pkg.Dependencies["api-client"]; ok {
		t.Errorf("excluded file contributed an edge: %v", ui.Doc.Pkg.Dependencies)
	}
	if ui.Doc.Pkg.Dependencies["utils"] != "workspace:*" {
		t.Errorf("workspace dependency missing: %v", ui.Doc.Pkg.Dependencies)
	}
}

func TestRunSync_appliesMissingTemplateDefaults(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.WriteManifest(t, "acme", []string{"packages/a", "packages/b"}, nil)
	w.AddPackage(t, "packages/a", "a", nil)
	w.WriteFile(t, "packages/b/package.yaml", "name: b\ndependencies:\n  a: workspace:*\n")
	w.WriteSource(t, "packages/b", "src/index.ts", "import \"a\";\n")

	out, err := runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	if strings.Contains(out, "Workspace is clean.") {
		t.Fatalf("manifest missing build defaults must not be clean:\n%s", out)
	}
	if !strings.Contains(out, "b: add missing template defaults") {
		t.Errorf("template drift should be reported:\n%s", out)
	}

	manifest := w.ReadFile(t, "packages/b/package.yaml")
	if !strings.Contains(manifest, "outDir: dist") {
		t.Errorf("library defaults not applied:\n%s", manifest)
	}
	if !strings.Contains(manifest, "a: workspace:*") {
		t.Errorf("existing dependency lost:\n%s", manifest)
	}

	out, err = runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("second sync failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Workspace is clean.") {
		t.Errorf("second sync should be clean:\n%s", out)
	}
}

func TestRunSync_keepsForeignRefEntries(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.WriteManifest(t, "acme", []string{"packages/a", "packages/b"}, nil)
	w.AddPackage(t, "packages/a", "a", nil)
	w.AddPackage(t, "packages/b", "b", map[string]string{"a": "workspace:*"})
	w.WriteSource(t, "packages/b", "src/index.ts", "import \"a\";\n")

	refs := &reconcile.RefFile{
		Version:     1,
		Composite:   true,
		Incremental: true,
		References: []reconcile.Ref{
			{Path: "packages/a"},
			{Path: "vendor/legacy"},
			{Path: "packages/b"},
		},
	}
	data, err := refs.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	w.WriteFile(t, "workspace.refs.yaml", string(data))
	before := w.ReadFile(t, "workspace.refs.yaml")

	out, err := runCmd(t, w.Root, "sync")
	if err != nil {
		t.Fatalf("sync failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Workspace is clean.") {
		t.Errorf("hand-added reference entry must not cause drift:\n%s", out)
	}
	if got := w.ReadFile(t, "workspace.refs.yaml"); got != before {
		t.Errorf("reference file rewritten:\n%s", got)
	}
}

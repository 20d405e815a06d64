package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/refsync/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-package drift between manifests and source imports",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Int("jobs", 4, "Number of parallel scan workers")
	return cmd
}

type pkgStatus struct {
	Package  string   `json:"package"`
	Path     string   `json:"path"`
	Kind     string   `json:"kind"`
	Declared []string `json:"declared,omitempty"`
	Deps     []string `json:"deps,omitempty"`
	Add      []string `json:"add,omitempty"`
	Remove   []string `json:"remove,omitempty"`
	Template bool     `json:"template,omitempty"`
}

type statusReport struct {
	Packages    []pkgStatus `json:"packages"`
	RefsChanged bool        `json:"refs_changed"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	jobs, _ := cmd.Flags().GetInt("jobs")

	p, err := runPipeline(cmd, jobs, false, false)
	if err != nil {
		return err
	}

	needsTmpl := make(map[string]bool, len(p.plan.Templates))
	for _, name := range p.plan.Templates {
		needsTmpl[name] = true
	}

	rep := statusReport{RefsChanged: p.plan.RefsChanged}
	for _, m := range p.ctx.Members {
		change := p.plan.Changes[m.Name()]
		rep.Packages = append(rep.Packages, pkgStatus{
			Package:  m.Name(),
			Path:     m.Path,
			Kind:     m.Doc.Pkg.EffectiveKind(p.ctx.Manifest.Defaults),
			Declared: m.Doc.Pkg.DependencyNames(),
			Deps:     p.graph.Deps(m.Name()),
			Add:      change.Add,
			Remove:   change.Remove,
			Template: needsTmpl[m.Name()],
		})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	tbl := ui.NewTable(out, "PACKAGE", "KIND", "DECLARED", "IMPORTS", "DRIFT")
	for _, s := range rep.Packages {
		tbl.Row(s.Package, s.Kind, strings.Join(s.Declared, ","), strings.Join(s.Deps, ","), drift(s))
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	switch {
	case p.plan.Empty():
		_, _ = fmt.Fprintln(out, "Workspace is clean.")
	case p.plan.RefsChanged:
		_, _ = fmt.Fprintln(out, "Changes needed (including build references); run sync.")
	default:
		_, _ = fmt.Fprintln(out, "Changes needed; run sync.")
	}
	return nil
}

func drift(s pkgStatus) string {
	var parts []string
	if len(s.Add) > 0 {
		parts = append(parts, fmt.Sprintf("+%d", len(s.Add)))
	}
	if len(s.Remove) > 0 {
		parts = append(parts, fmt.Sprintf("-%d", len(s.Remove)))
	}
	if s.Template {
		parts = append(parts, "tmpl")
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, " ")
}

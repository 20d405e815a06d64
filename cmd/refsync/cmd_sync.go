package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/refsync/internal/apply"
	"github.com/fbkclanna/refsync/internal/fsio"
	"github.com/fbkclanna/refsync/internal/reconcile"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rewrite manifests and build references to match source imports",
		RunE:  runSync,
	}
	cmd.Flags().Bool("dry-run", false, "Report pending writes without touching any file")
	cmd.Flags().Bool("verbose", false, "Print per-file scan details")
	cmd.Flags().Int("jobs", 4, "Number of parallel scan workers")
	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jobs, _ := cmd.Flags().GetInt("jobs")

	p, err := runPipeline(cmd, jobs, verbose, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if p.plan.Empty() {
		_, _ = fmt.Fprintln(out, "Workspace is clean.")
		return nil
	}

	ops, err := apply.Plan(p.ctx, p.plan, p.refs)
	if err != nil {
		return err
	}

	for _, name := range sortedChangeNames(p.plan) {
		c := p.plan.Changes[name]
		if len(c.Add) > 0 {
			_, _ = fmt.Fprintf(out, "%s: add %s\n", name, strings.Join(c.Add, ", "))
		}
		if len(c.Remove) > 0 {
			_, _ = fmt.Fprintf(out, "%s: remove %s\n", name, strings.Join(c.Remove, ", "))
		}
	}
	for _, name := range p.plan.Templates {
		if _, ok := p.plan.Changes[name]; !ok {
			_, _ = fmt.Fprintf(out, "%s: add missing template defaults\n", name)
		}
	}

	if dryRun {
		for _, op := range ops {
			_, _ = fmt.Fprintf(out, "would write %s (%s)\n", op.Path, op.Reason)
		}
		_, _ = fmt.Fprintf(out, "Dry run: %d files need updating.\n", len(ops))
		return nil
	}

	if err := apply.Commit(fsio.OS{}, ops); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Sync complete: %d files written.\n", len(ops))
	return nil
}

func sortedChangeNames(p *reconcile.Plan) []string {
	names := make([]string, 0, len(p.Changes))
	for name := range p.Changes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/refsync/internal/depgraph"
	"github.com/fbkclanna/refsync/internal/fsio"
	"github.com/fbkclanna/refsync/internal/reconcile"
	"github.com/fbkclanna/refsync/internal/report"
	"github.com/fbkclanna/refsync/internal/scanner"
	"github.com/fbkclanna/refsync/internal/ui"
	"github.com/fbkclanna/refsync/internal/workspace"
)

// pipeline holds the shared scan-and-reconcile state the sync, status, and
// graph commands all start from.
type pipeline struct {
	ctx   *workspace.Context
	graph *depgraph.Graph
	refs  *reconcile.RefFile
	plan  *reconcile.Plan
	log   *report.Reporter
}

// runPipeline loads the workspace, scans every member's sources, validates
// the resulting graph, and diffs it against the declared state. A cyclic
// graph aborts here, before anything downstream could write a file.
func runPipeline(cmd *cobra.Command, jobs int, verbose, progress bool) (*pipeline, error) {
	root, _ := cmd.Flags().GetString("root")
	if jobs < 1 {
		return nil, fmt.Errorf("--jobs must be >= 1 (got %d)", jobs)
	}

	fsys := fsio.OS{}
	log := report.New(cmd.ErrOrStderr(), verbose)

	ctx, err := workspace.Load(root, fsys)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded %d packages from %s", len(ctx.Members), ctx.ManifestPath)

	rules, err := scanner.CompileRules(ctx.Manifest.Exclude)
	if err != nil {
		return nil, err
	}

	opts := scanner.Options{Rules: rules, FS: fsys, Log: log}
	gitignorePath := filepath.Join(ctx.Root, ".gitignore")
	if _, statErr := os.Stat(gitignorePath); statErr == nil {
		gi, giErr := ignore.CompileIgnoreFile(gitignorePath)
		if giErr != nil {
			return nil, fmt.Errorf("parsing %s: %w", gitignorePath, giErr)
		}
		opts.Ignore = gi
	}
	if progress {
		opts.Progress = ui.NewTracker(cmd.ErrOrStderr(), len(ctx.Members))
	}

	edges, err := scanner.ScanAll(ctx, opts, jobs)
	if err != nil {
		return nil, err
	}

	g := depgraph.New(ctx.Identities(), edges)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	log.Debug("graph has %d edges", len(g.Edges()))

	refs, err := reconcile.LoadRefs(fsys, ctx.RefsPath)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		ctx:   ctx,
		graph: g,
		refs:  refs,
		plan:  reconcile.Build(ctx, g, refs),
		log:   log,
	}, nil
}

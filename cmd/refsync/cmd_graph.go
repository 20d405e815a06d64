package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/refsync/internal/depgraph"
	"github.com/fbkclanna/refsync/internal/ui"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the scanned dependency graph and its build order",
		RunE:  runGraph,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Int("jobs", 4, "Number of parallel scan workers")
	return cmd
}

type graphReport struct {
	Nodes []string        `json:"nodes"`
	Edges []depgraph.Edge `json:"edges"`
	Order []string        `json:"order"`
}

func runGraph(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	jobs, _ := cmd.Flags().GetInt("jobs")

	p, err := runPipeline(cmd, jobs, false, false)
	if err != nil {
		return err
	}

	rep := graphReport{
		Nodes: p.graph.Nodes(),
		Edges: p.graph.Edges(),
		Order: p.graph.TopoOrder(),
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	tbl := ui.NewTable(out, "PACKAGE", "DEPENDS ON")
	for _, n := range rep.Nodes {
		tbl.Row(n, strings.Join(p.graph.Deps(n), ","))
	}
	if err := tbl.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Build order: %s\n", strings.Join(rep.Order, ", "))
	return nil
}

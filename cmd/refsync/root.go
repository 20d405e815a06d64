package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fbkclanna/refsync/internal/report"
	"github.com/fbkclanna/refsync/internal/ui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "refsync",
		Short:   "Keep workspace manifests in sync with actual source imports",
		Version: version,
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root directory")
	cmd.PersistentFlags().Bool("no-color", false, "Disable styled output")

	cmd.PersistentPreRun = func(c *cobra.Command, _ []string) {
		noColor, _ := c.Flags().GetBool("no-color")
		if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
			report.ForceNoColor()
			ui.ForceNoColor()
		}
	}

	cmd.AddCommand(
		newInitCmd(),
		newSyncCmd(),
		newStatusCmd(),
		newGraphCmd(),
	)

	return cmd
}

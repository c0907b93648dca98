package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackstrip/internal/deps"
	"trackstrip/internal/preflight"
	"trackstrip/internal/snapshot"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report tool availability, output directories and the cached scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			toolRows := [][]string{}
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				toolRows = append(toolRows, []string{status.Name, yesNo(status.Available), yesNo(status.Optional), status.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Available", "Optional", "Detail"}, toolRows, nil))

			checkRows := [][]string{}
			for _, result := range preflight.RunAll(
				preflight.Target{Name: "Script", Path: cfg.Paths.Script},
				preflight.Target{Name: "Snapshot", Path: cfg.Paths.Snapshot},
				preflight.Target{Name: "Log", Path: cfg.Paths.LogFile},
			) {
				checkRows = append(checkRows, []string{result.Name, yesNo(result.Passed), result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Directory", "Writable", "Detail"}, checkRows, nil))

			exists, err := snapshot.NewStore(cfg.Paths.Snapshot).Exists()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Cached scan: %s (%s)\n", yesNo(exists), cfg.Paths.Snapshot)
			return nil
		},
	}
}

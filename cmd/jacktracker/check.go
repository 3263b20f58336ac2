package main

import (
	"fmt"

	"github.com/jacktracker/jacktracker/internal/infra/config"
	"github.com/jacktracker/jacktracker/internal/platform"
	"github.com/spf13/cobra"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the external download tools are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			statuses, err := platform.ValidateDependencies(cfg.Tools)
			fmt.Fprintln(cmd.OutOrStdout(), renderBinaryStatus(statuses))
			return err
		},
	}
}

func renderBinaryStatus(statuses []platform.BinaryStatus) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state, where := "ok", s.Path
		if !s.Available {
			state, where = "missing", s.Detail
		}
		rows = append(rows, []string{s.Name, s.Command, state, where, s.Purpose})
	}
	return renderTable([]string{"Tool", "Command", "Status", "Path", "Used for"}, rows, nil)
}

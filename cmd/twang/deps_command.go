package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"twang/internal/api"
	"twang/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external binary availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckSystemDeps(cfg)
			missingRequired := false
			for _, status := range statuses {
				if !status.Available && !status.Optional {
					missingRequired = true
				}
			}

			if jsonOut {
				if err := writeJSON(cmd, api.FromDependencyStatuses(statuses)); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					detail := status.Detail
					if status.Available && detail == "" {
						detail = "found"
					}
					rows = append(rows, []string{
						status.Name,
						status.Command,
						yesNo(status.Available),
						yesNo(status.Optional),
						detail,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Dependency", "Command", "Available", "Optional", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
			}

			if missingRequired {
				return errors.New("required dependencies are missing")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit dependency status as JSON")
	return cmd
}

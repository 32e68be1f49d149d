package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"twang/internal/profiles"
)

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "profiles",
		Short:       "Show the reference accent profiles",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			table := profiles.NewTable()
			rows := make([][]string, 0, table.Len())
			for _, accent := range table.Accents() {
				profile, ok := table.Lookup(accent)
				if !ok {
					continue
				}
				rows = append(rows, []string{
					profiles.DisplayName(accent),
					fmt.Sprintf("%.2f / %.2f / %.2f",
						profile.FormantRatios[0], profile.FormantRatios[1], profile.FormantRatios[2]),
					strconv.FormatFloat(profile.PitchVariance, 'f', 2, 64),
					strconv.FormatFloat(profile.SpeakingRate, 'f', 0, 64),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Accent", "Formant Ratios", "Pitch Variance", "Words/Min"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

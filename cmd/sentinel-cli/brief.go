package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBriefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brief [incident-id]...",
		Short: "Generate an executive briefing (whole feed when no ids are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadServices(cmd.Context())
			if err != nil {
				return err
			}

			briefing, err := services.Intelligence.BriefIncidents(cmd.Context(), args)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), briefing)
			}
			if briefing.Fallback {
				printErr(cmd, "warning: backend returned no text")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), briefing.Text)
			return err
		},
	}
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/pkg/utils"
)

func newIncidentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "incidents",
		Short: "List the incident feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadServices(cmd.Context())
			if err != nil {
				return err
			}
			incidents, err := services.Intelligence.ListIncidents(cmd.Context())
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), incidents)
			}
			return renderIncidents(cmd.OutOrStdout(), incidents)
		},
	}
}

func renderIncidents(w io.Writer, incidents []models.SecurityIncident) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRISK\tCATEGORY\tLOCATION\tTITLE")
	for _, inc := range incidents {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			inc.ID, inc.RiskLevel, inc.Category, inc.Location, utils.Truncate(inc.Title, 60))
	}
	return tw.Flush()
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/sentinel/internal/domain/models"
)

func newAssessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assess <incident-id>...",
		Short: "Run a structured risk assessment for feed incidents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadServices(cmd.Context())
			if err != nil {
				return err
			}

			results, err := services.Intelligence.AnalyzeIncidents(cmd.Context(), args)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					printErr(cmd, "%s: %v", r.Incident.ID, r.Err)
					continue
				}
				if outputJSON {
					if err := writeJSON(cmd.OutOrStdout(), r.Analysis); err != nil {
						return err
					}
					continue
				}
				if err := renderAnalysis(cmd.OutOrStdout(), r.Incident, r.Analysis); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d assessments failed", failed, len(results))
			}
			return nil
		},
	}
}

func renderAnalysis(w io.Writer, incident models.SecurityIncident, a *models.RiskAnalysis) error {
	_, err := fmt.Fprintf(w, `%s (%s)
  Overall score:                %.0f
  Geopolitical factor:          %.0f
  Infrastructure vulnerability: %.0f
  Economic stability:           %.0f

  %s

`, incident.Title, incident.Location, a.OverallScore, a.GeopoliticalFactor,
		a.InfrastructureVulnerability, a.EconomicStability, a.Summary)
	if err != nil {
		return err
	}
	for i, rec := range a.Recommendations {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, rec); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}

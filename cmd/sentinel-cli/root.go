package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/sentinel/internal/app"
	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/pkg/logger"
)

var (
	configFile string
	outputJSON bool
	verbose    bool
)

// rootCmd is the base command when sentinel-cli is called without subcommands.
// rootCmd 是不带子命令调用 sentinel-cli 时的基本命令。
var rootCmd = &cobra.Command{
	Use:   "sentinel-cli",
	Short: "Command-line client for the Sentinel risk-intelligence service.",
	Long: `sentinel-cli lists the incident feed, runs structured risk assessments and
generates executive briefings using the configured generative backend.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./config.yaml or /etc/sentinel/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(newIncidentsCmd(), newAssessCmd(), newBriefCmd())
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadServices reads the configuration and assembles the services for one command.
func loadServices(ctx context.Context) (*app.Services, error) {
	log := logger.NewNoopLogger()
	if verbose {
		zl, err := monitoring.NewZapLogger(&config.LogConfig{Level: "debug", Format: "console", OutputPath: "stderr"})
		if err != nil {
			return nil, err
		}
		log = zl
	}

	cfg, err := config.NewLoader(log, configFile).Load()
	if err != nil {
		return nil, err
	}
	return app.NewServices(ctx, cfg, monitoring.NewNoopTracingManager(), nil, log)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printErr(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/leadforge/leadcore/internal/config"
	"github.com/leadforge/leadcore/internal/logging"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app carries state shared by subcommands after PersistentPreRunE.
type app struct {
	cfg        *config.Config
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "leadcore",
		Short:         "LeadForge decision core",
		Long:          `leadcore evaluates tier feature gates, runs the quickstart wizard and projects ROI for LeadForge plans.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			a.cfg = cfg
			logging.Init(cfg.LoggingConfig("leadcore"))
			log.Debug().Str("command", cmd.Name()).Msg("Configuration loaded")
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newTiersCmd(a),
		newFeaturesCmd(a),
		newGateCmd(a),
		newUpgradeReasonsCmd(a),
		newImportDecisionCmd(a),
		newROICmd(a),
		newQuickstartCmd(a),
		newEventsCmd(a),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip config loading
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "leadcore %s\n", Version)
			if BuildTime != "unknown" {
				fmt.Fprintf(out, "Built: %s\n", BuildTime)
			}
			if GitCommit != "unknown" {
				fmt.Fprintf(out, "Commit: %s\n", GitCommit)
			}
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

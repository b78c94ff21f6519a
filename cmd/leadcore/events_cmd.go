package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadforge/leadcore/internal/analytics"
)

func newEventsCmd(a *app) *cobra.Command {
	var (
		limit  int
		counts bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recorded wizard analytics events",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.AnalyticsDBPath()
			if path == "" {
				return fmt.Errorf("no analytics database configured; set LEADCORE_ANALYTICS_DB or LEADCORE_DATA_DIR")
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("analytics database %s: %w", path, err)
			}

			store, err := analytics.NewSQLiteStore(path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if counts {
				byName, err := store.CountByName(cmd.Context())
				if err != nil {
					return err
				}
				if a.jsonOutput {
					return writeJSON(out, byName)
				}
				names := make([]string, 0, len(byName))
				for name := range byName {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "%-20s %d\n", name, byName[name])
				}
				return nil
			}

			events, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return writeJSON(out, events)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tEVENT\tSESSION\tPAYLOAD")
			for _, e := range events {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", e.OccurredAt.Format(time.RFC3339), e.Name, e.SessionID, e.Payload)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events to show")
	cmd.Flags().BoolVar(&counts, "counts", false, "Show totals per event name instead")
	return cmd
}

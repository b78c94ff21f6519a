package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadforge/leadcore/internal/smartimport"
)

func newImportDecisionCmd(a *app) *cobra.Command {
	var in smartimport.Input
	cmd := &cobra.Command{
		Use:   "import-decision",
		Short: "Show which import flow the dashboard opens",
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := smartimport.Decide(in)
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), decision)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n%s\n", decision.Type, decision.Title, decision.Description)
			return nil
		},
	}
	cmd.Flags().BoolVar(&in.HasConnectedCRM, "crm", false, "A CRM is connected")
	cmd.Flags().StringVar(&in.CRMDisplayLabel, "crm-label", "", "Display name of the connected CRM")
	cmd.Flags().BoolVar(&in.HasLeadLists, "lists", false, "The account already has lead lists")
	return cmd
}

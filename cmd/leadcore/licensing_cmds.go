package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leadforge/leadcore/pkg/licensing"
)

func newTiersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List subscription tiers in rank order",
		RunE: func(cmd *cobra.Command, args []string) error {
			type tierRow struct {
				Tier        licensing.Tier `json:"tier"`
				Rank        int            `json:"rank"`
				DisplayName string         `json:"displayName"`
			}
			var rows []tierRow
			for _, t := range licensing.OrderedTiers() {
				rows = append(rows, tierRow{Tier: t, Rank: t.Rank(), DisplayName: licensing.GetTierDisplayName(t)})
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tTIER\tNAME")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Rank, r.Tier, r.DisplayName)
			}
			return tw.Flush()
		},
	}
}

func newFeaturesCmd(a *app) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List gated features",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := licensing.DefaultRegistry()
			rules := reg.Rules()
			if match != "" {
				rules = reg.MatchRules(match)
			}
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), rules)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FEATURE\tTIER\tMODE\tPERMISSION\tQUOTA")
			for _, r := range rules {
				perm, quota := "-", "-"
				if r.Permission != nil {
					perm = r.Permission.String()
				}
				if r.Quota != nil {
					quota = fmt.Sprintf("%s x%d", r.Quota.FeatureKey, r.Quota.Amount)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.FeatureKey, r.RequiredTier, r.Mode, perm, quota)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "Only list features matching a wildcard pattern (e.g. campaigns.*)")
	return cmd
}

// flagSession is a Session assembled from command-line flags.
type flagSession struct {
	tier   string
	role   string
	grants []string
	quotas map[string][2]int64
}

func (s *flagSession) Tier() string          { return s.tier }
func (s *flagSession) Role() string          { return s.role }
func (s *flagSession) Permissions() []string { return s.grants }

func (s *flagSession) QuotaRemaining(key string) (int64, int64, bool) {
	q, ok := s.quotas[key]
	return q[0], q[1], ok
}

// parseQuotas reads "key=remaining/allotment" pairs.
func parseQuotas(values []string) (map[string][2]int64, error) {
	out := make(map[string][2]int64, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid quota %q: want key=remaining/allotment", v)
		}
		remainingStr, allotmentStr, ok := strings.Cut(value, "/")
		if !ok {
			return nil, fmt.Errorf("invalid quota %q: want key=remaining/allotment", v)
		}
		remaining, err := strconv.ParseInt(strings.TrimSpace(remainingStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quota remaining in %q: %w", v, err)
		}
		allotment, err := strconv.ParseInt(strings.TrimSpace(allotmentStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quota allotment in %q: %w", v, err)
		}
		out[strings.TrimSpace(key)] = [2]int64{remaining, allotment}
	}
	return out, nil
}

func newGateCmd(a *app) *cobra.Command {
	var (
		tier         string
		role         string
		grants       []string
		quotas       []string
		fallbackMode string
		fallbackTier string
	)
	cmd := &cobra.Command{
		Use:   "gate <feature>",
		Short: "Evaluate access to a feature for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tier == "" {
				tier = a.cfg.DefaultTier
			}
			quotaMap, err := parseQuotas(quotas)
			if err != nil {
				return err
			}
			session := &flagSession{tier: tier, role: role, grants: grants, quotas: quotaMap}

			evaluator := licensing.NewEvaluator(licensing.DefaultRegistry()).WithMetrics(licensing.GetGuardMetrics())
			access := evaluator.Check(session, licensing.FeatureKey(args[0]), licensing.GuardOptions{
				FallbackMode: licensing.GuardMode(fallbackMode),
				FallbackTier: fallbackTier,
			})

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), access)
			}
			out := cmd.OutOrStdout()
			d := access.Decision
			verdict := "ALLOWED"
			if !access.Allowed {
				verdict = "DENIED"
			}
			fmt.Fprintf(out, "%s %s\n", verdict, d.FeatureKey)
			fmt.Fprintf(out, "  tier:       %s (requires %s)\n", d.UserTier, d.RequiredTier)
			fmt.Fprintf(out, "  mode:       %s\n", d.Mode)
			fmt.Fprintf(out, "  registered: %t\n", d.Registered)
			if d.Permission != nil {
				fmt.Fprintf(out, "  permission: %s granted=%t\n", d.Permission, access.PermissionGranted)
			}
			if d.QuotaKey != "" {
				fmt.Fprintf(out, "  quota:      %s %s\n", d.QuotaKey, access.Quota)
			}
			if d.IsUpgradeRequired {
				fmt.Fprintf(out, "  upgrade:    %s\n", licensing.UpgradeURLForFeature(a.cfg.UpgradeURL, d.FeatureKey, d.RequiredTier))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "Session tier (defaults to LEADCORE_DEFAULT_TIER)")
	cmd.Flags().StringVar(&role, "role", "", "Session role (admin bypasses permissions)")
	cmd.Flags().StringSliceVar(&grants, "grant", nil, "Permission grants, e.g. leads:* (repeatable)")
	cmd.Flags().StringSliceVar(&quotas, "quota", nil, "Quota state as key=remaining/allotment (repeatable)")
	cmd.Flags().StringVar(&fallbackMode, "fallback-mode", "", "Guard mode for unregistered features")
	cmd.Flags().StringVar(&fallbackTier, "fallback-tier", "", "Required tier for unregistered features")
	return cmd
}

func newUpgradeReasonsCmd(a *app) *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "upgrade-reasons",
		Short: "List locked features with upgrade links",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tier == "" {
				tier = a.cfg.DefaultTier
			}
			reasons := licensing.GenerateUpgradeReasons(licensing.DefaultRegistry(), tier, a.cfg.UpgradeURL)
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), reasons)
			}
			out := cmd.OutOrStdout()
			if len(reasons) == 0 {
				fmt.Fprintf(out, "Nothing to unlock on %s.\n", licensing.GetTierDisplayName(licensing.NormalizeTier(tier)))
				return nil
			}
			for _, r := range reasons {
				fmt.Fprintf(out, "%s\n  %s\n", r.Reason, r.ActionURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "Tier to evaluate (defaults to LEADCORE_DEFAULT_TIER)")
	return cmd
}

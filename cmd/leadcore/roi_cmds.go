package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/leadforge/leadcore/internal/quickstart"
	"github.com/leadforge/leadcore/internal/reporting"
	"github.com/leadforge/leadcore/internal/roi"
)

func newROICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Project return on investment",
	}
	cmd.AddCommand(newROIManualCmd(a), newROIProfileCmd(a))
	return cmd
}

func newROIManualCmd(a *app) *cobra.Command {
	var in roi.ManualInput
	cmd := &cobra.Command{
		Use:   "manual",
		Short: "Price one month of outreach on a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Plan == "" {
				in.Plan = a.cfg.DefaultTier
			}
			result := roi.ComputeManualRoi(in)
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan:                %s\n", roi.PricingFor(in.Plan).DisplayName)
			fmt.Fprintf(out, "Total cost:          %.2f\n", result.TotalCost)
			fmt.Fprintf(out, "Total revenue:       %.2f\n", result.TotalRevenue)
			fmt.Fprintf(out, "ROI:                 %.2f%%\n", result.ROI)
			fmt.Fprintf(out, "Cost per lead:       %.2f\n", result.CostPerLead)
			fmt.Fprintf(out, "Cost per conversion: %.2f\n", result.CostPerConversion)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Plan, "plan", "", "Plan name (defaults to LEADCORE_DEFAULT_TIER)")
	f.Float64Var(&in.LeadsGenerated, "leads", 0, "Leads generated")
	f.Float64Var(&in.ConversionRate, "conversion", 0, "Conversion rate in percent")
	f.Float64Var(&in.AvgDealValue, "deal-value", 0, "Average deal value")
	f.Float64Var(&in.CallsMade, "calls", 0, "Calls made")
	f.Float64Var(&in.SMSThreads, "sms", 0, "SMS threads")
	f.Float64Var(&in.SocialThreads, "social", 0, "Social threads")
	return cmd
}

func newROIProfileCmd(a *app) *cobra.Command {
	var (
		in      roi.ProfileInput
		pdfPath string
		csvPath string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Project ROI from a persona and goal preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Tier == "" {
				in.Tier = a.cfg.DefaultTier
			}
			result := roi.ComputeProfileRoi(in)

			if pdfPath != "" || csvPath != "" {
				data := reportData(in, result)
				if err := writeReports(data, pdfPath, csvPath); err != nil {
					return err
				}
			}

			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Preset:            %s/%s on %s\n", result.Preset.PersonaID, result.Preset.GoalID, result.Pricing.DisplayName)
			fmt.Fprintf(out, "Total revenue:     %.2f\n", result.TotalRevenue)
			fmt.Fprintf(out, "Actual profit:     %.2f\n", result.ActualProfit)
			fmt.Fprintf(out, "Total cost:        %.2f\n", result.TotalCost)
			fmt.Fprintf(out, "Net profit:        %.2f\n", result.NetProfit)
			fmt.Fprintf(out, "ROI:               %.2f%%\n", result.ROI)
			fmt.Fprintf(out, "Cost per lead:     %.2f\n", result.CostPerLead)
			fmt.Fprintf(out, "Cost per deal:     %.2f\n", result.CostPerConversion)
			fmt.Fprintf(out, "Time saved (h):    %.2f\n", result.TotalTimeSaved)
			fmt.Fprintf(out, "Campaign cost:     %.2f\n", result.CampaignCost)
			fmt.Fprintf(out, "Included credits:  %.2f\n", result.IncludedCredits)
			fmt.Fprintf(out, "Credit overage:    %.2f\n", result.CampaignOverage)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.PersonaID, "persona", roi.DefaultPersonaID, "Persona id")
	f.StringVar(&in.GoalID, "goal", roi.DefaultGoalID, "Goal id")
	f.IntVar(&in.Months, "months", quickstart.DefaultSummaryMonths, "Projection horizon in months")
	f.Float64Var(&in.ProfitMarginPercent, "margin", 65, "Profit margin in percent")
	f.Float64Var(&in.MonthlyOverhead, "overhead", 0, "Monthly overhead")
	f.Float64Var(&in.HoursPerDeal, "hours-per-deal", 12, "Hours saved per closed deal")
	f.StringVar(&in.Tier, "tier", "", "Plan tier (defaults to LEADCORE_DEFAULT_TIER)")
	f.StringVar(&pdfPath, "pdf", "", "Write a PDF report to this path")
	f.StringVar(&csvPath, "csv", "", "Write a CSV report to this path")
	return cmd
}

func reportData(in roi.ProfileInput, result roi.ProfileResult) *reporting.ROIReportData {
	data := &reporting.ROIReportData{
		GeneratedAt: time.Now(),
		Input:       in,
		Result:      result,
	}
	catalog := quickstart.DefaultCatalog()
	if p, ok := catalog.Persona(quickstart.PersonaID(result.Preset.PersonaID)); ok {
		data.PersonaTitle = p.Title
	}
	if g, ok := catalog.Goal(quickstart.GoalID(result.Preset.GoalID)); ok {
		data.GoalTitle = g.Title
		data.Outcome = g.Outcome
	}
	return data
}

func writeReports(data *reporting.ROIReportData, pdfPath, csvPath string) error {
	if pdfPath = strings.TrimSpace(pdfPath); pdfPath != "" {
		out, err := reporting.NewPDFGenerator().GenerateROI(data)
		if err != nil {
			return fmt.Errorf("generate PDF report: %w", err)
		}
		if err := writeFile(pdfPath, out); err != nil {
			return err
		}
		log.Info().Str("path", pdfPath).Int("bytes", len(out)).Msg("Wrote ROI PDF report")
	}
	if csvPath = strings.TrimSpace(csvPath); csvPath != "" {
		out, err := reporting.GenerateROICSV(data)
		if err != nil {
			return fmt.Errorf("generate CSV report: %w", err)
		}
		if err := writeFile(csvPath, out); err != nil {
			return err
		}
		log.Info().Str("path", csvPath).Int("bytes", len(out)).Msg("Wrote ROI CSV report")
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

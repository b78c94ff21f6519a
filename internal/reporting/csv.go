package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// GenerateROICSV renders the report metrics as two-column CSV rows.
func GenerateROICSV(data *ROIReportData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("report data is required")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"metric", "value"},
		{"persona", data.Input.PersonaID},
		{"goal", data.Result.Preset.GoalID},
		{"tier", string(data.Result.Pricing.Tier)},
		{"months", strconv.Itoa(projectionMonths(data.Input))},
	}
	r := data.Result
	for _, kv := range []struct {
		name  string
		value float64
	}{
		{"total_revenue", r.TotalRevenue},
		{"actual_profit", r.ActualProfit},
		{"total_cost", r.TotalCost},
		{"net_profit", r.NetProfit},
		{"roi", r.ROI},
		{"cost_per_lead", r.CostPerLead},
		{"cost_per_conversion", r.CostPerConversion},
		{"total_time_saved", r.TotalTimeSaved},
		{"campaign_cost", r.CampaignCost},
		{"included_credits", r.IncludedCredits},
		{"campaign_overage", r.CampaignOverage},
	} {
		records = append(records, []string{kv.name, strconv.FormatFloat(kv.value, 'f', 2, 64)})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

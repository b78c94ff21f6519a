package reporting

import (
	"math"
	"strconv"
	"strings"

	"github.com/leadforge/leadcore/internal/roi"
)

func metricRows(r roi.ProfileResult) [][2]string {
	return [][2]string{
		{"Total revenue", formatCurrency(r.TotalRevenue)},
		{"Profit at margin", formatCurrency(r.ActualProfit)},
		{"Platform cost", formatCurrency(r.TotalCost)},
		{"Net profit", formatCurrency(r.NetProfit)},
		{"ROI", formatPercent(r.ROI)},
		{"Cost per lead", formatCurrency(r.CostPerLead)},
		{"Cost per conversion", formatCurrency(r.CostPerConversion)},
		{"Time saved (hours)", formatNumber(r.TotalTimeSaved)},
		{"Campaign spend", formatCurrency(r.CampaignCost)},
		{"Included credits", formatNumber(r.IncludedCredits)},
		{"Credit overage", formatNumber(r.CampaignOverage)},
	}
}

func assumptionRows(in roi.ProfileInput, r roi.ProfileResult) [][2]string {
	p := r.Preset
	return [][2]string{
		{"Months", strconv.Itoa(projectionMonths(in))},
		{"Leads per month", formatNumber(p.LeadsPerMonth)},
		{"Conversion rate", formatPercent(p.ConversionRate)},
		{"Average deal value", formatCurrency(p.AvgDealValue)},
		{"Calls per month", formatNumber(p.CallsPerMonth)},
		{"SMS threads per month", formatNumber(p.SMSPerMonth)},
		{"Social threads per month", formatNumber(p.SocialPerMonth)},
		{"Profit margin", formatPercent(in.ProfitMarginPercent)},
		{"Monthly overhead", formatCurrency(in.MonthlyOverhead)},
		{"Hours per deal", formatNumber(in.HoursPerDeal)},
		{"Plan price per month", formatCurrency(r.Pricing.MonthlyPrice)},
	}
}

// maxProjectionRows caps the monthly table; longer horizons are sampled.
const maxProjectionRows = 24

type projectionRow struct {
	Month     int
	Revenue   float64
	Cost      float64
	NetProfit float64
}

// projectionRows recomputes the profile for each month of the horizon so the
// running totals include overage exactly as the full projection does. The
// final month is always present.
func projectionRows(in roi.ProfileInput) []projectionRow {
	months := projectionMonths(in)
	step := (months + maxProjectionRows - 1) / maxProjectionRows

	rows := make([]projectionRow, 0, min(months, maxProjectionRows))
	for m := step; ; m += step {
		if m > months {
			m = months
		}
		at := in
		at.Months = m
		r := roi.ComputeProfileRoi(at)
		rows = append(rows, projectionRow{Month: m, Revenue: r.TotalRevenue, Cost: r.TotalCost, NetProfit: r.NetProfit})
		if m == months {
			return rows
		}
	}
}

func projectionMonths(in roi.ProfileInput) int {
	if in.Months < 1 {
		return 1
	}
	return in.Months
}

// formatCurrency renders v as "$1,234.56".
func formatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + groupThousands(strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64))
}

func formatPercent(v float64) string {
	return groupThousands(strconv.FormatFloat(v, 'f', 2, 64)) + "%"
}

// formatNumber drops a zero fraction.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	return groupThousands(s)
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

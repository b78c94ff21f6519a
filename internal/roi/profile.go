package roi

import "math"

// ProfileInput drives the persona-based ROI preview.
type ProfileInput struct {
	PersonaID           string  `json:"personaId"`
	GoalID              string  `json:"goalId"`
	Months              int     `json:"months"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"`
	MonthlyOverhead     float64 `json:"monthlyOverhead"`
	HoursPerDeal        float64 `json:"hoursPerDeal"`
	Tier                string  `json:"tier"`
}

// ProfileResult holds the preview outputs rounded to cents.
type ProfileResult struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	ActualProfit      float64 `json:"actualProfit"`
	TotalCost         float64 `json:"totalCost"`
	NetProfit         float64 `json:"netProfit"`
	ROI               float64 `json:"roi"` // Percent of totalCost
	CostPerLead       float64 `json:"costPerLead"`
	CostPerConversion float64 `json:"costPerConversion"`
	TotalTimeSaved    float64 `json:"totalTimeSaved"` // Hours
	CampaignCost      float64 `json:"campaignCost"`
	IncludedCredits   float64 `json:"includedCredits"`
	CampaignOverage   float64 `json:"campaignOverage"` // Credits beyond the allotment

	TotalLeads  float64     `json:"totalLeads"`
	TotalDeals  float64     `json:"totalDeals"`
	CreditsUsed float64     `json:"creditsUsed"`
	OverageCost float64     `json:"overageCost"`
	Preset      Preset      `json:"preset"`
	Pricing     PlanPricing `json:"pricing"`
}

// ComputeProfileRoi projects the preset pipeline over in.Months on in.Tier.
//
// The plan price covers campaign spend up to the included credits; credits
// beyond that are billed at OverageCreditPrice. Months below 1 count as 1 and
// the profit margin is clamped to 0-100.
func ComputeProfileRoi(in ProfileInput) ProfileResult {
	preset, _ := PresetFor(in.PersonaID, in.GoalID)
	pricing := PricingFor(in.Tier)

	months := float64(in.Months)
	if in.Months < 1 {
		months = 1
	}
	margin := clamp(in.ProfitMarginPercent, 0, 100)

	totalLeads := preset.LeadsPerMonth * months
	totalDeals := totalLeads * preset.ConversionRate / 100
	totalRevenue := totalDeals * preset.AvgDealValue
	actualProfit := totalRevenue * margin / 100

	campaignCost := ChannelCost(preset.CallsPerMonth, preset.SMSPerMonth, preset.SocialPerMonth) * months
	creditsUsed := round2(campaignCost / CreditValue)
	includedCredits := pricing.IncludedCredits * months
	overage := math.Max(0, creditsUsed-includedCredits)
	overageCost := overage * OverageCreditPrice

	totalCost := round2(pricing.MonthlyPrice*months + overageCost)
	netProfit := round2(actualProfit - nonNegative(in.MonthlyOverhead)*months - totalCost)

	return ProfileResult{
		TotalRevenue:      round2(totalRevenue),
		ActualProfit:      round2(actualProfit),
		TotalCost:         totalCost,
		NetProfit:         netProfit,
		ROI:               round2(ratio(netProfit, totalCost) * 100),
		CostPerLead:       round2(ratio(totalCost, totalLeads)),
		CostPerConversion: round2(ratio(totalCost, totalDeals)),
		TotalTimeSaved:    round2(totalDeals * nonNegative(in.HoursPerDeal)),
		CampaignCost:      round2(campaignCost),
		IncludedCredits:   round2(includedCredits),
		CampaignOverage:   round2(overage),
		TotalLeads:        round2(totalLeads),
		TotalDeals:        round2(totalDeals),
		CreditsUsed:       creditsUsed,
		OverageCost:       round2(overageCost),
		Preset:            preset,
		Pricing:           pricing,
	}
}

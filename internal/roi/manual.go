package roi

// ManualInput is what a user types into the standalone ROI calculator.
type ManualInput struct {
	Plan           string  `json:"plan"`
	LeadsGenerated float64 `json:"leadsGenerated"`
	ConversionRate float64 `json:"conversionRate"` // Percent, 0-100
	AvgDealValue   float64 `json:"avgDealValue"`
	CallsMade      float64 `json:"callsMade"`
	SMSThreads     float64 `json:"smsThreads"`
	SocialThreads  float64 `json:"socialThreads"`
}

// ManualResult holds the calculator outputs rounded to cents.
type ManualResult struct {
	TotalCost         float64 `json:"totalCost"`
	TotalRevenue      float64 `json:"totalRevenue"`
	ROI               float64 `json:"roi"` // Percent
	CostPerLead       float64 `json:"costPerLead"`
	CostPerConversion float64 `json:"costPerConversion"`
}

// ComputeManualRoi prices one month of outreach on the given plan.
//
// totalCost is the plan price plus channel spend, with the platform fee on top.
// Ratios with a zero denominator are reported as 0.
func ComputeManualRoi(in ManualInput) ManualResult {
	pricing := PricingFor(in.Plan)

	leads := nonNegative(in.LeadsGenerated)
	conversionRate := clamp(in.ConversionRate, 0, 100)
	conversions := leads * conversionRate / 100

	subtotal := pricing.MonthlyPrice + ChannelCost(in.CallsMade, in.SMSThreads, in.SocialThreads)
	totalCost := round2(subtotal * (1 + PlatformFeeRate))
	totalRevenue := round2(conversions * nonNegative(in.AvgDealValue))

	return ManualResult{
		TotalCost:         totalCost,
		TotalRevenue:      totalRevenue,
		ROI:               round2(ratio(totalRevenue-totalCost, totalCost) * 100),
		CostPerLead:       round2(ratio(totalCost, leads)),
		CostPerConversion: round2(ratio(totalCost, conversions)),
	}
}

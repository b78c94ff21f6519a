// Package roi computes the return-on-investment previews shown in the
// calculator and the quickstart plan summary. All functions are pure.
package roi

import (
	"math"

	"github.com/leadforge/leadcore/pkg/licensing"
)

// PlanPricing is the monthly price and credit allotment of one tier.
type PlanPricing struct {
	Tier            licensing.Tier `json:"tier"`
	DisplayName     string         `json:"displayName"`
	MonthlyPrice    float64        `json:"monthlyPrice"`
	IncludedCredits float64        `json:"includedCredits"` // Per month
}

// Channel rates and fees, in USD.
const (
	CallCost           = 1.50 // Per outbound call
	SMSThreadCost      = 0.27 // Per SMS conversation thread
	SocialThreadCost   = 0.60 // Per social DM thread
	PlatformFeeRate    = 0.08 // Applied to the manual calculator subtotal
	CreditValue        = 0.10 // Campaign spend represented by one credit
	OverageCreditPrice = 0.12 // Billed per credit beyond the allotment
)

// Pricing is the plan table keyed by tier.
var Pricing = map[licensing.Tier]PlanPricing{
	licensing.TierBasic: {
		Tier:            licensing.TierBasic,
		DisplayName:     "Basic",
		MonthlyPrice:    2000,
		IncludedCredits: 1500,
	},
	licensing.TierStarter: {
		Tier:            licensing.TierStarter,
		DisplayName:     "Starter",
		MonthlyPrice:    3500,
		IncludedCredits: 5000,
	},
	licensing.TierEnterprise: {
		Tier:            licensing.TierEnterprise,
		DisplayName:     "Enterprise",
		MonthlyPrice:    5000,
		IncludedCredits: 10000,
	},
}

// PricingFor returns the pricing for a plan or tier name. Unknown names get
// Basic pricing, matching tier normalization.
func PricingFor(plan string) PlanPricing {
	return Pricing[licensing.NormalizeTier(plan)]
}

// ChannelCost is the spend for a batch of outreach across all channels.
func ChannelCost(calls, smsThreads, socialThreads float64) float64 {
	return nonNegative(calls)*CallCost + nonNegative(smsThreads)*SMSThreadCost + nonNegative(socialThreads)*SocialThreadCost
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ratio returns num/den, or 0 when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

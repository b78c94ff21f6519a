package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadforge/leadcore/pkg/licensing"
)

const cents = 0.005

func TestComputeManualRoi_BasicFixture(t *testing.T) {
	got := ComputeManualRoi(ManualInput{
		Plan:           "basic",
		LeadsGenerated: 500,
		ConversionRate: 20,
		AvgDealValue:   5000,
		CallsMade:      200,
		SMSThreads:     300,
		SocialThreads:  100,
	})

	assert.InDelta(t, 500000, got.TotalRevenue, cents)
	assert.InDelta(t, 2636.28, got.TotalCost, cents)
	assert.InDelta(t, 18866.12, got.ROI, cents)
	assert.InDelta(t, 5.27, got.CostPerLead, cents)
	assert.InDelta(t, 26.36, got.CostPerConversion, cents)
}

func TestComputeManualRoi_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input ManualInput
		check func(t *testing.T, got ManualResult)
	}{
		{
			name:  "zero_leads_yields_zero_ratios",
			input: ManualInput{Plan: "starter", ConversionRate: 10, AvgDealValue: 1000},
			check: func(t *testing.T, got ManualResult) {
				assert.InDelta(t, 3780, got.TotalCost, cents)
				assert.Zero(t, got.CostPerLead)
				assert.Zero(t, got.CostPerConversion)
				assert.InDelta(t, -100, got.ROI, cents)
			},
		},
		{
			name:  "zero_conversion_rate",
			input: ManualInput{Plan: "basic", LeadsGenerated: 100, AvgDealValue: 5000},
			check: func(t *testing.T, got ManualResult) {
				assert.Zero(t, got.TotalRevenue)
				assert.Zero(t, got.CostPerConversion)
				assert.InDelta(t, 21.6, got.CostPerLead, cents)
			},
		},
		{
			name:  "unknown_plan_priced_as_basic",
			input: ManualInput{Plan: "platinum"},
			check: func(t *testing.T, got ManualResult) {
				assert.InDelta(t, 2160, got.TotalCost, cents)
			},
		},
		{
			name:  "negative_inputs_ignored",
			input: ManualInput{Plan: "Enterprise", LeadsGenerated: -10, CallsMade: -5, ConversionRate: 150},
			check: func(t *testing.T, got ManualResult) {
				assert.InDelta(t, 5400, got.TotalCost, cents)
				assert.Zero(t, got.TotalRevenue)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ComputeManualRoi(tt.input))
		})
	}
}

func TestComputeProfileRoi_AgentSphereFixture(t *testing.T) {
	got := ComputeProfileRoi(ProfileInput{
		PersonaID:           "agent",
		GoalID:              "agent-sphere",
		Months:              6,
		ProfitMarginPercent: 65,
		MonthlyOverhead:     3000,
		HoursPerDeal:        12,
		Tier:                "Enterprise",
	})

	assert.InDelta(t, 864000, got.TotalRevenue, cents)
	assert.InDelta(t, 561600, got.ActualProfit, cents)
	assert.InDelta(t, 30000, got.TotalCost, cents)
	assert.InDelta(t, 513600, got.NetProfit, cents)
	assert.InDelta(t, 1712, got.ROI, cents)
	assert.InDelta(t, 83.33, got.CostPerLead, cents)
	assert.InDelta(t, 416.67, got.CostPerConversion, cents)
	assert.InDelta(t, 864, got.TotalTimeSaved, cents)
	assert.InDelta(t, 2718, got.CampaignCost, cents)
	assert.InDelta(t, 60000, got.IncludedCredits, cents)
	assert.Zero(t, got.CampaignOverage)
	assert.InDelta(t, 72, got.TotalDeals, cents)
	assert.Equal(t, licensing.TierEnterprise, got.Pricing.Tier)
}

func TestComputeProfileRoi_Overage(t *testing.T) {
	// wholesaler-volume on Basic: 1500*1.5 + 3000*0.27 + 200*0.6 = 3180/mo,
	// 31800 credits against 1500 included.
	got := ComputeProfileRoi(ProfileInput{
		PersonaID:           "wholesaler",
		GoalID:              "wholesaler-volume",
		Months:              1,
		ProfitMarginPercent: 100,
		Tier:                "basic",
	})

	assert.InDelta(t, 3180, got.CampaignCost, cents)
	assert.InDelta(t, 31800, got.CreditsUsed, cents)
	assert.InDelta(t, 30300, got.CampaignOverage, cents)
	assert.InDelta(t, 3636, got.OverageCost, cents)
	assert.InDelta(t, 5636, got.TotalCost, cents)
}

func TestComputeProfileRoi_Normalization(t *testing.T) {
	base := ProfileInput{PersonaID: "agent", GoalID: "agent-sphere", Months: 1, ProfitMarginPercent: 50, Tier: "starter"}

	t.Run("months_below_one_count_as_one", func(t *testing.T) {
		zero := base
		zero.Months = 0
		negative := base
		negative.Months = -4
		assert.Equal(t, ComputeProfileRoi(base), ComputeProfileRoi(zero))
		assert.Equal(t, ComputeProfileRoi(base), ComputeProfileRoi(negative))
	})

	t.Run("margin_clamped", func(t *testing.T) {
		over := base
		over.ProfitMarginPercent = 250
		got := ComputeProfileRoi(over)
		assert.InDelta(t, got.TotalRevenue, got.ActualProfit, cents)

		under := base
		under.ProfitMarginPercent = -20
		assert.Zero(t, ComputeProfileRoi(under).ActualProfit)
	})

	t.Run("foreign_goal_uses_persona_default", func(t *testing.T) {
		in := base
		in.PersonaID = "investor"
		in.GoalID = "agent-sphere"
		got := ComputeProfileRoi(in)
		assert.Equal(t, "investor-distressed", got.Preset.GoalID)
	})

	t.Run("unknown_persona_uses_agent_sphere", func(t *testing.T) {
		in := base
		in.PersonaID = "developer"
		in.GoalID = "anything"
		got := ComputeProfileRoi(in)
		assert.Equal(t, DefaultGoalID, got.Preset.GoalID)
		assert.Equal(t, DefaultPersonaID, got.Preset.PersonaID)
	})
}

func TestPresets_Consistent(t *testing.T) {
	for goalID, p := range presets {
		require.Equal(t, goalID, p.GoalID)
		_, exact := PresetFor(p.PersonaID, goalID)
		assert.True(t, exact, goalID)
		assert.Greater(t, p.LeadsPerMonth, 0.0, goalID)
		assert.Greater(t, p.ConversionRate, 0.0, goalID)
		assert.LessOrEqual(t, p.ConversionRate, 100.0, goalID)
	}
	for persona, goalID := range defaultGoalByPersona {
		_, exact := PresetFor(persona, goalID)
		assert.True(t, exact, persona)
	}
}

func TestPricingFor(t *testing.T) {
	tests := []struct {
		plan  string
		price float64
	}{
		{"basic", 2000},
		{"free", 2000},
		{"Starter", 3500},
		{"Enterprise Annual", 5000},
		{"", 2000},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.plan, func(t *testing.T) {
			assert.Equal(t, tt.price, PricingFor(tt.plan).MonthlyPrice)
		})
	}
}

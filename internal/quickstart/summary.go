package quickstart

import (
	lcerrors "github.com/leadforge/leadcore/internal/errors"
	"github.com/leadforge/leadcore/internal/roi"
	"github.com/leadforge/leadcore/internal/smartimport"
	"github.com/leadforge/leadcore/pkg/licensing"
)

// DefaultSummaryMonths is the projection horizon when SummaryInput.Months is unset.
const DefaultSummaryMonths = 6

// SummaryInput is the account context the plan summary is rendered for.
type SummaryInput struct {
	Tier                string  `json:"tier"`
	Months              int     `json:"months"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"`
	MonthlyOverhead     float64 `json:"monthlyOverhead"`
	HoursPerDeal        float64 `json:"hoursPerDeal"`
	UpgradeURL          string  `json:"upgradeUrl,omitempty"`

	Import smartimport.Input `json:"import"`
}

// FeatureRecommendation is one recommended feature and whether the user can
// open it today.
type FeatureRecommendation struct {
	FeatureKey  licensing.FeatureKey    `json:"featureKey"`
	DisplayName string                  `json:"displayName"`
	Decision    licensing.GuardDecision `json:"decision"`
	UpgradeURL  string                  `json:"upgradeUrl,omitempty"`
}

// Summary is the plan shown once a persona and goal are chosen.
type Summary struct {
	Phase    Phase                   `json:"phase"`
	Persona  Persona                 `json:"persona"`
	Goal     Goal                    `json:"goal"`
	Tier     licensing.Tier          `json:"tier"`
	Features []FeatureRecommendation `json:"features"`
	ROI      roi.ProfileResult       `json:"roi"`
	Import   smartimport.Decision    `json:"import"`
}

// BuildSummary assembles the plan for state. It fails with ErrPlanIncomplete
// until a goal is selected. Recommended features guarded in hide mode are
// left out when the user cannot access them. Every recommendation is decided
// through eval, so its metrics see each check; a nil eval uses the default
// registry without metrics.
func BuildSummary(catalog *Catalog, eval *licensing.Evaluator, state State, in SummaryInput) (Summary, error) {
	phase := state.Phase()
	if phase != PhaseGoalSelected && phase != PhaseCompleted {
		return Summary{}, lcerrors.WrapTransition("build_summary", string(phase), ErrPlanIncomplete)
	}

	persona, ok := catalog.Persona(state.PersonaID)
	if !ok {
		return Summary{}, lcerrors.WrapNotFound("build_summary", string(state.PersonaID), ErrUnknownPersona)
	}
	goal, ok := catalog.Goal(state.GoalID)
	if !ok || goal.PersonaID != persona.ID {
		return Summary{}, lcerrors.WrapNotFound("build_summary", string(state.GoalID), ErrGoalNotInCatalog)
	}

	if eval == nil {
		eval = licensing.NewEvaluator(licensing.DefaultRegistry())
	}
	reg := eval.Registry()

	tier := licensing.NormalizeTier(in.Tier)
	baseURL := in.UpgradeURL
	if baseURL == "" {
		baseURL = licensing.DefaultUpgradeURL
	}

	features := make([]FeatureRecommendation, 0, len(goal.RecommendedFeatures))
	for _, key := range goal.RecommendedFeatures {
		decision := eval.Guard(key, string(tier), licensing.GuardOptions{})
		if decision.Mode == licensing.ModeHide && !decision.Allowed {
			continue
		}
		rec := FeatureRecommendation{
			FeatureKey:  key,
			DisplayName: licensing.GetFeatureDisplayName(key),
			Decision:    decision,
		}
		if rule, ok := reg.GetFeatureAccessRule(key); ok && rule.DisplayName != "" {
			rec.DisplayName = rule.DisplayName
		}
		if decision.IsUpgradeRequired {
			rec.UpgradeURL = licensing.UpgradeURLForFeature(baseURL, key, decision.RequiredTier)
		}
		features = append(features, rec)
	}

	months := in.Months
	if months <= 0 {
		months = DefaultSummaryMonths
	}

	return Summary{
		Phase:    phase,
		Persona:  persona,
		Goal:     goal,
		Tier:     tier,
		Features: features,
		ROI: roi.ComputeProfileRoi(roi.ProfileInput{
			PersonaID:           string(persona.ID),
			GoalID:              string(goal.ID),
			Months:              months,
			ProfitMarginPercent: in.ProfitMarginPercent,
			MonthlyOverhead:     in.MonthlyOverhead,
			HoursPerDeal:        in.HoursPerDeal,
			Tier:                string(tier),
		}),
		Import: smartimport.Decide(in.Import),
	}, nil
}

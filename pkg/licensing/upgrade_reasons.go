package licensing

import (
	"fmt"
	"sort"
)

// ReasonEntry is an actionable upgrade prompt tied to a locked feature.
type ReasonEntry struct {
	Feature      FeatureKey `json:"feature"`
	RequiredTier Tier       `json:"requiredTier"`
	Reason       string     `json:"reason"`
	ActionURL    string     `json:"actionUrl"`
}

// GenerateUpgradeReasons lists every registered feature the tier cannot use,
// ordered by the tier that unlocks it and then by key. Hidden features are
// skipped because the UI never shows them.
func GenerateUpgradeReasons(reg *Registry, tier string, baseURL string) []ReasonEntry {
	user := NormalizeTier(tier)
	rules := reg.Rules()

	reasons := make([]ReasonEntry, 0, len(rules))
	for _, rule := range rules {
		if rule.Mode == ModeHide {
			continue
		}
		decision := Evaluate(reg, rule.FeatureKey, string(user), GuardOptions{})
		if !decision.IsUpgradeRequired {
			continue
		}
		name := rule.DisplayName
		if name == "" {
			name = string(rule.FeatureKey)
		}
		reasons = append(reasons, ReasonEntry{
			Feature:      rule.FeatureKey,
			RequiredTier: rule.RequiredTier,
			Reason:       fmt.Sprintf("Upgrade to %s to unlock %s.", GetTierDisplayName(rule.RequiredTier), name),
			ActionURL:    UpgradeURLForFeature(baseURL, rule.FeatureKey, rule.RequiredTier),
		})
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		ri, rj := reasons[i].RequiredTier.Rank(), reasons[j].RequiredTier.Rank()
		if ri == rj {
			return reasons[i].Feature < reasons[j].Feature
		}
		return ri < rj
	})

	return reasons
}

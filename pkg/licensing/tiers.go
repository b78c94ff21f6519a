// Package licensing defines subscription tiers, the feature access registry and
// the guard that decides whether a dashboard surface is available to a user.
//
// Everything in this package is a pure function of its inputs. Callers recompute
// decisions whenever the session tier or feature key changes.
package licensing

import "strings"

// Tier represents a subscription tier.
type Tier string

const (
	TierBasic      Tier = "basic" // Also reported as "free" by older sessions
	TierStarter    Tier = "starter"
	TierEnterprise Tier = "enterprise"
)

// orderedTiers is the canonical rank order. Index is the rank.
var orderedTiers = []Tier{TierBasic, TierStarter, TierEnterprise}

var tierRank = map[Tier]int{
	TierBasic:      0,
	TierStarter:    1,
	TierEnterprise: 2,
}

var tierAliases = map[string]Tier{
	"free":       TierBasic,
	"basic":      TierBasic,
	"starter":    TierStarter,
	"enterprise": TierEnterprise,
}

// OrderedTiers returns all tiers from lowest to highest rank.
func OrderedTiers() []Tier {
	out := make([]Tier, len(orderedTiers))
	copy(out, orderedTiers)
	return out
}

// NormalizeTier maps arbitrary session input onto a known tier.
// Matching is case-insensitive. Exact aliases win, then the highest tier whose
// name appears in the input ("Enterprise Annual"). Anything else is Basic.
func NormalizeTier(input string) Tier {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return TierBasic
	}
	if tier, ok := tierAliases[normalized]; ok {
		return tier
	}
	for i := len(orderedTiers) - 1; i >= 0; i-- {
		if strings.Contains(normalized, string(orderedTiers[i])) {
			return orderedTiers[i]
		}
	}
	return TierBasic
}

// Rank returns the rank index of the tier after normalization.
func (t Tier) Rank() int {
	return tierRank[NormalizeTier(string(t))]
}

// Valid reports whether t is one of the canonical tier values.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// CompareTiers returns the signed rank difference a - b.
func CompareTiers(a, b Tier) int {
	return a.Rank() - b.Rank()
}

// HasRequiredTier reports whether user ranks at or above required.
func HasRequiredTier(user, required Tier) bool {
	return CompareTiers(user, required) >= 0
}

// GetTierDisplayName returns a human-readable name for the tier.
func GetTierDisplayName(tier Tier) string {
	switch NormalizeTier(string(tier)) {
	case TierStarter:
		return "Starter"
	case TierEnterprise:
		return "Enterprise"
	default:
		return "Basic"
	}
}

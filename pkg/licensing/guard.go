package licensing

import (
	"strings"
	"sync"
)

// GuardOptions supplies the caller's fallback when a feature is not registered.
type GuardOptions struct {
	// FallbackMode defaults to DefaultGuardMode when empty.
	FallbackMode GuardMode
	// FallbackTier defaults to the user's own tier when empty, which makes an
	// unregistered feature always available.
	FallbackTier string
}

// GuardDecision is the derived outcome of one guard evaluation.
type GuardDecision struct {
	FeatureKey        FeatureKey             `json:"featureKey"`
	Allowed           bool                   `json:"allowed"`
	Mode              GuardMode              `json:"mode"`
	RequiredTier      Tier                   `json:"requiredTier"`
	UserTier          Tier                   `json:"userTier"`
	IsUpgradeRequired bool                   `json:"isUpgradeRequired"`
	Permission        *PermissionRequirement `json:"permission,omitempty"`
	QuotaKey          string                 `json:"quotaKey,omitempty"`
	// Registered is false when the decision was built from GuardOptions.
	Registered bool `json:"registered"`
}

// Evaluate decides whether userTier may use key.
//
// A rule miss falls back to opts. Mode none bypasses the tier check; any
// permission or quota requirement is still reported for the caller to enforce.
func Evaluate(reg *Registry, key FeatureKey, userTier string, opts GuardOptions) GuardDecision {
	user := NormalizeTier(userTier)

	decision := GuardDecision{
		FeatureKey: key,
		UserTier:   user,
	}

	rule, ok := reg.GetFeatureAccessRule(key)
	if ok {
		decision.Registered = true
		decision.Mode = rule.Mode
		decision.RequiredTier = rule.RequiredTier
		decision.Permission = rule.Permission
		if rule.Quota != nil {
			decision.QuotaKey = rule.Quota.FeatureKey
		}
	} else {
		decision.Mode = opts.FallbackMode
		if !decision.Mode.Valid() {
			decision.Mode = DefaultGuardMode
		}
		fallbackTier := strings.TrimSpace(opts.FallbackTier)
		if fallbackTier == "" {
			decision.RequiredTier = user
		} else {
			decision.RequiredTier = NormalizeTier(fallbackTier)
		}
	}

	if decision.Mode == ModeNone {
		decision.Allowed = true
	} else {
		decision.Allowed = HasRequiredTier(user, decision.RequiredTier)
	}
	decision.IsUpgradeRequired = decision.Mode != ModeNone && !decision.Allowed

	return decision
}

type decisionCacheKey struct {
	feature FeatureKey
	tier    Tier
}

// DecisionCache memoizes Evaluate results for one registry. Only registered
// features are cached, so the cache never holds more than Len()*3 entries of
// the registry. Because the registry is immutable, entries never go stale.
type DecisionCache struct {
	mu       sync.RWMutex
	registry *Registry
	entries  map[decisionCacheKey]GuardDecision
}

// NewDecisionCache creates an empty cache over reg.
func NewDecisionCache(reg *Registry) *DecisionCache {
	return &DecisionCache{
		registry: reg,
		entries:  make(map[decisionCacheKey]GuardDecision),
	}
}

// Evaluate returns the cached decision or computes and stores it. Decisions
// for unregistered keys depend on opts and are computed on every call.
func (c *DecisionCache) Evaluate(key FeatureKey, userTier string, opts GuardOptions) GuardDecision {
	if c == nil {
		return Evaluate(nil, key, userTier, opts)
	}
	if _, ok := c.registry.GetFeatureAccessRule(key); !ok {
		return Evaluate(c.registry, key, userTier, opts)
	}

	// Registered rules ignore opts, so feature and tier identify the decision.
	cacheKey := decisionCacheKey{feature: key, tier: NormalizeTier(userTier)}

	c.mu.RLock()
	decision, ok := c.entries[cacheKey]
	c.mu.RUnlock()
	if ok {
		return cloneDecision(decision)
	}

	decision = Evaluate(c.registry, key, userTier, opts)

	c.mu.Lock()
	c.entries[cacheKey] = decision
	c.mu.Unlock()

	return cloneDecision(decision)
}

// Len returns the number of cached decisions.
func (c *DecisionCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every cached decision.
func (c *DecisionCache) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[decisionCacheKey]GuardDecision)
	c.mu.Unlock()
}

func cloneDecision(d GuardDecision) GuardDecision {
	if d.Permission != nil {
		p := *d.Permission
		d.Permission = &p
	}
	return d
}

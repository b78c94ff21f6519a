package licensing

import (
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"
)

// RoleAdmin bypasses permission requirements. Tier and quota still apply.
const RoleAdmin = "admin"

// Session is the signed-in user as seen by the guard. It is supplied by the
// auth provider and never stored here.
type Session interface {
	Tier() string
	Role() string
	// Permissions returns grants in "resource:action" form. Wildcards such as
	// "leads:*" or "*" are allowed.
	Permissions() []string
	// QuotaRemaining returns the remaining units and the period allotment for a
	// quota key. ok is false when the session does not meter that key.
	QuotaRemaining(key string) (remaining int64, allotment int64, ok bool)
}

// QuotaState describes how a metered feature sits against its allotment.
type QuotaState string

const (
	QuotaAllowed   QuotaState = "allowed"
	QuotaSoftBlock QuotaState = "soft_block" // Allowed, but the UI should warn
	QuotaHardBlock QuotaState = "hard_block"
)

// Access is the full answer for one feature: tier guard, permission and quota.
type Access struct {
	Decision          GuardDecision `json:"decision"`
	PermissionGranted bool          `json:"permissionGranted"`
	Quota             QuotaState    `json:"quota"`
	// Allowed is true only when every individual check passes.
	Allowed bool `json:"allowed"`
}

// Evaluator combines the tier guard with session permissions and quotas.
type Evaluator struct {
	cache   *DecisionCache
	metrics *GuardMetrics
}

// NewEvaluator creates an evaluator over reg with its own decision cache.
func NewEvaluator(reg *Registry) *Evaluator {
	return &Evaluator{cache: NewDecisionCache(reg)}
}

// WithMetrics makes Check record every outcome on m.
func (e *Evaluator) WithMetrics(m *GuardMetrics) *Evaluator {
	if e != nil {
		e.metrics = m
	}
	return e
}

// Decide returns only the tier guard decision.
func (e *Evaluator) Decide(key FeatureKey, userTier string, opts GuardOptions) GuardDecision {
	if e == nil {
		return Evaluate(nil, key, userTier, opts)
	}
	return e.cache.Evaluate(key, userTier, opts)
}

// Guard returns the tier guard decision and records it on the evaluator's
// metrics. Use it where only the account tier is known.
func (e *Evaluator) Guard(key FeatureKey, userTier string, opts GuardOptions) GuardDecision {
	decision := e.Decide(key, userTier, opts)
	if e != nil {
		e.metrics.RecordDecision(decision)
	}
	return decision
}

// Registry returns the registry the evaluator decides against.
func (e *Evaluator) Registry() *Registry {
	if e == nil || e.cache == nil {
		return nil
	}
	return e.cache.registry
}

// Check evaluates key for session. A nil session is treated as an anonymous
// Basic user with no grants.
func (e *Evaluator) Check(session Session, key FeatureKey, opts GuardOptions) Access {
	var (
		tier  string
		role  string
		perms []string
	)
	if session != nil {
		tier = session.Tier()
		role = session.Role()
		perms = session.Permissions()
	}

	decision := e.Decide(key, tier, opts)
	access := Access{
		Decision:          decision,
		PermissionGranted: true,
		Quota:             QuotaAllowed,
	}

	if decision.Permission != nil && !strings.EqualFold(strings.TrimSpace(role), RoleAdmin) {
		access.PermissionGranted = HasPermission(perms, *decision.Permission)
	}

	if rule, ok := e.rule(key); ok && rule.Quota != nil && session != nil {
		remaining, allotment, metered := session.QuotaRemaining(rule.Quota.FeatureKey)
		if metered {
			access.Quota = CheckQuota(*rule.Quota, remaining, allotment)
		}
	}

	access.Allowed = decision.Allowed && access.PermissionGranted && access.Quota != QuotaHardBlock
	if e != nil {
		e.metrics.RecordAccess(access)
	}
	return access
}

func (e *Evaluator) rule(key FeatureKey) (FeatureAccessRule, bool) {
	if e == nil || e.cache == nil {
		return FeatureAccessRule{}, false
	}
	return e.cache.registry.GetFeatureAccessRule(key)
}

// HasPermission reports whether any grant covers the requirement.
func HasPermission(grants []string, required PermissionRequirement) bool {
	want := strings.ToLower(required.String())
	for _, grant := range grants {
		grant = strings.ToLower(strings.TrimSpace(grant))
		if grant == "" {
			continue
		}
		if grant == want || wildcard.Match(grant, want) {
			return true
		}
	}
	return false
}

// CheckQuota evaluates one use of req against the remaining allotment.
// Using the feature must leave at least 10% of the allotment to avoid a soft
// block. An allotment of zero or less means unmetered.
func CheckQuota(req QuotaRequirement, remaining, allotment int64) QuotaState {
	if allotment <= 0 {
		return QuotaAllowed
	}
	if remaining < req.Amount {
		return QuotaHardBlock
	}
	after := remaining - req.Amount
	if after*10 < allotment {
		return QuotaSoftBlock
	}
	return QuotaAllowed
}

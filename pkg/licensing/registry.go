package licensing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/IGLOU-EU/go-wildcard/v2"
)

// ErrInvalidRule is returned when a registry entry fails startup validation.
var ErrInvalidRule = errors.New("invalid feature access rule")

// Registry is the closed, read-only set of feature access rules.
// It is built once at startup and never mutated afterwards.
type Registry struct {
	rules map[FeatureKey]FeatureAccessRule
}

// NewRegistry validates rules and builds a registry from them.
func NewRegistry(rules ...FeatureAccessRule) (*Registry, error) {
	reg := &Registry{rules: make(map[FeatureKey]FeatureAccessRule, len(rules))}
	for i, rule := range rules {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, rule.FeatureKey, err)
		}
		if _, exists := reg.rules[rule.FeatureKey]; exists {
			return nil, fmt.Errorf("rule %d (%q): %w: duplicate feature key", i, rule.FeatureKey, ErrInvalidRule)
		}
		reg.rules[rule.FeatureKey] = cloneRule(rule)
	}
	return reg, nil
}

func validateRule(rule FeatureAccessRule) error {
	if strings.TrimSpace(string(rule.FeatureKey)) == "" {
		return fmt.Errorf("%w: feature key is required", ErrInvalidRule)
	}
	if !rule.RequiredTier.Valid() {
		return fmt.Errorf("%w: unknown tier %q", ErrInvalidRule, rule.RequiredTier)
	}
	if !rule.Mode.Valid() {
		return fmt.Errorf("%w: unknown guard mode %q", ErrInvalidRule, rule.Mode)
	}
	if p := rule.Permission; p != nil {
		if strings.TrimSpace(p.Resource) == "" || strings.TrimSpace(p.Action) == "" {
			return fmt.Errorf("%w: permission requires resource and action", ErrInvalidRule)
		}
	}
	if q := rule.Quota; q != nil {
		if strings.TrimSpace(q.FeatureKey) == "" {
			return fmt.Errorf("%w: quota requires a feature key", ErrInvalidRule)
		}
		if q.Amount <= 0 {
			return fmt.Errorf("%w: quota amount must be positive, got %d", ErrInvalidRule, q.Amount)
		}
	}
	return nil
}

// cloneRule detaches the optional requirement pointers from caller memory.
func cloneRule(rule FeatureAccessRule) FeatureAccessRule {
	if rule.Permission != nil {
		p := *rule.Permission
		rule.Permission = &p
	}
	if rule.Quota != nil {
		q := *rule.Quota
		rule.Quota = &q
	}
	return rule
}

// GetFeatureAccessRule returns the rule registered for key.
func (r *Registry) GetFeatureAccessRule(key FeatureKey) (FeatureAccessRule, bool) {
	if r == nil {
		return FeatureAccessRule{}, false
	}
	rule, ok := r.rules[key]
	if !ok {
		return FeatureAccessRule{}, false
	}
	return cloneRule(rule), true
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Rules returns a copy of every rule sorted by feature key.
func (r *Registry) Rules() []FeatureAccessRule {
	if r == nil {
		return []FeatureAccessRule{}
	}
	out := make([]FeatureAccessRule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, cloneRule(rule))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeatureKey < out[j].FeatureKey })
	return out
}

// MatchRules returns the rules whose key matches a wildcard pattern such as
// "campaigns.*". An empty pattern matches everything.
func (r *Registry) MatchRules(pattern string) []FeatureAccessRule {
	pattern = strings.TrimSpace(pattern)
	rules := r.Rules()
	if pattern == "" {
		return rules
	}
	out := rules[:0]
	for _, rule := range rules {
		if wildcard.Match(pattern, string(rule.FeatureKey)) {
			out = append(out, rule)
		}
	}
	return out
}

// builtinRules is the production feature table.
var builtinRules = []FeatureAccessRule{
	{FeatureKey: FeatureQuickStart, RequiredTier: TierBasic, Mode: ModeNone, DisplayName: "Quick Start Wizard"},
	{FeatureKey: FeatureCSVImport, RequiredTier: TierBasic, Mode: ModeNone, DisplayName: "CSV Lead Import",
		Permission: &PermissionRequirement{Resource: "leads", Action: "create"}},
	{FeatureKey: FeatureROICalculator, RequiredTier: TierBasic, Mode: ModeNone, DisplayName: "ROI Calculator"},
	{FeatureKey: FeatureLeadLists, RequiredTier: TierBasic, Mode: ModeNone, DisplayName: "Lead Lists",
		Permission: &PermissionRequirement{Resource: "leads", Action: "read"}},
	{FeatureKey: FeaturePushAlerts, RequiredTier: TierBasic, Mode: ModePopover, DisplayName: "Push Notifications"},
	{FeatureKey: FeatureSavedSearches, RequiredTier: TierBasic, Mode: ModeDisable, DisplayName: "Saved Searches"},

	{FeatureKey: FeatureSmartImport, RequiredTier: TierStarter, Mode: ModePopover, DisplayName: "Smart Import",
		Permission: &PermissionRequirement{Resource: "leads", Action: "create"}},
	{FeatureKey: FeatureSkipTrace, RequiredTier: TierStarter, Mode: ModeOverlay, DisplayName: "Skip Tracing",
		Quota: &QuotaRequirement{FeatureKey: "skip_trace_credits", Amount: 1}},
	{FeatureKey: FeatureCRMSync, RequiredTier: TierStarter, Mode: ModeDisable, DisplayName: "CRM Sync",
		Permission: &PermissionRequirement{Resource: "integrations", Action: "manage"}},
	{FeatureKey: FeatureSMSCampaigns, RequiredTier: TierStarter, Mode: ModeOverlay, DisplayName: "SMS Campaigns",
		Quota: &QuotaRequirement{FeatureKey: "sms_credits", Amount: 1}},
	{FeatureKey: FeatureSocialCampaign, RequiredTier: TierStarter, Mode: ModePopover, DisplayName: "Social Outreach"},
	{FeatureKey: FeatureTeamMembers, RequiredTier: TierStarter, Mode: ModeDisable, DisplayName: "Team Members",
		Permission: &PermissionRequirement{Resource: "team", Action: "invite"}},
	{FeatureKey: FeatureLeadMarket, RequiredTier: TierStarter, Mode: ModePopover, DisplayName: "Lead List Marketplace"},

	{FeatureKey: FeatureAIVoice, RequiredTier: TierEnterprise, Mode: ModeOverlay, DisplayName: "AI Voice Agent",
		Quota: &QuotaRequirement{FeatureKey: "ai_voice_minutes", Amount: 1}},
	{FeatureKey: FeatureDirectMail, RequiredTier: TierEnterprise, Mode: ModeHide, DisplayName: "Direct Mail"},
	{FeatureKey: FeatureAILeadScoring, RequiredTier: TierEnterprise, Mode: ModeOverlay, DisplayName: "AI Lead Scoring"},
	{FeatureKey: FeatureAdvancedReports, RequiredTier: TierEnterprise, Mode: ModeOverlay, DisplayName: "Advanced Reports"},
	{FeatureKey: FeatureImpersonation, RequiredTier: TierEnterprise, Mode: ModeHide, DisplayName: "Admin Impersonation",
		Permission: &PermissionRequirement{Resource: "admin", Action: "impersonate"}},
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the built-in registry. An invalid built-in table is a
// programming error and panics on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := NewRegistry(builtinRules...)
		if err != nil {
			panic(fmt.Sprintf("licensing: built-in registry: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// GetFeatureAccessRule looks key up in the default registry.
func GetFeatureAccessRule(key FeatureKey) (FeatureAccessRule, bool) {
	return DefaultRegistry().GetFeatureAccessRule(key)
}

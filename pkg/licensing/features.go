package licensing

// FeatureKey identifies a gated dashboard surface.
type FeatureKey string

// Feature keys. The built-in registry in registry.go assigns each one a tier.
const (
	// Available on every plan
	FeatureQuickStart    FeatureKey = "dashboard.quickstart"
	FeatureCSVImport     FeatureKey = "leads.import_csv"
	FeatureROICalculator FeatureKey = "analytics.roi_calculator"
	FeatureLeadLists     FeatureKey = "leads.lists"
	FeaturePushAlerts    FeatureKey = "notifications.push"
	FeatureSavedSearches FeatureKey = "leads.saved_searches"

	// Starter and above
	FeatureSmartImport    FeatureKey = "leads.smart_import"
	FeatureSkipTrace      FeatureKey = "leads.skip_trace"
	FeatureCRMSync        FeatureKey = "crm.sync"
	FeatureSMSCampaigns   FeatureKey = "campaigns.sms"
	FeatureSocialCampaign FeatureKey = "campaigns.social"
	FeatureTeamMembers    FeatureKey = "team.members"
	FeatureLeadMarket     FeatureKey = "marketplace.lead_lists"

	// Enterprise
	FeatureAIVoice         FeatureKey = "campaigns.ai_voice"
	FeatureDirectMail      FeatureKey = "campaigns.direct_mail"
	FeatureAILeadScoring   FeatureKey = "ai.lead_scoring"
	FeatureAdvancedReports FeatureKey = "analytics.advanced_reports"
	FeatureImpersonation   FeatureKey = "admin.impersonation"
)

// GuardMode is the UI treatment applied to a feature the user cannot access.
type GuardMode string

const (
	ModeOverlay GuardMode = "overlay"
	ModeDisable GuardMode = "disable"
	ModePopover GuardMode = "popover"
	ModeHide    GuardMode = "hide"
	// ModeNone bypasses the tier check entirely.
	ModeNone GuardMode = "none"
)

// DefaultGuardMode is used when neither a rule nor the caller supplies a mode.
const DefaultGuardMode = ModeOverlay

// Valid reports whether m is a known guard mode.
func (m GuardMode) Valid() bool {
	switch m {
	case ModeOverlay, ModeDisable, ModePopover, ModeHide, ModeNone:
		return true
	default:
		return false
	}
}

// PermissionRequirement names the RBAC grant a feature needs on top of its tier.
type PermissionRequirement struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// String renders the requirement as "resource:action".
func (p PermissionRequirement) String() string {
	return p.Resource + ":" + p.Action
}

// QuotaRequirement names the metered allotment a single use of a feature consumes.
type QuotaRequirement struct {
	FeatureKey string `json:"featureKey"`
	Amount     int64  `json:"amount"`
}

// FeatureAccessRule is one immutable registry entry.
type FeatureAccessRule struct {
	FeatureKey   FeatureKey             `json:"featureKey"`
	RequiredTier Tier                   `json:"requiredTier"`
	Mode         GuardMode              `json:"mode"`
	Permission   *PermissionRequirement `json:"permission,omitempty"`
	Quota        *QuotaRequirement      `json:"quota,omitempty"`
	DisplayName  string                 `json:"displayName,omitempty"`
}

// GetFeatureDisplayName returns a human-readable name for a feature in the
// default registry, or the key itself when unknown.
func GetFeatureDisplayName(key FeatureKey) string {
	if rule, ok := DefaultRegistry().GetFeatureAccessRule(key); ok && rule.DisplayName != "" {
		return rule.DisplayName
	}
	return string(key)
}

// GetFeatureMinTierName returns the display name of the tier that unlocks key.
// Used for messages like "requires Starter or above".
func GetFeatureMinTierName(key FeatureKey) string {
	if rule, ok := DefaultRegistry().GetFeatureAccessRule(key); ok {
		return GetTierDisplayName(rule.RequiredTier)
	}
	return GetTierDisplayName(TierBasic)
}

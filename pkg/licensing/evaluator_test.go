package licensing

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quota struct {
	remaining int64
	allotment int64
}

type mockSession struct {
	tier   string
	role   string
	perms  []string
	quotas map[string]quota
}

func (m mockSession) Tier() string          { return m.tier }
func (m mockSession) Role() string          { return m.role }
func (m mockSession) Permissions() []string { return m.perms }
func (m mockSession) QuotaRemaining(key string) (int64, int64, bool) {
	q, ok := m.quotas[key]
	return q.remaining, q.allotment, ok
}

func TestEvaluator_Check(t *testing.T) {
	tests := []struct {
		name           string
		session        Session
		feature        FeatureKey
		wantAllowed    bool
		wantPermission bool
		wantQuota      QuotaState
	}{
		{
			name:           "tier_and_permission_satisfied",
			session:        mockSession{tier: "starter", perms: []string{"integrations:manage"}},
			feature:        FeatureCRMSync,
			wantAllowed:    true,
			wantPermission: true,
			wantQuota:      QuotaAllowed,
		},
		{
			name:           "wildcard_grant",
			session:        mockSession{tier: "starter", perms: []string{"integrations:*"}},
			feature:        FeatureCRMSync,
			wantAllowed:    true,
			wantPermission: true,
			wantQuota:      QuotaAllowed,
		},
		{
			name:           "missing_permission",
			session:        mockSession{tier: "enterprise", perms: []string{"leads:read"}},
			feature:        FeatureCRMSync,
			wantAllowed:    false,
			wantPermission: false,
			wantQuota:      QuotaAllowed,
		},
		{
			name:           "admin_role_bypasses_permission",
			session:        mockSession{tier: "enterprise", role: "Admin"},
			feature:        FeatureImpersonation,
			wantAllowed:    true,
			wantPermission: true,
			wantQuota:      QuotaAllowed,
		},
		{
			name:           "admin_role_does_not_bypass_tier",
			session:        mockSession{tier: "basic", role: "admin"},
			feature:        FeatureImpersonation,
			wantAllowed:    false,
			wantPermission: true,
			wantQuota:      QuotaAllowed,
		},
		{
			name:           "quota_exhausted",
			session:        mockSession{tier: "enterprise", quotas: map[string]quota{"ai_voice_minutes": {0, 500}}},
			feature:        FeatureAIVoice,
			wantAllowed:    false,
			wantPermission: true,
			wantQuota:      QuotaHardBlock,
		},
		{
			name:           "quota_low_warns",
			session:        mockSession{tier: "enterprise", quotas: map[string]quota{"ai_voice_minutes": {20, 500}}},
			feature:        FeatureAIVoice,
			wantAllowed:    true,
			wantPermission: true,
			wantQuota:      QuotaSoftBlock,
		},
		{
			name:           "unmetered_quota_key",
			session:        mockSession{tier: "starter"},
			feature:        FeatureSMSCampaigns,
			wantAllowed:    true,
			wantPermission: true,
			wantQuota:      QuotaAllowed,
		},
		{
			name:           "nil_session_is_basic_without_grants",
			session:        nil,
			feature:        FeatureCSVImport,
			wantAllowed:    false,
			wantPermission: false,
			wantQuota:      QuotaAllowed,
		},
	}

	eval := NewEvaluator(DefaultRegistry())
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := eval.Check(tt.session, tt.feature, GuardOptions{})
			assert.Equal(t, tt.wantAllowed, got.Allowed, "Allowed")
			assert.Equal(t, tt.wantPermission, got.PermissionGranted, "PermissionGranted")
			assert.Equal(t, tt.wantQuota, got.Quota, "Quota")
		})
	}
}

func TestEvaluator_NilSafe(t *testing.T) {
	var eval *Evaluator
	got := eval.Check(mockSession{tier: "starter"}, FeatureAIVoice, GuardOptions{})
	assert.False(t, got.Decision.Registered)
	assert.True(t, got.Allowed)
}

func TestCheckQuota(t *testing.T) {
	req := QuotaRequirement{FeatureKey: "sms_credits", Amount: 10}
	tests := []struct {
		name      string
		remaining int64
		allotment int64
		want      QuotaState
	}{
		{"plenty", 500, 1000, QuotaAllowed},
		{"exactly_ten_percent_left", 110, 1000, QuotaAllowed},
		{"under_ten_percent_left", 100, 1000, QuotaSoftBlock},
		{"exactly_enough", 10, 1000, QuotaSoftBlock},
		{"not_enough", 9, 1000, QuotaHardBlock},
		{"unmetered", 0, 0, QuotaAllowed},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckQuota(req, tt.remaining, tt.allotment))
		})
	}
}

func TestHasPermission(t *testing.T) {
	required := PermissionRequirement{Resource: "leads", Action: "create"}
	assert.True(t, HasPermission([]string{"leads:create"}, required))
	assert.True(t, HasPermission([]string{"LEADS:CREATE"}, required))
	assert.True(t, HasPermission([]string{"leads:*"}, required))
	assert.True(t, HasPermission([]string{"*"}, required))
	assert.False(t, HasPermission([]string{"leads:read", ""}, required))
	assert.False(t, HasPermission(nil, required))
}

func TestEvaluator_RecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewGuardMetrics(registry)
	eval := NewEvaluator(DefaultRegistry()).WithMetrics(metrics)

	eval.Check(mockSession{tier: "basic"}, FeatureAIVoice, GuardOptions{})
	eval.Check(mockSession{tier: "enterprise"}, FeatureAIVoice, GuardOptions{})
	eval.Check(mockSession{tier: "basic"}, "beta.feature", GuardOptions{})

	require.Equal(t, float64(1), testutil.ToFloat64(metrics.checksTotal.WithLabelValues(string(FeatureAIVoice), "upgrade_required")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.checksTotal.WithLabelValues(string(FeatureAIVoice), "allowed")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.checksTotal.WithLabelValues("unregistered", "allowed")))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.upgradesTotal.WithLabelValues("enterprise")))
}

func TestNewGuardMetrics_ReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := NewGuardMetrics(registry)
	second := NewGuardMetrics(registry)
	if first.checksTotal != second.checksTotal {
		t.Fatal("checks_total collector was not reused")
	}
	if first.upgradesTotal != second.upgradesTotal {
		t.Fatal("upgrade_required_total collector was not reused")
	}
}

func TestGenerateUpgradeReasons(t *testing.T) {
	reg := DefaultRegistry()

	basic := GenerateUpgradeReasons(reg, "basic", "")
	require.NotEmpty(t, basic)
	for i, reason := range basic {
		assert.NotEqual(t, TierBasic, reason.RequiredTier)
		assert.True(t, strings.Contains(reason.ActionURL, "feature="+string(reason.Feature)), reason.ActionURL)
		if i > 0 {
			prev := basic[i-1]
			assert.LessOrEqual(t, prev.RequiredTier.Rank(), reason.RequiredTier.Rank())
		}
		rule, _ := reg.GetFeatureAccessRule(reason.Feature)
		assert.NotEqual(t, ModeHide, rule.Mode, "hidden features should not produce reasons")
	}
	assert.Equal(t, TierStarter, basic[0].RequiredTier)

	starter := GenerateUpgradeReasons(reg, "starter", "")
	for _, reason := range starter {
		assert.Equal(t, TierEnterprise, reason.RequiredTier)
	}
	assert.Less(t, len(starter), len(basic))

	assert.Empty(t, GenerateUpgradeReasons(reg, "enterprise", ""))
}

func TestUpgradeURLForFeature(t *testing.T) {
	got := UpgradeURLForFeature("https://example.com/billing?ref=app", FeatureAIVoice, TierEnterprise)
	assert.Equal(t, "https://example.com/billing?feature=campaigns.ai_voice&plan=enterprise&ref=app", got)

	fallback := UpgradeURLForFeature("not a url", FeatureCRMSync, TierStarter)
	assert.True(t, strings.HasPrefix(fallback, "https://app.leadforge.io/settings/billing?"), fallback)
	assert.Contains(t, fallback, "plan=starter")
}

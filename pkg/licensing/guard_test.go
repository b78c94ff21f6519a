package licensing

import (
	"fmt"
	"sync"
	"testing"
)

func TestEvaluate(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name        string
		feature     FeatureKey
		userTier    string
		opts        GuardOptions
		wantAllowed bool
		wantMode    GuardMode
		wantReq     Tier
		wantUpgrade bool
	}{
		{
			name:        "basic_denied_starter_feature",
			feature:     FeatureSMSCampaigns,
			userTier:    "basic",
			wantAllowed: false,
			wantMode:    ModeOverlay,
			wantReq:     TierStarter,
			wantUpgrade: true,
		},
		{
			name:        "starter_allowed_starter_feature",
			feature:     FeatureSMSCampaigns,
			userTier:    "Starter",
			wantAllowed: true,
			wantMode:    ModeOverlay,
			wantReq:     TierStarter,
		},
		{
			name:        "enterprise_allowed_everything",
			feature:     FeatureImpersonation,
			userTier:    "ENTERPRISE",
			wantAllowed: true,
			wantMode:    ModeHide,
			wantReq:     TierEnterprise,
		},
		{
			name:        "unknown_tier_degrades_to_basic",
			feature:     FeatureCRMSync,
			userTier:    "gold",
			wantAllowed: false,
			wantMode:    ModeDisable,
			wantReq:     TierStarter,
			wantUpgrade: true,
		},
		{
			name:        "missing_rule_without_fallback_tier_is_allowed",
			feature:     "beta.feature",
			userTier:    "basic",
			wantAllowed: true,
			wantMode:    ModeOverlay,
			wantReq:     TierBasic,
		},
		{
			name:        "missing_rule_with_fallback_tier",
			feature:     "beta.feature",
			userTier:    "starter",
			opts:        GuardOptions{FallbackMode: ModePopover, FallbackTier: "enterprise"},
			wantAllowed: false,
			wantMode:    ModePopover,
			wantReq:     TierEnterprise,
			wantUpgrade: true,
		},
		{
			name:        "missing_rule_invalid_fallback_mode_uses_overlay",
			feature:     "beta.feature",
			userTier:    "basic",
			opts:        GuardOptions{FallbackMode: GuardMode("blur"), FallbackTier: "starter"},
			wantAllowed: false,
			wantMode:    ModeOverlay,
			wantReq:     TierStarter,
			wantUpgrade: true,
		},
		{
			name:        "missing_rule_fallback_none_bypasses_tier",
			feature:     "beta.feature",
			userTier:    "basic",
			opts:        GuardOptions{FallbackMode: ModeNone, FallbackTier: "enterprise"},
			wantAllowed: true,
			wantMode:    ModeNone,
			wantReq:     TierEnterprise,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(reg, tt.feature, tt.userTier, tt.opts)
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", got.Mode, tt.wantMode)
			}
			if got.RequiredTier != tt.wantReq {
				t.Errorf("RequiredTier = %q, want %q", got.RequiredTier, tt.wantReq)
			}
			if got.IsUpgradeRequired != tt.wantUpgrade {
				t.Errorf("IsUpgradeRequired = %v, want %v", got.IsUpgradeRequired, tt.wantUpgrade)
			}
		})
	}
}

func TestEvaluate_ModeNoneAlwaysAllowed(t *testing.T) {
	reg, err := NewRegistry(FeatureAccessRule{
		FeatureKey:   "always.visible",
		RequiredTier: TierEnterprise,
		Mode:         ModeNone,
		Quota:        &QuotaRequirement{FeatureKey: "credits", Amount: 5},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	for _, tier := range []string{"", "free", "basic", "starter", "enterprise", "bogus"} {
		got := Evaluate(reg, "always.visible", tier, GuardOptions{})
		if !got.Allowed || got.IsUpgradeRequired {
			t.Errorf("tier %q: Allowed=%v IsUpgradeRequired=%v, want allowed without upgrade", tier, got.Allowed, got.IsUpgradeRequired)
		}
		if got.QuotaKey != "credits" {
			t.Errorf("tier %q: QuotaKey = %q, want credits", tier, got.QuotaKey)
		}
	}
}

func TestEvaluate_ReportsRequirements(t *testing.T) {
	got := Evaluate(DefaultRegistry(), FeatureTeamMembers, "enterprise", GuardOptions{})
	if !got.Registered {
		t.Fatal("expected Registered=true")
	}
	if got.Permission == nil || got.Permission.String() != "team:invite" {
		t.Fatalf("Permission = %+v, want team:invite", got.Permission)
	}
	if got.UserTier != TierEnterprise {
		t.Fatalf("UserTier = %q, want enterprise", got.UserTier)
	}
}

func TestEvaluate_NilRegistry(t *testing.T) {
	got := Evaluate(nil, FeatureAIVoice, "starter", GuardOptions{})
	if got.Registered {
		t.Fatal("nil registry should never report a registered rule")
	}
	if !got.Allowed {
		t.Fatal("nil registry without fallback tier should allow")
	}
}

func TestDecisionCache(t *testing.T) {
	cache := NewDecisionCache(DefaultRegistry())

	first := cache.Evaluate(FeatureAIVoice, "starter", GuardOptions{})
	second := cache.Evaluate(FeatureAIVoice, "Starter", GuardOptions{})
	if cache.Len() != 1 {
		t.Fatalf("cache.Len() = %d, want 1 (tier normalized in key)", cache.Len())
	}
	if first != second {
		t.Fatalf("cached decision differs: %+v vs %+v", first, second)
	}

	cache.Evaluate(FeatureAIVoice, "enterprise", GuardOptions{})
	locked := cache.Evaluate("beta.feature", "basic", GuardOptions{FallbackTier: "starter"})
	open := cache.Evaluate("beta.feature", "basic", GuardOptions{FallbackTier: "basic"})
	if locked.Allowed || !open.Allowed {
		t.Fatalf("unregistered decisions should follow opts: locked=%+v open=%+v", locked, open)
	}
	if cache.Len() != 2 {
		t.Fatalf("cache.Len() = %d, want 2 (unregistered keys are not cached)", cache.Len())
	}

	cache.Reset()
	if cache.Len() != 0 {
		t.Fatalf("cache.Len() after Reset = %d, want 0", cache.Len())
	}
}

func TestDecisionCache_BoundedByRegistry(t *testing.T) {
	reg := DefaultRegistry()
	cache := NewDecisionCache(reg)

	for i := 0; i < 5000; i++ {
		cache.Evaluate(FeatureKey(fmt.Sprintf("labs.feature_%d", i)), "basic", GuardOptions{})
	}
	for i := 0; i < 100; i++ {
		d := cache.Evaluate(FeatureCRMSync, "starter", GuardOptions{FallbackMode: GuardMode(fmt.Sprintf("junk-%d", i))})
		if d.Mode != ModeDisable {
			t.Fatalf("registered rule mode = %q, want disable", d.Mode)
		}
	}
	for _, rule := range reg.Rules() {
		for _, tier := range []string{"basic", "Starter", "enterprise", "platinum", ""} {
			cache.Evaluate(rule.FeatureKey, tier, GuardOptions{FallbackTier: "enterprise"})
		}
	}

	if limit := reg.Len() * len(OrderedTiers()); cache.Len() > limit {
		t.Fatalf("cache.Len() = %d, want <= %d", cache.Len(), limit)
	}
}

func TestDecisionCache_MatchesEvaluate(t *testing.T) {
	reg := DefaultRegistry()
	cache := NewDecisionCache(reg)
	for _, rule := range reg.Rules() {
		for _, tier := range OrderedTiers() {
			want := Evaluate(reg, rule.FeatureKey, string(tier), GuardOptions{})
			got := cache.Evaluate(rule.FeatureKey, string(tier), GuardOptions{})
			if got.Allowed != want.Allowed || got.Mode != want.Mode || got.RequiredTier != want.RequiredTier {
				t.Errorf("%s/%s: cache %+v, direct %+v", rule.FeatureKey, tier, got, want)
			}
		}
	}
}

func TestDecisionCache_Concurrent(t *testing.T) {
	cache := NewDecisionCache(DefaultRegistry())
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tier := OrderedTiers()[i%3]
			cache.Evaluate(FeatureSkipTrace, string(tier), GuardOptions{})
		}(i)
	}
	wg.Wait()
	if cache.Len() != 3 {
		t.Fatalf("cache.Len() = %d, want 3", cache.Len())
	}
}

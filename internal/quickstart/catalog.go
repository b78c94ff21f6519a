// Package quickstart implements the persona and goal onboarding wizard.
package quickstart

import (
	"fmt"
	"sync"

	"github.com/leadforge/leadcore/pkg/licensing"
)

// PersonaID identifies a user archetype.
type PersonaID string

// GoalID identifies a persona-specific outcome.
type GoalID string

const (
	PersonaAgent      PersonaID = "agent"
	PersonaInvestor   PersonaID = "investor"
	PersonaWholesaler PersonaID = "wholesaler"
	PersonaLender     PersonaID = "lender"
)

// Persona is a static catalog entry.
type Persona struct {
	ID          PersonaID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Headline    string    `json:"headline"`
	DefaultGoal GoalID    `json:"defaultGoal"`
}

// Goal is a static catalog entry owned by one persona.
type Goal struct {
	ID                  GoalID                 `json:"id"`
	PersonaID           PersonaID              `json:"personaId"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Outcome             string                 `json:"outcome"`
	RecommendedFeatures []licensing.FeatureKey `json:"recommendedFeatures"`
}

// Catalog is the immutable persona and goal catalog.
type Catalog struct {
	personas       map[PersonaID]Persona
	personaOrder   []PersonaID
	goals          map[GoalID]Goal
	goalsByPersona map[PersonaID][]GoalID
}

// NewCatalog validates and indexes personas and goals. Goal ids are unique
// across the catalog and every persona's default goal must belong to it.
func NewCatalog(personas []Persona, goals []Goal) (*Catalog, error) {
	c := &Catalog{
		personas:       make(map[PersonaID]Persona, len(personas)),
		goals:          make(map[GoalID]Goal, len(goals)),
		goalsByPersona: make(map[PersonaID][]GoalID, len(personas)),
	}

	for _, p := range personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona id is required")
		}
		if _, exists := c.personas[p.ID]; exists {
			return nil, fmt.Errorf("duplicate persona %q", p.ID)
		}
		c.personas[p.ID] = p
		c.personaOrder = append(c.personaOrder, p.ID)
	}

	for _, g := range goals {
		if g.ID == "" {
			return nil, fmt.Errorf("goal id is required")
		}
		if _, exists := c.goals[g.ID]; exists {
			return nil, fmt.Errorf("duplicate goal %q", g.ID)
		}
		if _, ok := c.personas[g.PersonaID]; !ok {
			return nil, fmt.Errorf("goal %q references unknown persona %q", g.ID, g.PersonaID)
		}
		g.RecommendedFeatures = append([]licensing.FeatureKey(nil), g.RecommendedFeatures...)
		c.goals[g.ID] = g
		c.goalsByPersona[g.PersonaID] = append(c.goalsByPersona[g.PersonaID], g.ID)
	}

	for _, id := range c.personaOrder {
		p := c.personas[id]
		if len(c.goalsByPersona[id]) == 0 {
			return nil, fmt.Errorf("persona %q has no goals", id)
		}
		if !c.HasGoal(id, p.DefaultGoal) {
			return nil, fmt.Errorf("persona %q default goal %q is not in its catalog", id, p.DefaultGoal)
		}
	}

	return c, nil
}

// Persona returns the persona with id.
func (c *Catalog) Persona(id PersonaID) (Persona, bool) {
	if c == nil {
		return Persona{}, false
	}
	p, ok := c.personas[id]
	return p, ok
}

// Goal returns the goal with id.
func (c *Catalog) Goal(id GoalID) (Goal, bool) {
	if c == nil {
		return Goal{}, false
	}
	g, ok := c.goals[id]
	if !ok {
		return Goal{}, false
	}
	g.RecommendedFeatures = append([]licensing.FeatureKey(nil), g.RecommendedFeatures...)
	return g, true
}

// HasGoal reports whether goal belongs to persona's catalog.
func (c *Catalog) HasGoal(persona PersonaID, goal GoalID) bool {
	if c == nil {
		return false
	}
	g, ok := c.goals[goal]
	return ok && g.PersonaID == persona
}

// Personas returns the personas in catalog order.
func (c *Catalog) Personas() []Persona {
	if c == nil {
		return nil
	}
	out := make([]Persona, 0, len(c.personaOrder))
	for _, id := range c.personaOrder {
		out = append(out, c.personas[id])
	}
	return out
}

// GoalsFor returns the goals a persona may select, in catalog order. This is
// the filtered option list a UI should present.
func (c *Catalog) GoalsFor(persona PersonaID) []Goal {
	if c == nil {
		return nil
	}
	ids := c.goalsByPersona[persona]
	out := make([]Goal, 0, len(ids))
	for _, id := range ids {
		g, _ := c.Goal(id)
		out = append(out, g)
	}
	return out
}

var builtinPersonas = []Persona{
	{
		ID:          PersonaAgent,
		Title:       "Real estate agent",
		Description: "List and sell homes for your sphere and new prospects.",
		Headline:    "Win more listings with less cold calling.",
		DefaultGoal: "agent-sphere",
	},
	{
		ID:          PersonaInvestor,
		Title:       "Investor",
		Description: "Buy properties below market to flip or hold.",
		Headline:    "Find motivated sellers before anyone else.",
		DefaultGoal: "investor-distressed",
	},
	{
		ID:          PersonaWholesaler,
		Title:       "Wholesaler",
		Description: "Lock up contracts and assign them to buyers.",
		Headline:    "Keep your pipeline full of assignable deals.",
		DefaultGoal: "wholesaler-volume",
	},
	{
		ID:          PersonaLender,
		Title:       "Lender",
		Description: "Originate purchase and refinance loans.",
		Headline:    "Reach borrowers at the moment they need financing.",
		DefaultGoal: "lender-refi",
	},
}

var builtinGoals = []Goal{
	{
		ID:          "agent-sphere",
		PersonaID:   PersonaAgent,
		Title:       "Work my sphere",
		Description: "Re-engage past clients and referrals on a steady cadence.",
		Outcome:     "Turn your existing network into repeat and referral listings.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureCSVImport,
			licensing.FeatureCRMSync,
			licensing.FeatureSMSCampaigns,
			licensing.FeatureSocialCampaign,
		},
	},
	{
		ID:          "agent-expired",
		PersonaID:   PersonaAgent,
		Title:       "Convert expired listings",
		Description: "Reach sellers whose listings just came off the market.",
		Outcome:     "Be the first call an expired seller gets.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureSkipTrace,
			licensing.FeatureAIVoice,
			licensing.FeatureSMSCampaigns,
		},
	},
	{
		ID:          "agent-fsbo",
		PersonaID:   PersonaAgent,
		Title:       "Win FSBO sellers",
		Description: "Help for-sale-by-owner sellers see the value of listing.",
		Outcome:     "Convert owners who tried it alone into signed listings.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureSkipTrace,
			licensing.FeatureSMSCampaigns,
			licensing.FeatureDirectMail,
		},
	},
	{
		ID:          "investor-distressed",
		PersonaID:   PersonaInvestor,
		Title:       "Find distressed properties",
		Description: "Target pre-foreclosures, tax liens and vacant homes.",
		Outcome:     "Build a list of motivated sellers and contact them first.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureLeadMarket,
			licensing.FeatureSkipTrace,
			licensing.FeatureAILeadScoring,
			licensing.FeatureSMSCampaigns,
		},
	},
	{
		ID:          "investor-rental",
		PersonaID:   PersonaInvestor,
		Title:       "Grow a rental portfolio",
		Description: "Find tired landlords and buy-and-hold opportunities.",
		Outcome:     "Add cash-flowing doors every quarter.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureSavedSearches,
			licensing.FeatureLeadMarket,
			licensing.FeatureAdvancedReports,
		},
	},
	{
		ID:          "wholesaler-volume",
		PersonaID:   PersonaWholesaler,
		Title:       "Scale outreach volume",
		Description: "Run high-volume SMS and calling across fresh lists.",
		Outcome:     "Lock up more contracts every month.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureSmartImport,
			licensing.FeatureSkipTrace,
			licensing.FeatureSMSCampaigns,
			licensing.FeatureAIVoice,
		},
	},
	{
		ID:          "wholesaler-dispo",
		PersonaID:   PersonaWholesaler,
		Title:       "Build a buyers list",
		Description: "Grow and segment the cash buyers you assign deals to.",
		Outcome:     "Assign contracts faster with a warm buyers list.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureLeadLists,
			licensing.FeatureSocialCampaign,
			licensing.FeatureTeamMembers,
		},
	},
	{
		ID:          "lender-refi",
		PersonaID:   PersonaLender,
		Title:       "Refinance outreach",
		Description: "Find homeowners whose rate or equity makes a refi worthwhile.",
		Outcome:     "Fill your refi pipeline when rates move.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureCRMSync,
			licensing.FeatureAILeadScoring,
			licensing.FeatureSMSCampaigns,
		},
	},
	{
		ID:          "lender-purchase",
		PersonaID:   PersonaLender,
		Title:       "Purchase pre-approvals",
		Description: "Meet buyers early through agent partners and first-time buyer lists.",
		Outcome:     "Become the lender buyers call before they make an offer.",
		RecommendedFeatures: []licensing.FeatureKey{
			licensing.FeatureLeadLists,
			licensing.FeatureSocialCampaign,
			licensing.FeaturePushAlerts,
		},
	},
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in catalog. It panics if the built-in
// tables are inconsistent.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := NewCatalog(builtinPersonas, builtinGoals)
		if err != nil {
			panic(fmt.Sprintf("quickstart: invalid built-in catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

package roi

// Preset is the monthly pipeline a persona typically runs toward a goal.
type Preset struct {
	PersonaID      string  `json:"personaId"`
	GoalID         string  `json:"goalId"`
	LeadsPerMonth  float64 `json:"leadsPerMonth"`
	ConversionRate float64 `json:"conversionRate"` // Percent of leads that close
	AvgDealValue   float64 `json:"avgDealValue"`   // Commission, assignment fee or profit per deal
	CallsPerMonth  float64 `json:"callsPerMonth"`
	SMSPerMonth    float64 `json:"smsPerMonth"`
	SocialPerMonth float64 `json:"socialPerMonth"`
}

// DefaultPersonaID and DefaultGoalID are used when a profile names a persona
// with no presets.
const (
	DefaultPersonaID = "agent"
	DefaultGoalID    = "agent-sphere"
)

var presets = map[string]Preset{
	"agent-sphere":        {PersonaID: "agent", GoalID: "agent-sphere", LeadsPerMonth: 60, ConversionRate: 20, AvgDealValue: 12000, CallsPerMonth: 150, SMSPerMonth: 400, SocialPerMonth: 200},
	"agent-expired":       {PersonaID: "agent", GoalID: "agent-expired", LeadsPerMonth: 120, ConversionRate: 8, AvgDealValue: 11000, CallsPerMonth: 600, SMSPerMonth: 300, SocialPerMonth: 50},
	"agent-fsbo":          {PersonaID: "agent", GoalID: "agent-fsbo", LeadsPerMonth: 90, ConversionRate: 10, AvgDealValue: 10500, CallsPerMonth: 400, SMSPerMonth: 350, SocialPerMonth: 100},
	"investor-distressed": {PersonaID: "investor", GoalID: "investor-distressed", LeadsPerMonth: 200, ConversionRate: 2, AvgDealValue: 35000, CallsPerMonth: 800, SMSPerMonth: 1500, SocialPerMonth: 100},
	"investor-rental":     {PersonaID: "investor", GoalID: "investor-rental", LeadsPerMonth: 80, ConversionRate: 3, AvgDealValue: 60000, CallsPerMonth: 300, SMSPerMonth: 500, SocialPerMonth: 150},
	"wholesaler-volume":   {PersonaID: "wholesaler", GoalID: "wholesaler-volume", LeadsPerMonth: 400, ConversionRate: 1.5, AvgDealValue: 15000, CallsPerMonth: 1500, SMSPerMonth: 3000, SocialPerMonth: 200},
	"wholesaler-dispo":    {PersonaID: "wholesaler", GoalID: "wholesaler-dispo", LeadsPerMonth: 150, ConversionRate: 4, AvgDealValue: 12000, CallsPerMonth: 300, SMSPerMonth: 800, SocialPerMonth: 400},
	"lender-refi":         {PersonaID: "lender", GoalID: "lender-refi", LeadsPerMonth: 150, ConversionRate: 6, AvgDealValue: 4500, CallsPerMonth: 500, SMSPerMonth: 600, SocialPerMonth: 100},
	"lender-purchase":     {PersonaID: "lender", GoalID: "lender-purchase", LeadsPerMonth: 100, ConversionRate: 10, AvgDealValue: 5200, CallsPerMonth: 300, SMSPerMonth: 400, SocialPerMonth: 250},
}

// defaultGoalByPersona is the preset used when the goal does not belong to
// the persona.
var defaultGoalByPersona = map[string]string{
	"agent":      "agent-sphere",
	"investor":   "investor-distressed",
	"wholesaler": "wholesaler-volume",
	"lender":     "lender-refi",
}

// PresetFor returns the preset for persona and goal, and whether it was an
// exact match. A goal outside the persona falls back to the persona default;
// an unknown persona falls back to DefaultGoalID.
func PresetFor(personaID, goalID string) (Preset, bool) {
	if p, ok := presets[goalID]; ok && p.PersonaID == personaID {
		return p, true
	}
	if fallback, ok := defaultGoalByPersona[personaID]; ok {
		return presets[fallback], false
	}
	return presets[DefaultGoalID], false
}

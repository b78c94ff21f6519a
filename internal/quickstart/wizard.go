package quickstart

import (
	"errors"
	"strings"

	lcerrors "github.com/leadforge/leadcore/internal/errors"
)

// Phase is the wizard step derived from State.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhasePersonaSelected Phase = "persona-selected"
	PhaseGoalSelected    Phase = "goal-selected"
	PhaseCompleted       Phase = "completed"
)

// Analytics event names emitted by transitions.
const (
	EventPersonaSelected = "persona_selected"
	EventGoalSelected    = "goal_selected"
	EventWizardCancelled = "wizard_cancelled"
	EventPlanCompleted   = "plan_completed"
)

var (
	ErrUnknownPersona   = errors.New("unknown persona")
	ErrPersonaRequired  = errors.New("persona must be selected first")
	ErrGoalNotInCatalog = errors.New("goal is not in the persona's catalog")
	ErrPlanIncomplete   = errors.New("persona and goal are required")
	ErrUnknownAction    = errors.New("unknown action")
)

// State is the wizard state. The zero value is the signed-out initial state.
type State struct {
	PersonaID PersonaID `json:"personaId,omitempty"`
	GoalID    GoalID    `json:"goalId,omitempty"`
	Completed bool      `json:"completed"`
	// Hydrated is set once session defaults have been applied.
	Hydrated bool `json:"hydrated"`
	// Touched is set by any explicit user action and locks out hydration
	// until sign-out.
	Touched bool `json:"touched"`
}

// Phase derives the wizard step.
func (s State) Phase() Phase {
	switch {
	case s.PersonaID == "":
		return PhaseIdle
	case s.GoalID == "":
		return PhasePersonaSelected
	case s.Completed:
		return PhaseCompleted
	default:
		return PhaseGoalSelected
	}
}

func (s State) empty() bool {
	return s.PersonaID == "" && s.GoalID == "" && !s.Completed
}

// SessionDefaults are the quickstart defaults an auth session may carry.
type SessionDefaults struct {
	PersonaID string `json:"personaId"`
	GoalID    string `json:"goalId"`
}

// Action is a wizard transition request.
type Action interface {
	actionName() string
}

type (
	SelectPersona      struct{ PersonaID PersonaID }
	SelectGoal         struct{ GoalID GoalID }
	HydrateFromSession struct{ Defaults SessionDefaults }
	Complete           struct{}
	Reset              struct{}
	SignOut            struct{}
)

func (SelectPersona) actionName() string      { return "select_persona" }
func (SelectGoal) actionName() string         { return "select_goal" }
func (HydrateFromSession) actionName() string { return "hydrate_from_session" }
func (Complete) actionName() string           { return "complete" }
func (Reset) actionName() string              { return "reset" }
func (SignOut) actionName() string            { return "sign_out" }

// Emission is the analytics event a transition produced.
type Emission struct {
	Name    string
	Payload map[string]any
}

// Reduce applies action to state and returns the next state. A rejected
// action returns the unchanged state and an error; a no-op returns the
// unchanged state with no emission.
func Reduce(catalog *Catalog, state State, action Action) (State, *Emission, error) {
	switch a := action.(type) {
	case SelectPersona:
		return selectPersona(catalog, state, a.PersonaID)
	case SelectGoal:
		return selectGoal(catalog, state, a.GoalID)
	case HydrateFromSession:
		return hydrate(catalog, state, a.Defaults), nil, nil
	case Complete:
		return complete(state)
	case Reset:
		return reset(state)
	case SignOut:
		return State{}, nil, nil
	default:
		return state, nil, lcerrors.WrapValidation("reduce", "", ErrUnknownAction)
	}
}

func selectPersona(catalog *Catalog, s State, id PersonaID) (State, *Emission, error) {
	if _, ok := catalog.Persona(id); !ok {
		return s, nil, lcerrors.WrapValidation("select_persona", string(id), ErrUnknownPersona)
	}

	next := s
	goalCleared := s.GoalID != "" && !catalog.HasGoal(id, s.GoalID)
	next.PersonaID = id
	if goalCleared {
		next.GoalID = ""
	}
	next.Completed = false
	next.Touched = true

	return next, &Emission{
		Name: EventPersonaSelected,
		Payload: map[string]any{
			"persona_id":          string(id),
			"previous_persona_id": string(s.PersonaID),
			"goal_cleared":        goalCleared,
		},
	}, nil
}

func selectGoal(catalog *Catalog, s State, id GoalID) (State, *Emission, error) {
	if s.PersonaID == "" {
		return s, nil, lcerrors.WrapTransition("select_goal", string(id), ErrPersonaRequired)
	}
	if !catalog.HasGoal(s.PersonaID, id) {
		return s, nil, lcerrors.WrapTransition("select_goal", string(id), ErrGoalNotInCatalog)
	}

	next := s
	next.GoalID = id
	next.Completed = false
	next.Touched = true

	return next, &Emission{
		Name: EventGoalSelected,
		Payload: map[string]any{
			"persona_id":       string(s.PersonaID),
			"goal_id":          string(id),
			"previous_goal_id": string(s.GoalID),
		},
	}, nil
}

// hydrate applies session defaults once per sign-in, and only before the
// user has acted. Invalid parts of the defaults are dropped.
func hydrate(catalog *Catalog, s State, d SessionDefaults) State {
	if s.Touched || s.Hydrated || !s.empty() {
		return s
	}

	persona := PersonaID(strings.TrimSpace(d.PersonaID))
	if _, ok := catalog.Persona(persona); !ok {
		return s
	}

	next := s
	next.PersonaID = persona
	if goal := GoalID(strings.TrimSpace(d.GoalID)); catalog.HasGoal(persona, goal) {
		next.GoalID = goal
	}
	next.Hydrated = true
	return next
}

func complete(s State) (State, *Emission, error) {
	if s.PersonaID == "" || s.GoalID == "" {
		return s, nil, lcerrors.WrapTransition("complete", "", ErrPlanIncomplete)
	}
	if s.Completed {
		return s, nil, nil
	}

	next := s
	next.Completed = true
	next.Touched = true

	return next, &Emission{
		Name: EventPlanCompleted,
		Payload: map[string]any{
			"persona_id": string(s.PersonaID),
			"goal_id":    string(s.GoalID),
		},
	}, nil
}

func reset(s State) (State, *Emission, error) {
	if s.empty() {
		return s, nil, nil
	}

	next := State{Hydrated: s.Hydrated, Touched: true}
	return next, &Emission{
		Name: EventWizardCancelled,
		Payload: map[string]any{
			"previous_persona_id": string(s.PersonaID),
			"previous_goal_id":    string(s.GoalID),
			"was_completed":       s.Completed,
		},
	}, nil
}

package quickstart

import (
	"errors"
	"testing"

	lcerrors "github.com/leadforge/leadcore/internal/errors"
)

func TestState_Phase(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Phase
	}{
		{"zero", State{}, PhaseIdle},
		{"persona_only", State{PersonaID: PersonaAgent}, PhasePersonaSelected},
		{"persona_and_goal", State{PersonaID: PersonaAgent, GoalID: "agent-sphere"}, PhaseGoalSelected},
		{"completed", State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Completed: true}, PhaseCompleted},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Phase(); got != tt.want {
				t.Errorf("Phase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReduce_Transitions(t *testing.T) {
	catalog := DefaultCatalog()
	sphere := State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Touched: true}

	tests := []struct {
		name      string
		state     State
		action    Action
		want      State
		wantEvent string
		wantErr   error
	}{
		{
			name:      "select_persona_from_idle",
			action:    SelectPersona{PersonaID: PersonaInvestor},
			want:      State{PersonaID: PersonaInvestor, Touched: true},
			wantEvent: EventPersonaSelected,
		},
		{
			name:    "select_unknown_persona",
			state:   sphere,
			action:  SelectPersona{PersonaID: "developer"},
			want:    sphere,
			wantErr: ErrUnknownPersona,
		},
		{
			name:      "switching_persona_clears_foreign_goal",
			state:     sphere,
			action:    SelectPersona{PersonaID: PersonaLender},
			want:      State{PersonaID: PersonaLender, Touched: true},
			wantEvent: EventPersonaSelected,
		},
		{
			name:      "reselecting_persona_keeps_goal",
			state:     sphere,
			action:    SelectPersona{PersonaID: PersonaAgent},
			want:      sphere,
			wantEvent: EventPersonaSelected,
		},
		{
			name:      "select_persona_reopens_completed_plan",
			state:     State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Completed: true, Touched: true},
			action:    SelectPersona{PersonaID: PersonaAgent},
			want:      sphere,
			wantEvent: EventPersonaSelected,
		},
		{
			name:      "select_goal",
			state:     State{PersonaID: PersonaAgent, Touched: true},
			action:    SelectGoal{GoalID: "agent-expired"},
			want:      State{PersonaID: PersonaAgent, GoalID: "agent-expired", Touched: true},
			wantEvent: EventGoalSelected,
		},
		{
			name:    "select_goal_without_persona",
			action:  SelectGoal{GoalID: "agent-sphere"},
			want:    State{},
			wantErr: ErrPersonaRequired,
		},
		{
			name:    "select_goal_from_other_persona",
			state:   State{PersonaID: PersonaInvestor, Touched: true},
			action:  SelectGoal{GoalID: "agent-sphere"},
			want:    State{PersonaID: PersonaInvestor, Touched: true},
			wantErr: ErrGoalNotInCatalog,
		},
		{
			name:      "complete",
			state:     sphere,
			action:    Complete{},
			want:      State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Completed: true, Touched: true},
			wantEvent: EventPlanCompleted,
		},
		{
			name:    "complete_without_goal",
			state:   State{PersonaID: PersonaAgent, Touched: true},
			action:  Complete{},
			want:    State{PersonaID: PersonaAgent, Touched: true},
			wantErr: ErrPlanIncomplete,
		},
		{
			name:   "complete_twice_is_noop",
			state:  State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Completed: true, Touched: true},
			action: Complete{},
			want:   State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Completed: true, Touched: true},
		},
		{
			name:      "reset_keeps_hydration_lock",
			state:     State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Hydrated: true},
			action:    Reset{},
			want:      State{Hydrated: true, Touched: true},
			wantEvent: EventWizardCancelled,
		},
		{
			name:   "reset_idle_is_silent",
			state:  State{Touched: true},
			action: Reset{},
			want:   State{Touched: true},
		},
		{
			name:   "sign_out_rearms_hydration",
			state:  State{PersonaID: PersonaAgent, GoalID: "agent-sphere", Completed: true, Hydrated: true, Touched: true},
			action: SignOut{},
			want:   State{},
		},
		{
			name:    "nil_action",
			state:   sphere,
			action:  nil,
			want:    sphere,
			wantErr: ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, emission, err := Reduce(catalog, tt.state, tt.action)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("state = %+v, want %+v", got, tt.want)
			}

			switch {
			case tt.wantEvent == "" && emission != nil:
				t.Errorf("unexpected emission %q", emission.Name)
			case tt.wantEvent != "" && emission == nil:
				t.Errorf("expected emission %q, got none", tt.wantEvent)
			case tt.wantEvent != "" && emission.Name != tt.wantEvent:
				t.Errorf("emission = %q, want %q", emission.Name, tt.wantEvent)
			}
		})
	}
}

func TestReduce_ErrorCategories(t *testing.T) {
	catalog := DefaultCatalog()

	_, _, err := Reduce(catalog, State{}, SelectPersona{PersonaID: "developer"})
	if !lcerrors.IsValidationError(err) {
		t.Errorf("unknown persona should be a validation error, got %v", err)
	}

	_, _, err = Reduce(catalog, State{PersonaID: PersonaInvestor}, SelectGoal{GoalID: "agent-sphere"})
	if !lcerrors.IsTransitionError(err) {
		t.Errorf("foreign goal should be a transition error, got %v", err)
	}
}

func TestReduce_ResetIsIdempotent(t *testing.T) {
	catalog := DefaultCatalog()
	state := State{PersonaID: PersonaWholesaler, GoalID: "wholesaler-dispo", Touched: true}

	first, _, err := Reduce(catalog, state, Reset{})
	if err != nil {
		t.Fatal(err)
	}
	second, emission, err := Reduce(catalog, first, Reset{})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("second reset changed state: %+v -> %+v", first, second)
	}
	if first.PersonaID != "" || first.GoalID != "" {
		t.Errorf("reset left selection behind: %+v", first)
	}
	if emission != nil {
		t.Errorf("second reset emitted %q", emission.Name)
	}
}

func TestReduce_Hydration(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name     string
		state    State
		defaults SessionDefaults
		want     State
	}{
		{
			name:     "applies_persona_and_goal",
			defaults: SessionDefaults{PersonaID: "investor", GoalID: "investor-rental"},
			want:     State{PersonaID: PersonaInvestor, GoalID: "investor-rental", Hydrated: true},
		},
		{
			name:     "trims_input",
			defaults: SessionDefaults{PersonaID: " lender ", GoalID: "lender-purchase "},
			want:     State{PersonaID: PersonaLender, GoalID: "lender-purchase", Hydrated: true},
		},
		{
			name:     "foreign_goal_keeps_persona_only",
			defaults: SessionDefaults{PersonaID: "agent", GoalID: "lender-refi"},
			want:     State{PersonaID: PersonaAgent, Hydrated: true},
		},
		{
			name:     "unknown_persona_ignored",
			defaults: SessionDefaults{PersonaID: "developer", GoalID: "agent-sphere"},
			want:     State{},
		},
		{
			name:     "empty_defaults_ignored",
			defaults: SessionDefaults{},
			want:     State{},
		},
		{
			name:     "user_selection_wins",
			state:    State{PersonaID: PersonaWholesaler, Touched: true},
			defaults: SessionDefaults{PersonaID: "agent", GoalID: "agent-sphere"},
			want:     State{PersonaID: PersonaWholesaler, Touched: true},
		},
		{
			name:     "locked_after_reset",
			state:    State{Touched: true},
			defaults: SessionDefaults{PersonaID: "agent", GoalID: "agent-sphere"},
			want:     State{Touched: true},
		},
		{
			name:     "only_once",
			state:    State{Hydrated: true},
			defaults: SessionDefaults{PersonaID: "agent", GoalID: "agent-sphere"},
			want:     State{Hydrated: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, emission, err := Reduce(catalog, tt.state, HydrateFromSession{Defaults: tt.defaults})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if emission != nil {
				t.Errorf("hydration emitted %q", emission.Name)
			}
			if got != tt.want {
				t.Errorf("state = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReduce_HydrationAfterSelectPersona(t *testing.T) {
	catalog := DefaultCatalog()

	state, _, err := Reduce(catalog, State{}, SelectPersona{PersonaID: PersonaInvestor})
	if err != nil {
		t.Fatal(err)
	}
	state, _, _ = Reduce(catalog, state, Reset{})
	state, _, _ = Reduce(catalog, state, HydrateFromSession{Defaults: SessionDefaults{PersonaID: "agent", GoalID: "agent-sphere"}})

	if state.PersonaID != "" {
		t.Errorf("session defaults overrode user action: %+v", state)
	}

	state, _, _ = Reduce(catalog, state, SignOut{})
	state, _, _ = Reduce(catalog, state, HydrateFromSession{Defaults: SessionDefaults{PersonaID: "agent", GoalID: "agent-sphere"}})
	if state.GoalID != "agent-sphere" {
		t.Errorf("hydration not re-armed after sign-out: %+v", state)
	}
}

func TestReduce_EmissionPayloads(t *testing.T) {
	catalog := DefaultCatalog()
	state := State{PersonaID: PersonaAgent, GoalID: "agent-fsbo", Touched: true}

	_, emission, err := Reduce(catalog, state, SelectPersona{PersonaID: PersonaInvestor})
	if err != nil {
		t.Fatal(err)
	}
	if emission.Payload["previous_persona_id"] != "agent" || emission.Payload["goal_cleared"] != true {
		t.Errorf("persona payload = %v", emission.Payload)
	}

	_, emission, _ = Reduce(catalog, state, SelectGoal{GoalID: "agent-sphere"})
	if emission.Payload["previous_goal_id"] != "agent-fsbo" || emission.Payload["goal_id"] != "agent-sphere" {
		t.Errorf("goal payload = %v", emission.Payload)
	}

	_, emission, _ = Reduce(catalog, state, Reset{})
	if emission.Payload["previous_goal_id"] != "agent-fsbo" || emission.Payload["was_completed"] != false {
		t.Errorf("cancel payload = %v", emission.Payload)
	}
}

package quickstart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leadforge/leadcore/internal/analytics"
)

// Store holds one user's wizard state and serializes transitions.
type Store struct {
	mu        sync.Mutex
	catalog   *Catalog
	state     State
	sessionID string

	sink   analytics.Sink
	logger zerolog.Logger
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSink sends transition events to sink.
func WithSink(sink analytics.Sink) StoreOption {
	return func(s *Store) { s.sink = sink }
}

// WithLogger overrides the package logger.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithSessionID fixes the initial session id instead of generating one.
func WithSessionID(id string) StoreOption {
	return func(s *Store) { s.sessionID = id }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns a store in the initial state.
func NewStore(catalog *Catalog, opts ...StoreOption) *Store {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	s := &Store{
		catalog: catalog,
		logger:  log.With().Str("component", "quickstart").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the id stamped on emitted events.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Catalog returns the catalog the store validates against.
func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// Dispatch applies action and returns the resulting state. Analytics are
// delivered after the state is committed; their failures are only logged.
func (s *Store) Dispatch(ctx context.Context, action Action) (State, error) {
	s.mu.Lock()
	prev := s.state
	next, emission, err := Reduce(s.catalog, prev, action)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug().
			Err(err).
			Str("action", nameOf(action)).
			Msg("Wizard transition rejected")
		return prev, err
	}
	s.state = next
	sessionID := s.sessionID
	if _, ok := action.(SignOut); ok {
		s.sessionID = uuid.NewString()
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("action", nameOf(action)).
		Str("from", string(prev.Phase())).
		Str("to", string(next.Phase())).
		Str("session_id", sessionID).
		Msg("Wizard transition")

	if emission != nil {
		analytics.Capture(ctx, s.sink, analytics.Event{
			Name:       emission.Name,
			Payload:    emission.Payload,
			SessionID:  sessionID,
			OccurredAt: s.now().UTC(),
		})
	}
	return next, nil
}

func (s *Store) SelectPersona(ctx context.Context, id PersonaID) (State, error) {
	return s.Dispatch(ctx, SelectPersona{PersonaID: id})
}

func (s *Store) SelectGoal(ctx context.Context, id GoalID) (State, error) {
	return s.Dispatch(ctx, SelectGoal{GoalID: id})
}

func (s *Store) HydrateFromSession(ctx context.Context, defaults SessionDefaults) (State, error) {
	return s.Dispatch(ctx, HydrateFromSession{Defaults: defaults})
}

func (s *Store) Complete(ctx context.Context) (State, error) {
	return s.Dispatch(ctx, Complete{})
}

func (s *Store) Reset(ctx context.Context) (State, error) {
	return s.Dispatch(ctx, Reset{})
}

// SignOut clears the state and starts a new analytics session id.
func (s *Store) SignOut(ctx context.Context) (State, error) {
	return s.Dispatch(ctx, SignOut{})
}

func nameOf(action Action) string {
	if action == nil {
		return "nil"
	}
	return action.actionName()
}

package wizard

import (
	"encoding/json"
	"fmt"
)

// Session is the per-user wizard state bundle: the entity store, the
// step navigator for the chain being edited, and the active step's
// field errors. It is owned by the top-level controller and passed
// explicitly; there is no package-level state.
type Session struct {
	workflows *WorkflowSet

	store          Store
	nav            *Navigator
	currentChainID string
	fieldErrors    FieldErrors
}

// NewSession starts a session before any chain exists. The navigator
// sits on the first step of the default (first-defined) workflow until
// BeginChain fixes the real sequence.
func NewSession(ws *WorkflowSet) (*Session, error) {
	types := ws.Types()
	if len(types) == 0 {
		return nil, fmt.Errorf("workflow set has no types")
	}
	steps, _ := ws.StepsFor(types[0])
	nav, err := NewNavigator(steps)
	if err != nil {
		return nil, err
	}
	return &Session{
		workflows:   ws,
		store:       NewStore(),
		nav:         nav,
		fieldErrors: FieldErrors{},
	}, nil
}

// Workflows returns the workflow table the session was built with.
func (s *Session) Workflows() *WorkflowSet { return s.workflows }

// Store returns the current store value. Callers may hold onto it;
// reductions replace the session's copy rather than patching it.
func (s *Session) Store() Store { return s.store }

// CurrentChainID returns the chain being edited, or "".
func (s *Session) CurrentChainID() string { return s.currentChainID }

// CurrentChain returns the chain being edited.
func (s *Session) CurrentChain() (Chain, bool) {
	if s.currentChainID == "" {
		return Chain{}, false
	}
	return s.store.Chain(s.currentChainID)
}

// Step returns the active wizard step.
func (s *Session) Step() Step { return s.nav.Current() }

// Steps returns the active workflow's step sequence.
func (s *Session) Steps() []Step { return s.nav.Steps() }

// FieldErrors returns the active step's validation errors.
func (s *Session) FieldErrors() FieldErrors { return s.fieldErrors }

// SetFieldErrors records a failed submit for the active step.
func (s *Session) SetFieldErrors(errs FieldErrors) {
	if errs == nil {
		errs = FieldErrors{}
	}
	s.fieldErrors = errs
}

// Dispatch reduces an action into the store. On error the store is
// untouched and the error is returned for the form to surface.
func (s *Session) Dispatch(action Action) error {
	next, err := Reduce(s.store, action)
	if err != nil {
		return err
	}
	s.store = next
	return nil
}

// BeginChain creates a new chain and points the navigator at its
// type's workflow, already past the NAME step. This is the NAME step's
// commit: validate → dispatch → advance, in one place.
func (s *Session) BeginChain(name, chainType string) (string, error) {
	if errs := ValidateChainBasics(s.workflows, name, chainType); len(errs) > 0 {
		s.fieldErrors = errs
		return "", &ValidationError{Fields: errs}
	}
	id := NewID()
	if err := s.Dispatch(AddChain{ID: id, Name: name, Type: chainType}); err != nil {
		return "", err
	}
	steps, _ := s.workflows.StepsFor(chainType)
	nav, err := NewNavigator(steps)
	if err != nil {
		return "", err
	}
	s.nav = nav
	s.currentChainID = id
	s.fieldErrors = FieldErrors{}
	s.nav.Advance()
	return id, nil
}

// DiscardChain removes the current chain (cascading to its nodes and
// repositories) and rewinds to a fresh NAME step.
func (s *Session) DiscardChain() error {
	if s.currentChainID == "" {
		return &UnknownEntityError{Entity: "chain", ID: ""}
	}
	if err := s.Dispatch(RemoveChain{ID: s.currentChainID}); err != nil {
		return err
	}
	return s.startOver()
}

// FinishChain closes editing of the current chain and rewinds to a
// fresh NAME step so another chain can be entered. Only legal from the
// review step.
func (s *Session) FinishChain() error {
	if s.Step() != StepReview {
		return fmt.Errorf("finish chain: not on review step")
	}
	return s.startOver()
}

func (s *Session) startOver() error {
	types := s.workflows.Types()
	steps, _ := s.workflows.StepsFor(types[0])
	nav, err := NewNavigator(steps)
	if err != nil {
		return err
	}
	s.nav = nav
	s.currentChainID = ""
	s.fieldErrors = FieldErrors{}
	return nil
}

// Advance moves forward only when the active step has no validation
// errors. Returns false on the terminal step or when errors remain.
func (s *Session) Advance() bool {
	if len(s.fieldErrors) > 0 {
		return false
	}
	if !s.nav.Advance() {
		return false
	}
	s.fieldErrors = FieldErrors{}
	return true
}

// Retreat moves backward. Always allowed; entered data stays put.
func (s *Session) Retreat() bool {
	if !s.nav.Retreat() {
		return false
	}
	s.fieldErrors = FieldErrors{}
	return true
}

// JumpTo navigates directly to an already-validated step.
func (s *Session) JumpTo(step Step) error {
	if err := s.nav.JumpTo(step); err != nil {
		return err
	}
	s.fieldErrors = FieldErrors{}
	return nil
}

// ---------------------------------------------------------------------------
// Snapshots (draft save/resume)
// ---------------------------------------------------------------------------

type sessionDoc struct {
	Store          Store  `json:"store"`
	CurrentChainID string `json:"currentChainId,omitempty"`
	Steps          []Step `json:"steps"`
	StepIndex      int    `json:"stepIndex"`
	HighestIndex   int    `json:"highestIndex"`
}

// Snapshot serializes the session for draft persistence. Field errors
// are transient and not part of a snapshot.
func (s *Session) Snapshot() ([]byte, error) {
	return json.Marshal(sessionDoc{
		Store:          s.store,
		CurrentChainID: s.currentChainID,
		Steps:          s.nav.steps,
		StepIndex:      s.nav.idx,
		HighestIndex:   s.nav.highest,
	})
}

// RestoreSession rebuilds a session from a snapshot.
func RestoreSession(ws *WorkflowSet, data []byte) (*Session, error) {
	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	nav, err := NewNavigator(doc.Steps)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if doc.StepIndex < 0 || doc.StepIndex >= len(doc.Steps) {
		return nil, fmt.Errorf("restore session: step index %d out of range", doc.StepIndex)
	}
	if doc.HighestIndex < doc.StepIndex || doc.HighestIndex >= len(doc.Steps) {
		return nil, fmt.Errorf("restore session: highest index %d out of range", doc.HighestIndex)
	}
	nav.idx = doc.StepIndex
	nav.highest = doc.HighestIndex
	if doc.CurrentChainID != "" {
		if _, ok := doc.Store.Chain(doc.CurrentChainID); !ok {
			return nil, &UnknownEntityError{Entity: "chain", ID: doc.CurrentChainID}
		}
	}
	return &Session{
		workflows:      ws,
		store:          doc.Store,
		nav:            nav,
		currentChainID: doc.CurrentChainID,
		fieldErrors:    FieldErrors{},
	}, nil
}

package coach

import (
	"errors"
	"sync"
)

// ActionState is the confirmation lifecycle of one pending action.
type ActionState string

const (
	StatePending   ActionState = "pending"
	StateConfirmed ActionState = "confirmed"
	StateCancelled ActionState = "cancelled"
	StateSucceeded ActionState = "completed_success"
	StateFailed    ActionState = "completed_failure"
)

// ErrInvalidTransition is returned for any transition the lifecycle does
// not allow. No state is ever revisited and there is no retry transition; a
// failed execution is terminal and the user must issue a new request.
var ErrInvalidTransition = errors.New("invalid action state transition")

// allowedTransitions encodes Pending -> Confirmed -> Completed, with
// cancellation only from Pending.
var allowedTransitions = map[ActionState][]ActionState{
	StatePending:   {StateConfirmed, StateCancelled},
	StateConfirmed: {StateSucceeded, StateFailed},
	StateCancelled: nil,
	StateSucceeded: nil,
	StateFailed:    nil,
}

// Tracker tracks the confirmation state of one message's pending action,
// independent of any rendering concern.
type Tracker struct {
	mu    sync.Mutex
	state ActionState
}

// NewTracker returns a tracker in the Pending state.
func NewTracker() *Tracker {
	return &Tracker{state: StatePending}
}

// State returns the current state.
func (t *Tracker) State() ActionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Confirm records the user accepting the action.
func (t *Tracker) Confirm() error {
	return t.transition(StateConfirmed)
}

// Cancel records the user declining the action. Terminal.
func (t *Tracker) Cancel() error {
	return t.transition(StateCancelled)
}

// Complete records the outcome of executing a confirmed action. Terminal.
func (t *Tracker) Complete(success bool) error {
	if success {
		return t.transition(StateSucceeded)
	}
	return t.transition(StateFailed)
}

// Terminal reports whether no further transition is possible.
func (t *Tracker) Terminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(allowedTransitions[t.state]) == 0
}

func (t *Tracker) transition(to ActionState) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, allowed := range allowedTransitions[t.state] {
		if allowed == to {
			t.state = to
			return nil
		}
	}
	return ErrInvalidTransition
}

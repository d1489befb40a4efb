// Package lifecycle drives one run from the backtest through the live
// session and reports it.
package lifecycle

import (
	"sync"

	"github.com/rxtech-lab/argo-sweep/pkg/errors"
)

// State is a phase of a run.
type State string

const (
	StateIdle        State = "IDLE"
	StateBacktesting State = "BACKTESTING"
	StateLivePolling State = "LIVE_POLLING"
	StateDone        State = "DONE"
	StateAborted     State = "ABORTED"
)

var transitions = map[State][]State{
	StateIdle:        {StateBacktesting},
	StateBacktesting: {StateLivePolling, StateDone, StateAborted},
	StateLivePolling: {StateDone, StateAborted},
}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateAborted
}

// Machine tracks the state of a run and rejects illegal moves.
type Machine struct {
	mu      sync.Mutex
	state   State
	history []State
}

// NewMachine starts in StateIdle.
func NewMachine() *Machine {
	return &Machine{
		mu:      sync.Mutex{},
		state:   StateIdle,
		history: []State{StateIdle},
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// History returns every state entered so far, oldest first.
func (m *Machine) History() []State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]State(nil), m.history...)
}

// Transition moves to next.
func (m *Machine) Transition(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			m.history = append(m.history, next)

			return nil
		}
	}

	return errors.Newf(errors.ErrCodeInvalidTransition, "cannot move from %s to %s", m.state, next)
}

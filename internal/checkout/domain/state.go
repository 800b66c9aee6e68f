package domain

import (
	"errors"
	"fmt"
)

type State string

const (
	StateLoading                 State = "loading"
	StateReady                   State = "ready"
	StateSubmitting              State = "submitting"
	StateAwaitingExternalPayment State = "awaiting_external_payment"
	StateSuccess                 State = "success"
	StateFailed                  State = "failed"
)

type Event string

const (
	// EventReload re-enters Loading when the screen regains focus.
	EventReload     Event = "reload"
	EventLoaded     Event = "loaded"
	EventSubmit     Event = "submit"
	EventRedirected Event = "redirected"
	EventPlaced     Event = "placed"
	EventFail       Event = "fail"
)

var ErrIllegalTransition = errors.New("illegal checkout transition")

var transitions = map[State]map[Event]State{
	StateLoading: {
		EventLoaded: StateReady,
		EventFail:   StateFailed,
	},
	StateReady: {
		EventReload: StateLoading,
		EventSubmit: StateSubmitting,
	},
	StateSubmitting: {
		EventRedirected: StateAwaitingExternalPayment,
		EventPlaced:     StateSuccess,
		EventFail:       StateFailed,
	},
	StateAwaitingExternalPayment: {
		EventPlaced: StateSuccess,
		EventFail:   StateFailed,
	},
	StateSuccess: {
		EventReload: StateLoading,
	},
	StateFailed: {
		EventReload: StateLoading,
		// manual retry
		EventSubmit: StateSubmitting,
	},
}

// Transition is the only way checkout state changes.
func Transition(s State, e Event) (State, error) {
	next, ok := transitions[s][e]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, e, s)
	}
	return next, nil
}

// Terminal reports whether s ends a checkout attempt.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

package checkout

import "errors"

// State is the per-session checkout phase. A session with no stored record is
// in StateIdle.
type State string

// Checkout phases.
const (
	StateIdle            State = "IDLE"
	StateCreating        State = "CREATING"
	StateAwaitingGateway State = "AWAITING_GATEWAY"
	StateVerifying       State = "VERIFYING"
	StateSettled         State = "SETTLED"
	StateFailed          State = "FAILED"
)

// Checkout flow errors.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCheckoutInProgress   = errors.New("checkout already in progress")
	ErrCheckoutFailed       = errors.New("checkout failed verification")
	ErrNoActiveCheckout     = errors.New("no active checkout")
	ErrOrderMismatch        = errors.New("order id does not match active checkout")
	ErrInvalidTransition    = errors.New("invalid checkout state transition")
	ErrVerificationMismatch = errors.New("payment signature verification failed")
)

var transitions = map[State][]State{
	StateIdle:            {StateCreating},
	StateCreating:        {StateAwaitingGateway, StateIdle},
	StateAwaitingGateway: {StateVerifying, StateIdle},
	StateVerifying:       {StateSettled, StateFailed},
	// StateSettled has no outgoing edges: settling deletes the record,
	// which puts the session back at StateIdle.
	// StateFailed is terminal until support intervenes.
}

// CanTransition reports whether moving from one phase to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

package domain

import "fmt"

// ActionDescriptor is one legal next step for a viewer. It is derived from
// (state, role) on demand and never stored.
type ActionDescriptor struct {
	Label                string
	TargetState          TransactionState
	RequiresConfirmation bool
	Prompt               string
}

// Cancels reports whether the action abandons the transaction rather than
// moving it forward.
func (a ActionDescriptor) Cancels() bool {
	return a.TargetState == StateCanceled
}

// ProgressActions drops cancellation from actions.
func ProgressActions(actions []ActionDescriptor) []ActionDescriptor {
	out := make([]ActionDescriptor, 0, len(actions))
	for _, action := range actions {
		if !action.Cancels() {
			out = append(out, action)
		}
	}
	return out
}

type transitionRule struct {
	target TransactionState
	label  string
	prompt string
}

var (
	requestReservation = transitionRule{StateRequested, "Request reservation", "Send a reservation request to the provider?"}
	acceptRequest      = transitionRule{StateRequestAccepted, "Accept request", "Accept this request?"}
	payService         = transitionRule{StatePrepaid, "Proceed to payment", "Confirm the payment for this service?"}
	confirmReceipt     = transitionRule{StateClientConfirmed, "Confirm receipt", "Confirm you received the service?"}
	confirmDelivery    = transitionRule{StateProviderConfirmed, "Confirm delivery", "Confirm you delivered the service?"}
	cancelTransaction  = transitionRule{StateCanceled, "Cancel transaction", "Are you sure you want to cancel this transaction?"}
)

// lifecycle is the single source of truth for who may move a transaction
// where. Cancellation is added for every open state by rulesFor.
var lifecycle = map[TransactionState]map[Role][]transitionRule{
	StateExchanging: {
		RoleClient: {requestReservation},
	},
	StateRequested: {
		RoleProvider: {acceptRequest},
	},
	StateRequestAccepted: {
		RoleClient: {payService},
	},
	StatePrepaid: {
		RoleClient:   {confirmReceipt},
		RoleProvider: {confirmDelivery},
	},
	StateClientConfirmed: {
		RoleProvider: {confirmDelivery},
	},
	StateProviderConfirmed: {
		RoleClient: {confirmReceipt},
	},
}

func rulesFor(state TransactionState, role Role) []transitionRule {
	if state.Closed() || !state.Valid() {
		return nil
	}
	if role != RoleClient && role != RoleProvider {
		return nil
	}

	rules := append([]transitionRule(nil), lifecycle[state][role]...)
	return append(rules, cancelTransaction)
}

// LegalActions lists what role may do from state, in display order.
func LegalActions(state TransactionState, role Role) []ActionDescriptor {
	rules := rulesFor(state, role)
	actions := make([]ActionDescriptor, 0, len(rules))
	for _, rule := range rules {
		actions = append(actions, ActionDescriptor{
			Label:                rule.label,
			TargetState:          rule.target,
			RequiresConfirmation: true,
			Prompt:               rule.prompt,
		})
	}
	return actions
}

// ValidateTransition checks a requested move against the lifecycle table.
// The returned error wraps ErrTransitionRejected.
func ValidateTransition(state TransactionState, role Role, target TransactionState) error {
	for _, rule := range rulesFor(state, role) {
		if rule.target == target {
			return nil
		}
	}

	if state.Closed() {
		return fmt.Errorf("%w: transaction is %s", ErrTransitionRejected, state)
	}
	return fmt.Errorf("%w: %s may not move %s to %s", ErrTransitionRejected, role, state, target)
}

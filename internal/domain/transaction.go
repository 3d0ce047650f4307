package domain

import (
	"fmt"
	"time"
)

type TransactionID int64

type TransactionState string

const (
	StateExchanging        TransactionState = "EXCHANGING"
	StateRequested         TransactionState = "REQUESTED"
	StateRequestAccepted   TransactionState = "REQUEST_ACCEPTED"
	StatePrepaid           TransactionState = "PREPAID"
	StateClientConfirmed   TransactionState = "CLIENT_CONFIRMED"
	StateProviderConfirmed TransactionState = "PROVIDER_CONFIRMED"
	StateDoubleConfirmed   TransactionState = "DOUBLE_CONFIRMED"
	StateFinishedAndPayed  TransactionState = "FINISHED_AND_PAYED"
	StateCanceled          TransactionState = "CANCELED"
)

// AllStates lists every state in lifecycle order.
var AllStates = []TransactionState{
	StateExchanging,
	StateRequested,
	StateRequestAccepted,
	StatePrepaid,
	StateClientConfirmed,
	StateProviderConfirmed,
	StateDoubleConfirmed,
	StateFinishedAndPayed,
	StateCanceled,
}

var stateLabels = map[TransactionState]string{
	StateExchanging:        "Exchanging",
	StateRequested:         "Request sent",
	StateRequestAccepted:   "Request accepted",
	StatePrepaid:           "Prepaid",
	StateClientConfirmed:   "Confirmed by client",
	StateProviderConfirmed: "Confirmed by provider",
	StateDoubleConfirmed:   "Double confirmed",
	StateFinishedAndPayed:  "Finished and paid",
	StateCanceled:          "Canceled",
}

func (s TransactionState) Valid() bool {
	_, ok := stateLabels[s]
	return ok
}

// Terminal reports whether no transition of any kind can leave s.
func (s TransactionState) Terminal() bool {
	return s == StateFinishedAndPayed || s == StateCanceled
}

// Closed reports whether neither party may act in s. DOUBLE_CONFIRMED is
// closed but not terminal: the server settles it into FINISHED_AND_PAYED.
func (s TransactionState) Closed() bool {
	return s == StateDoubleConfirmed || s.Terminal()
}

func (s TransactionState) Label() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return string(s)
}

type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

type Transaction struct {
	ID                TransactionID
	State             TransactionState
	ServiceID         int64
	ClientID          string
	ProviderID        string
	CreatedAt         time.Time
	RequestAcceptedAt *time.Time
	FinishedAt        *time.Time
}

// RoleOf resolves which side of the transaction subject is on.
func (t Transaction) RoleOf(subject string) (Role, bool) {
	switch {
	case subject == "":
		return "", false
	case subject == t.ClientID:
		return RoleClient, true
	case subject == t.ProviderID:
		return RoleProvider, true
	default:
		return "", false
	}
}

// Counterpart returns the identity reference of the other party.
func (t Transaction) Counterpart(role Role) string {
	if role == RoleClient {
		return t.ProviderID
	}
	return t.ClientID
}

func (t Transaction) Validate() error {
	if !t.State.Valid() {
		return fmt.Errorf("transaction %d: unknown state %q", t.ID, t.State)
	}
	if t.State.Terminal() && t.FinishedAt == nil {
		return fmt.Errorf("transaction %d: state %s requires a finish time", t.ID, t.State)
	}
	if !t.State.Terminal() && t.FinishedAt != nil {
		return fmt.Errorf("transaction %d: state %s must not carry a finish time", t.ID, t.State)
	}
	return nil
}

// MilestoneCount is the number of optional lifecycle timestamps already set.
func (t Transaction) MilestoneCount() int {
	n := 0
	if t.RequestAcceptedAt != nil {
		n++
	}
	if t.FinishedAt != nil {
		n++
	}
	return n
}

// LatestMilestone is the most recent lifecycle timestamp known for t.
func (t Transaction) LatestMilestone() time.Time {
	latest := t.CreatedAt
	for _, at := range []*time.Time{t.RequestAcceptedAt, t.FinishedAt} {
		if at != nil && at.After(latest) {
			latest = *at
		}
	}
	return latest
}

// NewerThan reports whether t carries lifecycle evidence strictly ahead of
// other: a milestone other lacks, or a later finish time.
func (t Transaction) NewerThan(other Transaction) bool {
	if t.MilestoneCount() != other.MilestoneCount() {
		return t.MilestoneCount() > other.MilestoneCount()
	}
	if t.FinishedAt != nil && other.FinishedAt != nil {
		return t.FinishedAt.After(*other.FinishedAt)
	}
	return false
}

// CarryMilestones copies milestone timestamps from prev that t lacks, so an
// applied snapshot never clears or rewinds a timestamp already observed.
func (t Transaction) CarryMilestones(prev Transaction) Transaction {
	if prev.ID != t.ID {
		return t
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = prev.CreatedAt
	}
	if prev.RequestAcceptedAt != nil && (t.RequestAcceptedAt == nil || t.RequestAcceptedAt.Before(*prev.RequestAcceptedAt)) {
		t.RequestAcceptedAt = prev.RequestAcceptedAt
	}
	if prev.FinishedAt != nil && t.FinishedAt != nil && t.FinishedAt.Before(*prev.FinishedAt) {
		t.FinishedAt = prev.FinishedAt
	}
	return t
}

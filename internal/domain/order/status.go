package order

import "fmt"

// Status enumerates order lifecycle states. Order items share the same set;
// status cascades force child items onto the order's state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusServed     Status = "SERVED"
	StatusPaid       Status = "PAID"
	StatusCancelled  Status = "CANCELLED"
)

// rank orders the forward progression of active states. PAID sits at the top
// so settlement can promote any active order directly.
var rank = map[Status]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusReady:      2,
	StatusServed:     3,
	StatusPaid:       4,
}

// ParseStatus validates a raw status value against the enumerated set.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusInProgress, StatusReady, StatusServed, StatusPaid, StatusCancelled:
		return s, nil
	default:
		return "", &InvalidStatusError{Value: raw}
	}
}

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Active reports whether an order in this state still occupies kitchen and
// table resources.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusServed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the transition s -> next is allowed.
// Active states progress forward only (skipping intermediate states is
// fine); CANCELLED is reachable from any active state; PAID and CANCELLED
// are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return rank[next] > rank[s]
}

// Type enumerates how an order is fulfilled.
type Type string

const (
	TypeDineIn   Type = "DINE_IN"
	TypeTakeaway Type = "TAKEAWAY"
	TypeDelivery Type = "DELIVERY"
)

// ParseType validates a raw order type. An empty value defaults to DINE_IN.
func ParseType(raw string) (Type, error) {
	if raw == "" {
		return TypeDineIn, nil
	}
	switch t := Type(raw); t {
	case TypeDineIn, TypeTakeaway, TypeDelivery:
		return t, nil
	default:
		return "", fmt.Errorf("invalid order type %q", raw)
	}
}

package order

import "errors"

// Order statuses in forward-only progression order.
const (
	StatusPlaced         = "Placed"
	StatusAccepted       = "Accepted"
	StatusBeingPrepared  = "Being Prepared"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCompleted      = "Completed"
)

var statusRank = map[string]int{
	StatusPlaced:         0,
	StatusAccepted:       1,
	StatusBeingPrepared:  2,
	StatusOutForDelivery: 3,
	StatusDelivered:      4,
	StatusCompleted:      5,
}

var (
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrTerminalStatus     = errors.New("order is in a terminal status")
	ErrBackwardTransition = errors.New("order status cannot move backward")
)

// IsTerminal reports whether no further transitions are permitted.
func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusCompleted
}

// CanTransition validates an admin-requested status change. Any forward
// value is accepted, skipping intermediate states; terminal states reject
// everything.
func CanTransition(current, next string) error {
	curRank, ok := statusRank[current]
	if !ok {
		return ErrUnknownStatus
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return ErrUnknownStatus
	}
	if IsTerminal(current) {
		return ErrTerminalStatus
	}
	if nextRank <= curRank {
		return ErrBackwardTransition
	}
	return nil
}

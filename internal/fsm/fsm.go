package fsm

// Status constants used by the booking state machine.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

var transitions = map[string]map[string]struct{}{
	StatusPending: {
		StatusConfirmed: {},
		StatusCancelled: {},
	},
	StatusConfirmed: {
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// IsValidStatus reports whether the value is one of the known booking statuses.
func IsValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition returns whether a booking can move from the current status to
// the target status.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

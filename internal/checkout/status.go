package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusValidating Status = "VALIDATING"
	StatusCommitted  Status = "COMMITTED"
	StatusRejected   Status = "REJECTED"
)

// CanTransitionTo reports whether the workflow may move from s to next.
// Both terminal states route back to IDLE, so the machine can run again.
func CanTransitionTo(s, next Status) bool {
	switch s {
	case StatusIdle:
		return next == StatusValidating
	case StatusValidating:
		return next == StatusCommitted || next == StatusRejected
	case StatusCommitted, StatusRejected:
		return next == StatusIdle
	default:
		return false
	}
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

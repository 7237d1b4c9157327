package forms

import "fmt"

// ControlStatus represents the validation state of a control.
//
// A control moves between statuses as values change and validators run:
//
//	            sync validators fail
//	Valid ────────────────────────────► Invalid
//	  │                                    ▲
//	  │ async validators launched          │ async result applied
//	  └──────────────► Pending ────────────┘
//
// Disabled is exempt from validation entirely: a disabled control reports
// no errors and is excluded from its parent's aggregate value and status.
type ControlStatus int

const (
	// StatusValid means the control has passed all validation checks.
	StatusValid ControlStatus = iota
	// StatusInvalid means the control has failed at least one validation check.
	StatusInvalid
	// StatusPending means asynchronous validation is in flight.
	StatusPending
	// StatusDisabled means the control is exempt from validation.
	StatusDisabled
)

// String returns a human-readable representation of the control status.
func (s ControlStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusPending:
		return "pending"
	case StatusDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("ControlStatus(%d)", int(s))
	}
}

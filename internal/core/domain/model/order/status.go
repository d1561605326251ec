package order

import (
	"fmt"

	"sweetdelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions so that
// orders follow the delivery workflow.
//
// State transitions:
//
//	Unassigned ──> Assigned ──> Completed
//	     ^            │
//	     └────────────┘
//	  (profile change revalidation)
//
// Status is persisted as its integer value.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Unassigned is the initial status of a new order and the status an
	// order returns to when its courier can no longer carry it.
	Unassigned

	// Assigned indicates the order belongs to a courier's current batch.
	Assigned

	// Completed indicates the order has been delivered.
	// This is a final state with no further transitions allowed.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Unassigned: "unassigned",
		Assigned:   "assigned",
		Completed:  "completed",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Unassigned, Assigned, Completed}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Unassigned, Assigned, Completed.
// Unknown (0) and any other values are invalid. It is used on values
// coming from storage before they are trusted.
func (s Status) Validate() error {
	if s < Unassigned || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lower-case name of the status, "unknown" for invalid values.
//
// Example:
//
//	fmt.Println(order.Status()) // Output: "assigned"
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateCanHaveCourier validates the consistency between order status and courier assignment.
//
// Business Rules:
//   - Unassigned orders must not have a courier
//   - Assigned and Completed orders must have a courier
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && s != Assigned && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	if !courier && (s == Assigned || s == Completed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	return nil
}

// Assign transitions Unassigned to Assigned.
//
// Returns:
//   - (Assigned, nil) on valid transition
//   - (0, error) for any other current status
func (s Status) Assign() (Status, error) {
	if s != Unassigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to assign", s),
		)
	}
	return Assigned, nil
}

// Unassign transitions Assigned back to Unassigned.
// Completed orders are never taken back.
func (s Status) Unassign() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to unassign", s),
		)
	}
	return Unassigned, nil
}

// Complete transitions Assigned to Completed.
//
// Returns ErrNotAssignedYet for Unassigned orders and ErrAlreadyCompleted
// for Completed ones, so callers can report the reason.
func (s Status) Complete() (Status, error) {
	switch s {
	case Assigned:
		return Completed, nil
	case Unassigned:
		return 0, ErrNotAssignedYet
	case Completed:
		return 0, ErrAlreadyCompleted
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to complete", s),
		)
	}
}

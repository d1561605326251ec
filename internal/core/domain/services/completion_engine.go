package services

import (
	"fmt"
	"time"

	"sweetdelivery/internal/core/domain/model/order"
)

// CompletionEngine completes assigned orders.
//
// In strict mode a completion time earlier than the order's assignment time is
// rejected with order.ErrCompletionBeforeAssignment. Otherwise it is accepted
// and reported to the caller as backdated.
type CompletionEngine struct {
	strict bool
}

// NewCompletionEngine creates a CompletionEngine; strict enables the
// completion-after-assignment check.
func NewCompletionEngine(strict bool) CompletionEngine {
	return CompletionEngine{strict: strict}
}

// Complete marks o delivered by courierID at finishedAt.
//
// Returns:
//   - backdated: finishedAt precedes the assignment time (permissive mode only)
//   - error: order.ErrNotAssignedYet, order.ErrAssignedToOtherCourier,
//     order.ErrAlreadyCompleted or, in strict mode, order.ErrCompletionBeforeAssignment
func (e CompletionEngine) Complete(o *order.Order, courierID int64, finishedAt time.Time) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	backdated := o.IsAssignedTo(courierID) && finishedAt.Before(*o.DateAssigned())
	if backdated && e.strict {
		return false, fmt.Errorf("order %d: %w", o.ID(), order.ErrCompletionBeforeAssignment)
	}

	if err := o.Complete(courierID, finishedAt); err != nil {
		return false, err
	}

	return backdated, nil
}

package commands

import (
	"context"
	"time"

	"sweetdelivery/internal/core/domain/services"
	"sweetdelivery/internal/core/ports"
	"sweetdelivery/internal/pkg/metrics"
)

// AssignOrdersResult is the courier's current load after an assignment.
type AssignOrdersResult struct {
	// OrderIDs are the previously held orders followed by the new ones.
	OrderIDs []int64
	// AssignedAt is nil when no order was accepted.
	AssignedAt *time.Time
}

// AssignOrdersCommandHandler runs the assignment engine for one courier and
// persists the accepted orders.
//
// Example:
//
//	handler := NewAssignOrdersCommandHandler(uowFactory, storeLock, commands.SystemClock, dispatchMetrics)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    log.Println("Unknown courier")
//	case err != nil:
//	    log.Printf("Assignment failed: %v", err)
//	default:
//	    log.Printf("Courier carries %v", result.OrderIDs)
//	}
type AssignOrdersCommandHandler struct {
	uowFactory UoWFactory
	lock       ports.StoreLock
	clock      Clock
	engine     services.AssignmentEngine
	metrics    *metrics.DispatchMetrics
}

// NewAssignOrdersCommandHandler creates a handler for order assignment.
// clock stamps each accepted batch.
func NewAssignOrdersCommandHandler(
	uowFactory UoWFactory,
	lock ports.StoreLock,
	clock Clock,
	m *metrics.DispatchMetrics,
) AssignOrdersCommandHandler {
	return AssignOrdersCommandHandler{
		uowFactory: uowFactory,
		lock:       lock,
		clock:      clock,
		engine:     services.NewAssignmentEngine(),
		metrics:    m,
	}
}

// Handle assigns orders to the command's courier.
// When nothing fits the result is empty and the store is left untouched.
func (h AssignOrdersCommandHandler) Handle(ctx context.Context, cmd AssignOrdersCommand) (AssignOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignOrdersResult{}, err
	}

	release, err := h.lock.Acquire(ctx)
	if err != nil {
		return AssignOrdersResult{}, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()

	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	assigned, err := orderRepo.GetAssignedToCourier(ctx, c.ID())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	candidates, err := orderRepo.GetUnassignedInRegions(ctx, c.Regions())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	assignment, err := h.engine.Assign(c, assigned, candidates, h.clock())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	if len(assignment.Accepted) == 0 {
		return AssignOrdersResult{OrderIDs: assignment.OrderIDs}, nil
	}

	for _, o := range assignment.Accepted {
		if err := orderRepo.Update(ctx, o); err != nil {
			return AssignOrdersResult{}, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	h.metrics.AddAssigned(len(assignment.Accepted))

	return AssignOrdersResult{
		OrderIDs:   assignment.OrderIDs,
		AssignedAt: assignment.AssignedAt,
	}, nil
}

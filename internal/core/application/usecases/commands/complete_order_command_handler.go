package commands

import (
	"context"

	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/core/domain/services"
	"sweetdelivery/internal/core/ports"
	"sweetdelivery/internal/pkg/logger"
	"sweetdelivery/internal/pkg/metrics"
)

// CompleteOrderCommandHandler moves an assigned order to completed.
//
// In permissive mode a completion time before the assignment time is stored
// as given and logged as a warning. In strict mode it is rejected with
// order.ErrCompletionBeforeAssignment.
type CompleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	lock       ports.StoreLock
	engine     services.CompletionEngine
	logger     *logger.Logger
	metrics    *metrics.DispatchMetrics
}

// NewCompleteOrderCommandHandler creates a handler for order completion.
func NewCompleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	lock ports.StoreLock,
	strict bool,
	log *logger.Logger,
	m *metrics.DispatchMetrics,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		lock:       lock,
		engine:     services.NewCompletionEngine(strict),
		logger:     log,
		metrics:    m,
	}
}

// Handle completes the order and returns its id.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	release, err := h.lock.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}

	backdated, err := h.engine.Complete(o, cmd.CourierID(), cmd.CompleteTime())
	if err != nil {
		return 0, err
	}

	if err := orderRepo.Update(ctx, o); err != nil {
		return 0, err
	}

	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.metrics.IncCompleted()
	if backdated {
		logCtx := h.logger.WithFields(ctx, map[string]any{
			"order_id":      o.ID(),
			"courier_id":    cmd.CourierID(),
			"assign_time":   kernel.FormatTimestamp(*o.DateAssigned()),
			"complete_time": kernel.FormatTimestamp(cmd.CompleteTime()),
		})
		h.logger.Warn(logCtx, "order completed before it was assigned")
	}

	return o.ID(), nil
}

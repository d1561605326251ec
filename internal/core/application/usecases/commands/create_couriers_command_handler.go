package commands

import (
	"context"

	"sweetdelivery/internal/core/ports"
)

// CreateCouriersCommandHandler registers a batch of couriers in one transaction.
//
// Example:
//
//	handler := NewCreateCouriersCommandHandler(uowFactory, storeLock)
//	ids, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectAlreadyExists) {
//	    // nothing of the batch was stored
//	}
type CreateCouriersCommandHandler struct {
	uowFactory CourierUoWFactory
	lock       ports.StoreLock
}

// NewCreateCouriersCommandHandler creates a handler for bulk courier registration.
func NewCreateCouriersCommandHandler(uowFactory CourierUoWFactory, lock ports.StoreLock) CreateCouriersCommandHandler {
	return CreateCouriersCommandHandler{
		uowFactory: uowFactory,
		lock:       lock,
	}
}

// Handle stores every courier of the command and returns their ids in request order.
func (h CreateCouriersCommandHandler) Handle(ctx context.Context, cmd CreateCouriersCommand) ([]int64, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	release, err := h.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	ids := make([]int64, 0, len(cmd.Couriers()))
	for _, c := range cmd.Couriers() {
		if err := courierRepo.Add(ctx, c); err != nil {
			return nil, err
		}
		ids = append(ids, c.ID())
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ids, nil
}

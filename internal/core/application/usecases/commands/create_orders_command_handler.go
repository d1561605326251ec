package commands

import (
	"context"

	"sweetdelivery/internal/core/ports"
)

// CreateOrdersCommandHandler imports a batch of orders in one transaction.
type CreateOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	lock       ports.StoreLock
}

// NewCreateOrdersCommandHandler creates a handler for bulk order import.
func NewCreateOrdersCommandHandler(uowFactory OrderUoWFactory, lock ports.StoreLock) CreateOrdersCommandHandler {
	return CreateOrdersCommandHandler{
		uowFactory: uowFactory,
		lock:       lock,
	}
}

// Handle stores every order of the command and returns their ids in request order.
// A duplicate id fails with errs.ErrObjectAlreadyExists and stores nothing.
func (h CreateOrdersCommandHandler) Handle(ctx context.Context, cmd CreateOrdersCommand) ([]int64, error) {
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

	orderRepo := uow.OrderRepository()
	ids := make([]int64, 0, len(cmd.Orders()))
	for _, o := range cmd.Orders() {
		if err := orderRepo.Add(ctx, o); err != nil {
			return nil, err
		}
		ids = append(ids, o.ID())
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return ids, nil
}

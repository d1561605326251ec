package commands

import (
	"context"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/core/domain/services"
	"sweetdelivery/internal/core/ports"
	"sweetdelivery/internal/pkg/metrics"
)

// PatchCourierCommandHandler applies a profile change and unassigns the orders
// the courier can no longer carry, in the same transaction.
//
// Example:
//
//	handler := NewPatchCourierCommandHandler(uowFactory, storeLock, dispatchMetrics)
//	profile, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown courier
//	}
type PatchCourierCommandHandler struct {
	uowFactory UoWFactory
	lock       ports.StoreLock
	validator  services.MutationValidator
	metrics    *metrics.DispatchMetrics
}

// NewPatchCourierCommandHandler creates a handler for courier profile changes.
func NewPatchCourierCommandHandler(
	uowFactory UoWFactory,
	lock ports.StoreLock,
	m *metrics.DispatchMetrics,
) PatchCourierCommandHandler {
	return PatchCourierCommandHandler{
		uowFactory: uowFactory,
		lock:       lock,
		validator:  services.NewMutationValidator(),
		metrics:    m,
	}
}

// Handle returns the courier with its new profile.
func (h PatchCourierCommandHandler) Handle(ctx context.Context, cmd PatchCourierCommand) (*courier.Courier, error) {
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
	orderRepo := uow.OrderRepository()

	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	if err := cmd.Apply(c); err != nil {
		return nil, err
	}

	if err := courierRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	assigned, err := orderRepo.GetAssignedToCourier(ctx, c.ID())
	if err != nil {
		return nil, err
	}

	dropped, err := h.validator.Revalidate(c, assigned, cmd.Changes())
	if err != nil {
		return nil, err
	}

	for _, o := range dropped {
		if err := orderRepo.Update(ctx, o); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	for _, o := range dropped {
		h.metrics.AddUnassigned(unassignReason(c, o, cmd.Changes()), 1)
	}

	return c, nil
}

// unassignReason names the revalidation stage that dropped o.
func unassignReason(c *courier.Courier, o *order.Order, changes courier.Changes) string {
	switch {
	case changes.Has(courier.RegionsChanged) && !c.ServesRegion(o.Region()):
		return metrics.ReasonRegions
	case changes.Has(courier.WorkingHoursChanged) && !c.CanDeliverWithin(o.DeliveryHours()):
		return metrics.ReasonWorkingHours
	default:
		return metrics.ReasonCapacity
	}
}

package ports

import (
	"context"

	"sweetdelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates,
// including their delivery hours.
type OrderRepository interface {
	// Add persists a new order.
	// Returns errs.ObjectAlreadyExistsError when the id is taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status and assignment changes of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetAssignedToCourier returns the orders the courier currently carries
	// (status Assigned), by ascending id.
	GetAssignedToCourier(ctx context.Context, courierID int64) ([]*order.Order, error)

	// GetUnassignedInRegions returns unassigned orders located in any of the
	// regions, by ascending id. An empty region list yields no orders.
	GetUnassignedInRegions(ctx context.Context, regions []int) ([]*order.Order, error)
}

// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work and the store lock.
package ports

import (
	"context"

	"sweetdelivery/internal/core/domain/model/courier"
)

// CourierRepository defines the persistence contract for courier aggregates,
// including their regions and working hours.
type CourierRepository interface {
	// Add persists a new courier.
	// Returns errs.ObjectAlreadyExistsError when the id is taken.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update replaces the stored profile of an existing courier.
	// Regions and working hours are rewritten in their current order.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier by id.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id int64) (*courier.Courier, error)
}

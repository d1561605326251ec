package services

import (
	"slices"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/order"
)

// MutationValidator keeps a courier's assigned orders consistent with the
// courier's profile after a change.
//
// Stages run in a fixed order, each on the survivors of the previous one:
//  1. regions: orders outside the new regions are dropped
//  2. working hours: orders no longer deliverable within the new hours are dropped
//  3. type: while the carried weight exceeds the new capacity the heaviest
//     order is dropped
//
// A stage runs only when its field is among the changes.
type MutationValidator struct{}

// NewMutationValidator creates a new MutationValidator instance.
func NewMutationValidator() MutationValidator {
	return MutationValidator{}
}

// Revalidate unassigns every order of assigned that the changed courier can no
// longer carry and returns them, in the order they were dropped. The courier
// must already hold its new profile.
func (v MutationValidator) Revalidate(
	c *courier.Courier,
	assigned []*order.Order,
	changes courier.Changes,
) ([]*order.Order, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := validateAssignedTo(c, assigned); err != nil {
		return nil, err
	}

	survivors := slices.Clone(assigned)
	slices.SortFunc(survivors, byID)

	var dropped []*order.Order

	if changes.Has(courier.RegionsChanged) {
		survivors, dropped = partition(survivors, dropped, func(o *order.Order) bool {
			return c.ServesRegion(o.Region())
		})
	}

	if changes.Has(courier.WorkingHoursChanged) {
		survivors, dropped = partition(survivors, dropped, func(o *order.Order) bool {
			return c.CanDeliverWithin(o.DeliveryHours())
		})
	}

	if changes.Has(courier.TypeChanged) {
		remaining := c.Capacity().Sub(totalWeight(survivors))
		if remaining.IsNegative() {
			heaviest := slices.Clone(survivors)
			slices.SortStableFunc(heaviest, func(a, b *order.Order) int {
				return b.Weight().Cmp(a.Weight())
			})
			for _, o := range heaviest {
				if !remaining.IsNegative() {
					break
				}
				remaining = remaining.Add(o.Weight())
				dropped = append(dropped, o)
			}
		}
	}

	for _, o := range dropped {
		if err := o.Unassign(); err != nil {
			return nil, err
		}
	}

	return dropped, nil
}

func partition(
	orders []*order.Order,
	dropped []*order.Order,
	keep func(*order.Order) bool,
) ([]*order.Order, []*order.Order) {
	kept := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			kept = append(kept, o)
		} else {
			dropped = append(dropped, o)
		}
	}
	return kept, dropped
}

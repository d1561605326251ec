package services

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Assignment is the outcome of one AssignmentEngine.Assign call.
type Assignment struct {
	// OrderIDs lists the courier's previously assigned orders by ascending id
	// followed by the newly accepted ones. Empty when nothing was accepted.
	OrderIDs []int64

	// AssignedAt is the earliest assignment time among the courier's assigned
	// orders, nil when nothing was accepted.
	AssignedAt *time.Time

	// Accepted holds the orders assigned by this call, which the caller must persist.
	Accepted []*order.Order
}

// AssignmentEngine selects unassigned orders for a courier.
//
// Selection algorithm:
//   - remaining capacity is the type capacity minus the weight already carried
//   - candidates must be unassigned, in one of the courier's regions and have a
//     delivery window inside one of the courier's working windows
//   - candidates are ordered by ascending id, then stably by ascending weight
//   - orders are accepted while they fit; the first one that does not fit ends
//     the walk, since every later candidate is at least as heavy
//
// The engine is greedy on purpose: it maximizes the number of orders taken in
// one pass, not the carried weight.
//
// Example usage:
//
//	engine := services.NewAssignmentEngine()
//	result, err := engine.Assign(c, assigned, candidates, time.Now())
//	if err != nil {
//	    return err
//	}
//	for _, o := range result.Accepted {
//	    // persist o
//	}
type AssignmentEngine struct{}

// NewAssignmentEngine creates a new AssignmentEngine instance.
func NewAssignmentEngine() AssignmentEngine {
	return AssignmentEngine{}
}

// Assign runs the selection for courier c.
//
// Parameters:
//   - c: the courier
//   - assigned: orders the courier currently carries (status Assigned)
//   - candidates: orders that may be taken; ineligible ones are skipped
//   - now: batch time stamped on every accepted order
//
// When nothing is accepted the result is empty and no order is modified,
// even if the courier already carries orders.
func (e AssignmentEngine) Assign(
	c *courier.Courier,
	assigned []*order.Order,
	candidates []*order.Order,
	now time.Time,
) (Assignment, error) {
	if err := c.Validate(); err != nil {
		return Assignment{}, err
	}
	if err := validateAssignedTo(c, assigned); err != nil {
		return Assignment{}, err
	}

	remaining := c.Capacity().Sub(totalWeight(assigned))

	var accepted []*order.Order
	for _, o := range e.eligible(c, candidates) {
		left := remaining.Sub(o.Weight())
		if left.IsNegative() {
			break
		}
		accepted = append(accepted, o)
		remaining = left
	}

	if len(accepted) == 0 {
		return Assignment{OrderIDs: []int64{}}, nil
	}

	at := kernel.NormalizeTime(now)
	for _, o := range accepted {
		if err := o.Assign(c.ID(), c.Type(), at); err != nil {
			return Assignment{}, err
		}
	}

	previous := slices.Clone(assigned)
	slices.SortFunc(previous, byID)

	ids := make([]int64, 0, len(previous)+len(accepted))
	earliest := at
	for _, o := range previous {
		ids = append(ids, o.ID())
		if o.DateAssigned().Before(earliest) {
			earliest = *o.DateAssigned()
		}
	}
	for _, o := range accepted {
		ids = append(ids, o.ID())
	}

	return Assignment{
		OrderIDs:   ids,
		AssignedAt: &earliest,
		Accepted:   accepted,
	}, nil
}

// eligible filters candidates by status, region and time, then orders them
// for the greedy walk.
func (e AssignmentEngine) eligible(c *courier.Courier, candidates []*order.Order) []*order.Order {
	result := make([]*order.Order, 0, len(candidates))
	for _, o := range candidates {
		if o.Validate() != nil || o.Status() != order.Unassigned {
			continue
		}
		if !c.ServesRegion(o.Region()) || !c.CanDeliverWithin(o.DeliveryHours()) {
			continue
		}
		result = append(result, o)
	}

	slices.SortStableFunc(result, byID)
	slices.SortStableFunc(result, func(a, b *order.Order) int {
		return a.Weight().Cmp(b.Weight())
	})
	return result
}

func validateAssignedTo(c *courier.Courier, assigned []*order.Order) error {
	for _, o := range assigned {
		if err := o.Validate(); err != nil {
			return err
		}
		if !o.IsAssignedTo(c.ID()) {
			return errs.NewValueIsInvalidErrorWithCause("assigned orders",
				fmt.Errorf("order %d is not assigned to courier %d", o.ID(), c.ID()))
		}
	}
	return nil
}

func totalWeight(orders []*order.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Weight())
	}
	return total
}

func byID(a, b *order.Order) int {
	return cmp.Compare(a.ID(), b.ID())
}

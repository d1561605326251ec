package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factories.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNotAssignedYet is returned when completing an order nobody carries.
	ErrNotAssignedYet = errors.New("order is not assigned yet")

	// ErrAssignedToOtherCourier is returned when a courier completes someone else's order.
	ErrAssignedToOtherCourier = errors.New("order is assigned to another courier")

	// ErrAlreadyCompleted is returned on a second completion of the same order.
	ErrAlreadyCompleted = errors.New("order is already completed")

	// ErrCompletionBeforeAssignment is returned in strict mode when the completion
	// time precedes the assignment time.
	ErrCompletionBeforeAssignment = errors.New("complete time is before assign time")
)

var (
	// MinWeight and MaxWeight bound an order's weight, both inclusive.
	MinWeight = decimal.New(1, -2)
	MaxWeight = decimal.NewFromInt(50)
)

// Order represents a delivery order. It is the aggregate root that manages
// the order lifecycle from creation through assignment to completion.
//
// Order follows these invariants:
//   - id is positive
//   - weight is within [MinWeight, MaxWeight]
//   - a courier, its type and the assignment time are present iff the status
//     is Assigned or Completed
//   - the finish time is present iff the status is Completed
type Order struct {
	id            int64
	weight        decimal.Decimal
	region        int
	deliveryHours []kernel.TimeWindow
	status        Status

	// assignment data, cleared on Unassign
	courierID        *int64
	typeWhenAssigned courier.Type
	dateAssigned     *time.Time
	dateFinished     *time.Time

	dateCreated time.Time
	guard       guard.ConstructorGuard
}

// Assignment is the persisted assignment data of an order, used by RestoreOrder.
type Assignment struct {
	CourierID   int64
	CourierType courier.Type
	AssignedAt  time.Time
	FinishedAt  *time.Time
}

// NewOrder creates an Unassigned order.
//
// Parameters:
//   - id: order identifier, must be positive
//   - weight: exact decimal weight within [MinWeight, MaxWeight]
//   - region: delivery region
//   - deliveryHours: acceptable delivery windows, may be empty
//   - createdAt: creation time, normalized to UTC milliseconds
//
// Example:
//
//	hours, _ := kernel.ParseTimeWindows([]string{"09:00-12:00"})
//	o, err := order.NewOrder(1, decimal.RequireFromString("0.23"), 12, hours, time.Now())
//	if err != nil {
//	    // invalid id, weight or window
//	}
func NewOrder(
	id int64,
	weight decimal.Decimal,
	region int,
	deliveryHours []kernel.TimeWindow,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		region:      region,
		status:      Unassigned,
		dateCreated: kernel.NormalizeTime(createdAt),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setWeight(weight),
		o.setDeliveryHours(deliveryHours),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage.
// assignment must be nil for Unassigned orders and present otherwise.
func RestoreOrder(
	id int64,
	weight decimal.Decimal,
	region int,
	deliveryHours []kernel.TimeWindow,
	createdAt time.Time,
	status Status,
	assignment *Assignment,
) (*Order, error) {
	o, err := NewOrder(id, weight, region, deliveryHours, createdAt)
	if err != nil {
		return nil, err
	}

	if err := errors.Join(status.Validate(), status.ValidateCanHaveCourier(assignment != nil)); err != nil {
		return nil, err
	}
	o.status = status

	if assignment == nil {
		return o, nil
	}

	if err := assignment.CourierType.Validate(); err != nil {
		return nil, err
	}
	if (status == Completed) != (assignment.FinishedAt != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("date_finished",
			fmt.Errorf("order %d in status %s has inconsistent finish time", id, status))
	}

	courierID := assignment.CourierID
	assignedAt := kernel.NormalizeTime(assignment.AssignedAt)
	o.courierID = &courierID
	o.typeWhenAssigned = assignment.CourierType
	o.dateAssigned = &assignedAt
	if assignment.FinishedAt != nil {
		finishedAt := kernel.NormalizeTime(*assignment.FinishedAt)
		o.dateFinished = &finishedAt
	}

	return o, nil
}

// Validate ensures the Order instance was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() int64 {
	return o.id
}

// Weight returns the order's weight.
func (o *Order) Weight() decimal.Decimal {
	return o.weight
}

// Region returns the delivery region.
func (o *Order) Region() int {
	return o.region
}

// DeliveryHours returns a copy of the delivery windows.
func (o *Order) DeliveryHours() []kernel.TimeWindow {
	return slices.Clone(o.deliveryHours)
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CourierID returns the carrying courier, nil while unassigned.
func (o *Order) CourierID() *int64 {
	return o.courierID
}

// TypeWhenAssigned returns the courier type frozen at assignment, empty while unassigned.
func (o *Order) TypeWhenAssigned() courier.Type {
	return o.typeWhenAssigned
}

func (o *Order) DateCreated() time.Time {
	return o.dateCreated
}

// DateAssigned returns the batch time, nil while unassigned.
func (o *Order) DateAssigned() *time.Time {
	return o.dateAssigned
}

// DateFinished returns the completion time, nil until completed.
func (o *Order) DateFinished() *time.Time {
	return o.dateFinished
}

// IsAssignedTo reports whether the order is currently carried by courierID.
func (o *Order) IsAssignedTo(courierID int64) bool {
	return o.status == Assigned && o.courierID != nil && *o.courierID == courierID
}

// Assign hands the order to a courier as part of the batch started at assignedAt.
// The courier's type is frozen on the order so that later type changes do not
// alter the pay of this batch.
//
// Example:
//
//	if err := o.Assign(c.ID(), c.Type(), now); err != nil {
//	    // order was not unassigned
//	}
func (o *Order) Assign(courierID int64, courierType courier.Type, assignedAt time.Time) error {
	if err := courierType.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	at := kernel.NormalizeTime(assignedAt)
	o.status = newStatus
	o.courierID = &courierID
	o.typeWhenAssigned = courierType
	o.dateAssigned = &at
	return nil
}

// Unassign returns an assigned order to the pool and clears every assignment field.
func (o *Order) Unassign() error {
	newStatus, err := o.status.Unassign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	o.typeWhenAssigned = ""
	o.dateAssigned = nil
	o.dateFinished = nil
	return nil
}

// Complete marks the order delivered by courierID at finishedAt.
//
// Checks run in this order:
//   - ErrNotAssignedYet when the order is unassigned
//   - ErrAssignedToOtherCourier when another courier carries it
//   - ErrAlreadyCompleted when it was completed before
//
// Returned errors wrap the sentinels with the order id.
func (o *Order) Complete(courierID int64, finishedAt time.Time) error {
	if o.status == Unassigned {
		return fmt.Errorf("order %d: %w", o.id, ErrNotAssignedYet)
	}
	if o.courierID == nil || *o.courierID != courierID {
		return fmt.Errorf("order %d: %w", o.id, ErrAssignedToOtherCourier)
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return fmt.Errorf("order %d: %w", o.id, err)
	}

	at := kernel.NormalizeTime(finishedAt)
	o.status = newStatus
	o.dateFinished = &at
	return nil
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("order_id", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Order) setWeight(weight decimal.Decimal) error {
	if weight.LessThan(MinWeight) || weight.GreaterThan(MaxWeight) {
		return errs.NewValueIsOutOfRangeError("weight", weight, MinWeight, MaxWeight)
	}
	o.weight = weight
	return nil
}

func (o *Order) setDeliveryHours(deliveryHours []kernel.TimeWindow) error {
	for _, w := range deliveryHours {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	o.deliveryHours = slices.Clone(deliveryHours)
	return nil
}

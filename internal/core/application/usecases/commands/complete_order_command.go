package commands

import (
	"errors"
	"fmt"
	"time"

	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"
)

var ErrCompleteOrderCommandIsNotConstructed = errors.New(
	"CompleteOrderCommand must be created via NewCompleteOrderCommand constructor",
)

// CompleteOrderCommand reports that a courier delivered an order.
//
// Example:
//
//	cmd, err := NewCompleteOrderCommand(2, 6, "2021-01-10T10:33:01.42Z")
//	if err != nil {
//	    return err
//	}
//	orderID, err := handler.Handle(ctx, cmd)
type CompleteOrderCommand struct {
	courierID    int64
	orderID      int64
	completeTime time.Time

	guard guard.ConstructorGuard
}

// NewCompleteOrderCommand parses completeTime, which must carry a Z marker
// or a numeric offset. The time is kept in UTC with millisecond precision.
func NewCompleteOrderCommand(courierID, orderID int64, completeTime string) (CompleteOrderCommand, error) {
	command := CompleteOrderCommand{
		courierID: courierID,
		orderID:   orderID,
		guard:     guard.NewConstructorGuard(),
	}

	var problems []error
	if courierID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"courier_id", fmt.Errorf("%d is not greater than 0", courierID)))
	}
	if orderID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"order_id", fmt.Errorf("%d is not greater than 0", orderID)))
	}

	finishedAt, err := kernel.ParseTimestamp(completeTime)
	if err != nil {
		problems = append(problems, err)
	}
	command.completeTime = finishedAt

	if err := errors.Join(problems...); err != nil {
		return CompleteOrderCommand{}, err
	}
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrCompleteOrderCommandIsNotConstructed)
}

func (c CompleteOrderCommand) CourierID() int64 {
	return c.courierID
}

func (c CompleteOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c CompleteOrderCommand) CompleteTime() time.Time {
	return c.completeTime
}

package commands

import (
	"errors"
	"fmt"

	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"
)

var ErrAssignOrdersCommandIsNotConstructed = errors.New(
	"AssignOrdersCommand must be created via NewAssignOrdersCommand constructor",
)

// AssignOrdersCommand asks for as many unassigned orders as the courier can
// take right now.
//
// Example:
//
//	cmd, err := NewAssignOrdersCommand(2)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if result.AssignedAt == nil {
//	    // nothing was assigned
//	}
type AssignOrdersCommand struct {
	courierID int64

	guard guard.ConstructorGuard
}

// NewAssignOrdersCommand creates a command for the given courier.
func NewAssignOrdersCommand(courierID int64) (AssignOrdersCommand, error) {
	if courierID <= 0 {
		return AssignOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"courier_id", fmt.Errorf("%d is not greater than 0", courierID))
	}

	return AssignOrdersCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrdersCommandIsNotConstructed)
}

func (c AssignOrdersCommand) CourierID() int64 {
	return c.courierID
}

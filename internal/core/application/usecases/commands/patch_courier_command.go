package commands

import (
	"errors"
	"fmt"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"
)

var ErrPatchCourierCommandIsNotConstructed = errors.New(
	"PatchCourierCommand must be created via NewPatchCourierCommand constructor",
)

// CourierPatch carries the optional fields of a profile change. A nil field is
// left untouched.
type CourierPatch struct {
	Type         *string
	Regions      *[]int
	WorkingHours *[]string
}

// PatchCourierCommand represents a partial update of a courier profile.
//
// Example:
//
//	regions := []int{12, 22}
//	cmd, err := NewPatchCourierCommand(2, CourierPatch{Regions: &regions})
//	if err != nil {
//	    return err
//	}
//	profile, err := handler.Handle(ctx, cmd)
type PatchCourierCommand struct {
	courierID    int64
	courierType  courier.Type
	regions      []int
	workingHours []kernel.TimeWindow
	changes      courier.Changes

	guard guard.ConstructorGuard
}

// NewPatchCourierCommand validates the present fields of patch.
func NewPatchCourierCommand(courierID int64, patch CourierPatch) (PatchCourierCommand, error) {
	command := PatchCourierCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}

	var problems []error
	if courierID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"courier_id", fmt.Errorf("%d is not greater than 0", courierID)))
	}

	if patch.Type != nil {
		courierType, err := courier.ParseType(*patch.Type)
		if err != nil {
			problems = append(problems, err)
		}
		command.courierType = courierType
		command.changes |= courier.TypeChanged
	}

	if patch.Regions != nil {
		command.regions = *patch.Regions
		command.changes |= courier.RegionsChanged
	}

	if patch.WorkingHours != nil {
		hours, err := kernel.ParseTimeWindows(*patch.WorkingHours)
		if err != nil {
			problems = append(problems, err)
		}
		command.workingHours = hours
		command.changes |= courier.WorkingHoursChanged
	}

	if err := errors.Join(problems...); err != nil {
		return PatchCourierCommand{}, err
	}
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c PatchCourierCommand) Validate() error {
	return c.guard.Validate(ErrPatchCourierCommandIsNotConstructed)
}

func (c PatchCourierCommand) CourierID() int64 {
	return c.courierID
}

// Changes reports which profile fields the patch carries.
func (c PatchCourierCommand) Changes() courier.Changes {
	return c.changes
}

// Apply writes the patched fields onto target.
func (c PatchCourierCommand) Apply(target *courier.Courier) error {
	var problems []error
	if c.changes.Has(courier.TypeChanged) {
		problems = append(problems, target.ChangeType(c.courierType))
	}
	if c.changes.Has(courier.RegionsChanged) {
		problems = append(problems, target.ChangeRegions(c.regions))
	}
	if c.changes.Has(courier.WorkingHoursChanged) {
		problems = append(problems, target.ChangeWorkingHours(c.workingHours))
	}
	return errors.Join(problems...)
}

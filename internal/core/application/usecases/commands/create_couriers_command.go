package commands

import (
	"errors"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/pkg/guard"
)

var ErrCreateCouriersCommandIsNotConstructed = errors.New(
	"CreateCouriersCommand must be created via NewCreateCouriersCommand constructor",
)

// CourierRecord is one courier of a bulk registration as received from a client.
type CourierRecord struct {
	ID           int64
	Type         string
	Regions      []int
	WorkingHours []string
}

// CreateCouriersCommand represents a request to register a batch of couriers.
// The batch is all-or-nothing: every record is validated up front and a single
// duplicate id rejects the whole batch.
//
// Example:
//
//	cmd, err := NewCreateCouriersCommand([]CourierRecord{
//	    {ID: 1, Type: "foot", Regions: []int{1, 12}, WorkingHours: []string{"11:35-14:05"}},
//	})
//	var invalid *InvalidRecordsError
//	if errors.As(err, &invalid) {
//	    // report invalid.IDs
//	}
type CreateCouriersCommand struct {
	couriers []*courier.Courier

	guard guard.ConstructorGuard
}

// NewCreateCouriersCommand validates every record and returns an
// *InvalidRecordsError listing all invalid ones.
func NewCreateCouriersCommand(records []CourierRecord) (CreateCouriersCommand, error) {
	command := CreateCouriersCommand{
		couriers: make([]*courier.Courier, 0, len(records)),
		guard:    guard.NewConstructorGuard(),
	}

	invalid := &InvalidRecordsError{Kind: RecordsCouriers}
	for _, record := range records {
		c, err := newCourier(record)
		if err != nil {
			invalid.add(record.ID, err)
			continue
		}
		command.couriers = append(command.couriers, c)
	}

	if err := invalid.orNil(); err != nil {
		return CreateCouriersCommand{}, err
	}
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCouriersCommand) Validate() error {
	return c.guard.Validate(ErrCreateCouriersCommandIsNotConstructed)
}

// Couriers returns the validated couriers in request order.
func (c CreateCouriersCommand) Couriers() []*courier.Courier {
	return c.couriers
}

func newCourier(record CourierRecord) (*courier.Courier, error) {
	hours, hoursErr := kernel.ParseTimeWindows(record.WorkingHours)
	c, err := courier.NewCourier(record.ID, courier.Type(record.Type), record.Regions, hours)
	if err := errors.Join(hoursErr, err); err != nil {
		return nil, err
	}
	return c, nil
}

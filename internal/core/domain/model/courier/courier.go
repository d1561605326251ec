package courier

import (
	"errors"
	"fmt"
	"slices"

	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Changes is the set of profile fields touched by a patch.
type Changes uint8

const (
	TypeChanged Changes = 1 << iota
	RegionsChanged
	WorkingHoursChanged
)

// Has reports whether every field in f was changed.
func (c Changes) Has(f Changes) bool {
	return c&f == f
}

// Courier is the aggregate root describing who can carry which orders and when.
//
// Business rules:
//   - id is positive and never changes
//   - type decides capacity and pay coefficient
//   - regions may be empty, in which case no order can be assigned
//   - working hours are kept in the order they were supplied
//
// Example usage:
//
//	hours, _ := kernel.ParseTimeWindows([]string{"09:00-18:00"})
//	c, err := courier.NewCourier(1, courier.Foot, []int{12, 22}, hours)
//	if err != nil {
//	    // invalid id, type or window
//	}
type Courier struct {
	id           int64
	courierType  Type
	regions      []int
	workingHours []kernel.TimeWindow
	guard        guard.ConstructorGuard
}

// NewCourier builds a validated courier. It is also used to restore couriers
// from storage since a courier carries no state beyond its profile.
func NewCourier(id int64, courierType Type, regions []int, workingHours []kernel.TimeWindow) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.ChangeType(courierType),
		c.ChangeRegions(regions),
		c.ChangeWorkingHours(workingHours),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the courier was created through NewCourier.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() int64 {
	return c.id
}

func (c *Courier) Type() Type {
	return c.courierType
}

// Regions returns a copy of the served regions.
func (c *Courier) Regions() []int {
	return slices.Clone(c.regions)
}

// WorkingHours returns a copy of the working windows.
func (c *Courier) WorkingHours() []kernel.TimeWindow {
	return slices.Clone(c.workingHours)
}

// Capacity is the maximum weight the courier carries with the current type.
func (c *Courier) Capacity() decimal.Decimal {
	return c.courierType.Capacity()
}

// ServesRegion reports whether region is among the courier's regions.
func (c *Courier) ServesRegion(region int) bool {
	return slices.Contains(c.regions, region)
}

// CanDeliverWithin reports whether at least one of the delivery windows
// fits inside one of the courier's working windows.
func (c *Courier) CanDeliverWithin(deliveryHours []kernel.TimeWindow) bool {
	return kernel.AnyContains(c.workingHours, deliveryHours)
}

// ChangeType switches the transport type.
func (c *Courier) ChangeType(courierType Type) error {
	if err := courierType.Validate(); err != nil {
		return err
	}
	c.courierType = courierType
	return nil
}

// ChangeRegions replaces the served regions.
func (c *Courier) ChangeRegions(regions []int) error {
	if regions == nil {
		regions = []int{}
	}
	c.regions = slices.Clone(regions)
	return nil
}

// ChangeWorkingHours replaces the working windows.
func (c *Courier) ChangeWorkingHours(workingHours []kernel.TimeWindow) error {
	for _, w := range workingHours {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	c.workingHours = slices.Clone(workingHours)
	return nil
}

func (c *Courier) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("courier_id", fmt.Errorf("%d is not greater than 0", id))
	}
	c.id = id
	return nil
}

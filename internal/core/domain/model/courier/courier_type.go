package courier

import (
	"fmt"

	"sweetdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Type is the courier's mode of transport.
type Type string

const (
	Foot Type = "foot"
	Bike Type = "bike"
	Car  Type = "car"
)

var capacities = map[Type]decimal.Decimal{
	Foot: decimal.NewFromInt(10),
	Bike: decimal.NewFromInt(15),
	Car:  decimal.NewFromInt(50),
}

var coefficients = map[Type]int64{
	Foot: 2,
	Bike: 5,
	Car:  9,
}

// ParseType validates a textual courier type.
func ParseType(value string) (Type, error) {
	t := Type(value)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports whether t is one of foot, bike or car.
func (t Type) Validate() error {
	if _, ok := capacities[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("courier_type",
			fmt.Errorf("%q is not one of 'foot', 'bike', 'car'", string(t)))
	}
	return nil
}

// Capacity is the maximum total weight a courier of this type carries at once.
func (t Type) Capacity() decimal.Decimal {
	return capacities[t]
}

// Coefficient is the multiplier applied to the base pay of a completed delivery.
func (t Type) Coefficient() int64 {
	return coefficients[t]
}

func (t Type) String() string {
	return string(t)
}

package commands

import (
	"errors"
	"time"

	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrdersCommandIsNotConstructed = errors.New(
	"CreateOrdersCommand must be created via NewCreateOrdersCommand constructor",
)

// OrderRecord is one order of a bulk import as received from a client.
type OrderRecord struct {
	ID            int64
	Weight        decimal.Decimal
	Region        int
	DeliveryHours []string
}

// CreateOrdersCommand represents a request to import a batch of unassigned orders.
// Like courier registration it is all-or-nothing.
type CreateOrdersCommand struct {
	orders []*order.Order

	guard guard.ConstructorGuard
}

// NewCreateOrdersCommand validates every record and stamps the orders with
// createdAt. Returns an *InvalidRecordsError listing all invalid records.
func NewCreateOrdersCommand(records []OrderRecord, createdAt time.Time) (CreateOrdersCommand, error) {
	command := CreateOrdersCommand{
		orders: make([]*order.Order, 0, len(records)),
		guard:  guard.NewConstructorGuard(),
	}

	invalid := &InvalidRecordsError{Kind: RecordsOrders}
	for _, record := range records {
		hours, hoursErr := kernel.ParseTimeWindows(record.DeliveryHours)
		o, err := order.NewOrder(record.ID, record.Weight, record.Region, hours, createdAt)
		if err := errors.Join(hoursErr, err); err != nil {
			invalid.add(record.ID, err)
			continue
		}
		command.orders = append(command.orders, o)
	}

	if err := invalid.orNil(); err != nil {
		return CreateOrdersCommand{}, err
	}
	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrdersCommandIsNotConstructed)
}

// Orders returns the validated orders in request order.
func (c CreateOrdersCommand) Orders() []*order.Order {
	return c.orders
}

// Package orderrepo maps the order aggregate to the orders and
// order_delivery_hours tables.
package orderrepo

import (
	"time"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is a row of orders together with its delivery hours.
type OrderDTO struct {
	ID               int64                   `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	Weight           decimal.Decimal         `gorm:"column:weight;type:numeric;not null"`
	Region           int                     `gorm:"column:region;not null"`
	Status           int                     `gorm:"column:status;type:smallint;not null"`
	DateCreated      time.Time               `gorm:"column:date_created;not null"`
	DateAssigned     *time.Time              `gorm:"column:date_assigned"`
	DateFinished     *time.Time              `gorm:"column:date_finished"`
	CourierID        *int64                  `gorm:"column:courier_id"`
	TypeWhenAssigned *string                 `gorm:"column:type_when_assigned;type:varchar(8)"`
	DeliveryHours    []OrderDeliveryHoursDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderDeliveryHoursDTO keeps one delivery window; ordinal preserves input order.
type OrderDeliveryHoursDTO struct {
	OrderID    int64  `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	Ordinal    int    `gorm:"column:ordinal;primaryKey;autoIncrement:false"`
	TimeWindow string `gorm:"column:time_window;type:char(11);not null"`
}

func (OrderDeliveryHoursDTO) TableName() string {
	return "order_delivery_hours"
}

// assignmentColumns are rewritten on every Update.
var assignmentColumns = []string{
	"status", "date_assigned", "date_finished", "courier_id", "type_when_assigned",
}

func fromDomain(o *order.Order) OrderDTO {
	hours := o.DeliveryHours()

	dto := OrderDTO{
		ID:            o.ID(),
		Weight:        o.Weight(),
		Region:        o.Region(),
		Status:        int(o.Status()),
		DateCreated:   o.DateCreated(),
		DateAssigned:  o.DateAssigned(),
		DateFinished:  o.DateFinished(),
		CourierID:     o.CourierID(),
		DeliveryHours: make([]OrderDeliveryHoursDTO, 0, len(hours)),
	}
	if t := o.TypeWhenAssigned(); t != "" {
		s := t.String()
		dto.TypeWhenAssigned = &s
	}
	for i, w := range hours {
		dto.DeliveryHours = append(dto.DeliveryHours, OrderDeliveryHoursDTO{
			OrderID:    o.ID(),
			Ordinal:    i,
			TimeWindow: w.String(),
		})
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	values := make([]string, 0, len(dto.DeliveryHours))
	for _, w := range dto.DeliveryHours {
		values = append(values, w.TimeWindow)
	}
	hours, err := kernel.ParseTimeWindows(values)
	if err != nil {
		return nil, err
	}

	var assignment *order.Assignment
	if dto.CourierID != nil || dto.DateAssigned != nil {
		assignment = &order.Assignment{FinishedAt: dto.DateFinished}
		if dto.CourierID != nil {
			assignment.CourierID = *dto.CourierID
		}
		if dto.DateAssigned != nil {
			assignment.AssignedAt = *dto.DateAssigned
		}
		if dto.TypeWhenAssigned != nil {
			assignment.CourierType = courier.Type(*dto.TypeWhenAssigned)
		}
	}

	return order.RestoreOrder(
		dto.ID,
		dto.Weight,
		dto.Region,
		hours,
		dto.DateCreated,
		order.Status(dto.Status),
		assignment,
	)
}

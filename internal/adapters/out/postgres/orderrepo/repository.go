package orderrepo

import (
	"context"
	"errors"

	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its delivery hours.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit("DeliveryHours").Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", aggregate.ID(), err)
		}
		return err
	}

	if len(dto.DeliveryHours) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.DeliveryHours).Error; err != nil {
			return err
		}
	}
	return nil
}

// Update saves the status and assignment fields of an existing order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("order_id = ?", dto.ID).
		Select(assignmentColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order_id", dto.ID)
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.withHours(ctx).First(&dto, "order_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order_id", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAssignedToCourier retrieves the orders the courier currently carries.
func (r *GormOrderRepository) GetAssignedToCourier(ctx context.Context, courierID int64) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withHours(ctx).
		Where("courier_id = ? AND status = ?", courierID, int(order.Assigned)).
		Order("order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// GetUnassignedInRegions retrieves unassigned orders of the given regions.
func (r *GormOrderRepository) GetUnassignedInRegions(ctx context.Context, regions []int) ([]*order.Order, error) {
	if len(regions) == 0 {
		return []*order.Order{}, nil
	}

	var dtos []OrderDTO
	err := r.withHours(ctx).
		Where("status = ? AND region IN ?", int(order.Unassigned), regions).
		Order("order_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) withHours(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("DeliveryHours", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordinal")
	})
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

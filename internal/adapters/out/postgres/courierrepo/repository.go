package courierrepo

import (
	"context"
	"errors"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier with its regions and working hours.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit("Regions", "WorkingHours").Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("courier", aggregate.ID(), err)
		}
		return err
	}

	return r.saveChildren(ctx, dto)
}

// Update rewrites the courier's type, regions and working hours.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Update("type", dto.Type)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier_id", dto.ID)
	}

	if err := r.db.WithContext(ctx).Where("courier_id = ?", dto.ID).Delete(&CourierRegionDTO{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("courier_id = ?", dto.ID).Delete(&CourierWorkingHoursDTO{}).Error; err != nil {
		return err
	}

	return r.saveChildren(ctx, dto)
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id int64) (*courier.Courier, error) {
	var dto CourierDTO
	err := r.db.WithContext(ctx).
		Preload("Regions", byOrdinal).
		Preload("WorkingHours", byOrdinal).
		First(&dto, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier_id", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormCourierRepository) saveChildren(ctx context.Context, dto CourierDTO) error {
	if len(dto.Regions) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.Regions).Error; err != nil {
			return err
		}
	}
	if len(dto.WorkingHours) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.WorkingHours).Error; err != nil {
			return err
		}
	}
	return nil
}

func byOrdinal(db *gorm.DB) *gorm.DB {
	return db.Order("ordinal")
}

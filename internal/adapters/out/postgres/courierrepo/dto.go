// Package courierrepo maps the courier aggregate to the couriers,
// courier_regions and courier_working_hours tables.
package courierrepo

import (
	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
)

// CourierDTO is a row of couriers together with its child rows.
type CourierDTO struct {
	ID           int64                    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Type         string                   `gorm:"column:type;type:varchar(8);not null"`
	Regions      []CourierRegionDTO       `gorm:"foreignKey:CourierID;references:ID;constraint:OnDelete:CASCADE"`
	WorkingHours []CourierWorkingHoursDTO `gorm:"foreignKey:CourierID;references:ID;constraint:OnDelete:CASCADE"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

// CourierRegionDTO keeps one served region; ordinal preserves input order.
type CourierRegionDTO struct {
	CourierID int64 `gorm:"column:courier_id;primaryKey;autoIncrement:false"`
	Ordinal   int   `gorm:"column:ordinal;primaryKey;autoIncrement:false"`
	RegionID  int   `gorm:"column:region_id;not null"`
}

func (CourierRegionDTO) TableName() string {
	return "courier_regions"
}

// CourierWorkingHoursDTO keeps one working window in its textual form.
type CourierWorkingHoursDTO struct {
	CourierID  int64  `gorm:"column:courier_id;primaryKey;autoIncrement:false"`
	Ordinal    int    `gorm:"column:ordinal;primaryKey;autoIncrement:false"`
	TimeWindow string `gorm:"column:time_window;type:char(11);not null"`
}

func (CourierWorkingHoursDTO) TableName() string {
	return "courier_working_hours"
}

func fromDomain(c *courier.Courier) CourierDTO {
	regions := c.Regions()
	hours := c.WorkingHours()

	dto := CourierDTO{
		ID:           c.ID(),
		Type:         c.Type().String(),
		Regions:      make([]CourierRegionDTO, 0, len(regions)),
		WorkingHours: make([]CourierWorkingHoursDTO, 0, len(hours)),
	}
	for i, r := range regions {
		dto.Regions = append(dto.Regions, CourierRegionDTO{CourierID: c.ID(), Ordinal: i, RegionID: r})
	}
	for i, w := range hours {
		dto.WorkingHours = append(dto.WorkingHours, CourierWorkingHoursDTO{
			CourierID:  c.ID(),
			Ordinal:    i,
			TimeWindow: w.String(),
		})
	}
	return dto
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	courierType, err := courier.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}

	regions := make([]int, 0, len(dto.Regions))
	for _, r := range dto.Regions {
		regions = append(regions, r.RegionID)
	}

	values := make([]string, 0, len(dto.WorkingHours))
	for _, w := range dto.WorkingHours {
		values = append(values, w.TimeWindow)
	}
	hours, err := kernel.ParseTimeWindows(values)
	if err != nil {
		return nil, err
	}

	return courier.NewCourier(dto.ID, courierType, regions, hours)
}

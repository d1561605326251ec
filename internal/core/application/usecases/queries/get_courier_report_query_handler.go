package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/core/domain/services"
	"sweetdelivery/internal/core/ports"
	"sweetdelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetCourierReportQueryHandler reads a courier's profile and delivery history
// and derives earnings and rating from it.
//
// The store lock is held while reading so that the report never observes a
// half-applied assignment or patch.
//
// Example:
//
//	handler := NewGetCourierReportQueryHandler(db, storeLock)
//	report, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown courier
//	}
type GetCourierReportQueryHandler struct {
	db         *gorm.DB
	lock       ports.StoreLock
	calculator services.RatingCalculator
}

// NewGetCourierReportQueryHandler creates a handler for courier reports.
func NewGetCourierReportQueryHandler(db *gorm.DB, lock ports.StoreLock) GetCourierReportQueryHandler {
	return GetCourierReportQueryHandler{
		db:         db,
		lock:       lock,
		calculator: services.NewRatingCalculator(),
	}
}

type deliveryRow struct {
	OrderID          int64
	Region           int
	Status           int
	TypeWhenAssigned *string
	DateAssigned     *time.Time
	DateFinished     *time.Time
}

// Handle builds the report. Regions and working hours keep their stored order.
func (h GetCourierReportQueryHandler) Handle(
	ctx context.Context,
	query GetCourierReportQuery,
) (GetCourierReportQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierReportQueryResponse{}, err
	}

	release, err := h.lock.Acquire(ctx)
	if err != nil {
		return GetCourierReportQueryResponse{}, err
	}
	defer release()

	db := h.db.WithContext(ctx)
	report := GetCourierReportQueryResponse{
		CourierID:    query.CourierID(),
		Regions:      make([]int, 0),
		WorkingHours: make([]string, 0),
	}

	err = db.Raw(`SELECT type FROM couriers WHERE id = ?`, query.CourierID()).
		Row().
		Scan(&report.CourierType)
	if errors.Is(err, sql.ErrNoRows) {
		return GetCourierReportQueryResponse{}, errs.NewObjectNotFoundError("courier_id", query.CourierID())
	}
	if err != nil {
		return GetCourierReportQueryResponse{}, err
	}

	err = db.Raw(`
		SELECT region_id
		FROM courier_regions
		WHERE courier_id = ?
		ORDER BY ordinal
	`, query.CourierID()).Scan(&report.Regions).Error
	if err != nil {
		return GetCourierReportQueryResponse{}, err
	}

	err = db.Raw(`
		SELECT time_window
		FROM courier_working_hours
		WHERE courier_id = ?
		ORDER BY ordinal
	`, query.CourierID()).Scan(&report.WorkingHours).Error
	if err != nil {
		return GetCourierReportQueryResponse{}, err
	}

	var rows []deliveryRow
	err = db.Raw(`
		SELECT
			order_id,
			region,
			status,
			type_when_assigned,
			date_assigned,
			date_finished
		FROM orders
		WHERE courier_id = ? AND status IN (?, ?)
		ORDER BY order_id
	`, query.CourierID(), int(order.Assigned), int(order.Completed)).Scan(&rows).Error
	if err != nil {
		return GetCourierReportQueryResponse{}, err
	}

	records := make([]services.DeliveryRecord, 0, len(rows))
	for _, row := range rows {
		if row.DateAssigned == nil || row.TypeWhenAssigned == nil {
			continue
		}
		records = append(records, services.DeliveryRecord{
			OrderID:          row.OrderID,
			Region:           row.Region,
			Status:           order.Status(row.Status),
			TypeWhenAssigned: courier.Type(*row.TypeWhenAssigned),
			DateAssigned:     row.DateAssigned.UTC(),
			DateFinished:     utc(row.DateFinished),
		})
	}

	report.Earnings = h.calculator.Earnings(records)
	report.Rating = h.calculator.Rating(records)

	return report, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"fmt"

	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/guard"
)

var (
	ErrGetCourierReportQueryIsNotConstructed = errors.New(
		"GetCourierReportQuery must be created via NewGetCourierReportQuery constructor",
	)
)

// GetCourierReportQuery retrieves a courier's profile together with its
// earnings and rating.
//
// Example:
//
//	query, err := NewGetCourierReportQuery(2)
//	if err != nil {
//	    return err
//	}
//	report, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to build report: %w", err)
//	}
//	if report.Rating != nil {
//	    fmt.Printf("Courier %d rated %.2f\n", report.CourierID, *report.Rating)
//	}
type GetCourierReportQuery struct {
	courierID int64

	guard guard.ConstructorGuard
}

// NewGetCourierReportQuery creates a report query for one courier.
func NewGetCourierReportQuery(courierID int64) (GetCourierReportQuery, error) {
	if courierID <= 0 {
		return GetCourierReportQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"courier_id", fmt.Errorf("%d is not greater than 0", courierID))
	}
	return GetCourierReportQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierReportQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierReportQueryIsNotConstructed)
}

func (q GetCourierReportQuery) CourierID() int64 {
	return q.courierID
}

// GetCourierReportQueryResponse is the courier read model.
// Rating is nil until the courier completes an order.
type GetCourierReportQueryResponse struct {
	CourierID    int64
	CourierType  string
	Regions      []int
	WorkingHours []string
	Earnings     int64
	Rating       *float64
}

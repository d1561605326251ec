package http

import (
	"github.com/shopspring/decimal"
)

// Request and response bodies of the dispatch API. Field names follow
// api/openapi.yaml.

type courierItem struct {
	CourierID    *int64   `json:"courier_id" validate:"required"`
	CourierType  string   `json:"courier_type" validate:"required,oneof=foot bike car"`
	Regions      []int    `json:"regions" validate:"required"`
	WorkingHours []string `json:"working_hours" validate:"required,dive,timewindow"`
}

type orderItem struct {
	OrderID       *int64           `json:"order_id" validate:"required"`
	Weight        *decimal.Decimal `json:"weight" validate:"required"`
	Region        *int             `json:"region" validate:"required"`
	DeliveryHours []string         `json:"delivery_hours" validate:"required,dive,timewindow"`
}

type patchCourierRequest struct {
	CourierType  *string   `json:"courier_type"`
	Regions      *[]int    `json:"regions"`
	WorkingHours *[]string `json:"working_hours" validate:"omitempty,dive,timewindow"`
}

type assignOrdersRequest struct {
	CourierID int64 `json:"courier_id" validate:"gt=0"`
}

type completeOrderRequest struct {
	CourierID    int64  `json:"courier_id" validate:"gt=0"`
	OrderID      int64  `json:"order_id" validate:"gt=0"`
	CompleteTime string `json:"complete_time" validate:"required"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type couriersCreatedResponse struct {
	Couriers []idResponse `json:"couriers"`
}

type ordersCreatedResponse struct {
	Orders []idResponse `json:"orders"`
}

type courierResponse struct {
	CourierID    int64    `json:"courier_id"`
	CourierType  string   `json:"courier_type"`
	Regions      []int    `json:"regions"`
	WorkingHours []string `json:"working_hours"`
}

type courierReportResponse struct {
	courierResponse
	Rating   *float64 `json:"rating,omitempty"`
	Earnings int64    `json:"earnings"`
}

type assignOrdersResponse struct {
	Orders     []idResponse `json:"orders"`
	AssignTime *string      `json:"assign_time,omitempty"`
}

type completeOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

type messagesResponse struct {
	Messages []string `json:"messages"`
}

type internalErrorResponse struct {
	Messages string `json:"messages"`
}

type validationErrorResponse struct {
	ValidationError map[string][]idResponse `json:"validation_error"`
	Message         []string                `json:"message"`
}

func toIDs(ids []int64) []idResponse {
	out := make([]idResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, idResponse{ID: id})
	}
	return out
}

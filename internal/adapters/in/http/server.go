package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/core/application/usecases/queries"
	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Use case ports of the HTTP adapter. The command and query handlers
// satisfy them.
type (
	CreateCouriersHandler interface {
		Handle(ctx context.Context, cmd commands.CreateCouriersCommand) ([]int64, error)
	}
	PatchCourierHandler interface {
		Handle(ctx context.Context, cmd commands.PatchCourierCommand) (*courier.Courier, error)
	}
	CreateOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrdersCommand) ([]int64, error)
	}
	AssignOrdersHandler interface {
		Handle(ctx context.Context, cmd commands.AssignOrdersCommand) (commands.AssignOrdersResult, error)
	}
	CompleteOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CompleteOrderCommand) (int64, error)
	}
	CourierReportHandler interface {
		Handle(ctx context.Context, query queries.GetCourierReportQuery) (queries.GetCourierReportQueryResponse, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateCouriers CreateCouriersHandler
	PatchCourier   PatchCourierHandler
	CreateOrders   CreateOrdersHandler
	AssignOrders   AssignOrdersHandler
	CompleteOrder  CompleteOrderHandler
	CourierReport  CourierReportHandler
}

// Server handles HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers  Handlers
	validator *RequestValidator
	clock     commands.Clock
}

// NewServer creates a new HTTP server with the required command and query handlers.
// clock stamps the creation time of imported orders.
func NewServer(handlers Handlers, validator *RequestValidator, clock commands.Clock) *Server {
	return &Server{
		handlers:  handlers,
		validator: validator,
		clock:     clock,
	}
}

type bulkRequest struct {
	Data []json.RawMessage `json:"data"`
}

// CreateCouriers handles POST /couriers.
func (s *Server) CreateCouriers(ctx echo.Context) error {
	var body bulkRequest
	if err := ctx.Bind(&body); err != nil {
		return &recordsError{kind: commands.RecordsCouriers, messages: []string{bindMessage(err)}}
	}

	invalid := &recordsError{kind: commands.RecordsCouriers}
	records := make([]commands.CourierRecord, 0, len(body.Data))
	for _, raw := range body.Data {
		var item courierItem
		if messages := s.validator.decodeItem(raw, &item); messages != nil {
			invalid.add(recordID(raw, "courier_id"), messages...)
			continue
		}
		records = append(records, commands.CourierRecord{
			ID:           *item.CourierID,
			Type:         item.CourierType,
			Regions:      item.Regions,
			WorkingHours: item.WorkingHours,
		})
	}

	cmd, err := commands.NewCreateCouriersCommand(records)
	if err := rejectRecords(invalid, err); err != nil {
		return err
	}

	ids, err := s.handlers.CreateCouriers.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, couriersCreatedResponse{Couriers: toIDs(ids)})
}

// PatchCourier handles PATCH /couriers/{courier_id}.
func (s *Server) PatchCourier(ctx echo.Context) error {
	courierID, err := courierIDParam(ctx)
	if err != nil {
		return err
	}

	var body patchCourierRequest
	if err := ctx.Bind(&body); err != nil {
		return &requestError{messages: []string{bindMessage(err)}}
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	cmd, err := commands.NewPatchCourierCommand(courierID, commands.CourierPatch{
		Type:         body.CourierType,
		Regions:      body.Regions,
		WorkingHours: body.WorkingHours,
	})
	if err != nil {
		return err
	}

	updated, err := s.handlers.PatchCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return pathNotFound(err)
	}

	return ctx.JSON(http.StatusOK, courierResponse{
		CourierID:    updated.ID(),
		CourierType:  updated.Type().String(),
		Regions:      updated.Regions(),
		WorkingHours: kernel.TimeWindowStrings(updated.WorkingHours()),
	})
}

// GetCourier handles GET /couriers/{courier_id}.
func (s *Server) GetCourier(ctx echo.Context) error {
	courierID, err := courierIDParam(ctx)
	if err != nil {
		return err
	}

	query, err := queries.NewGetCourierReportQuery(courierID)
	if err != nil {
		return err
	}

	report, err := s.handlers.CourierReport.Handle(ctx.Request().Context(), query)
	if err != nil {
		return pathNotFound(err)
	}

	return ctx.JSON(http.StatusOK, courierReportResponse{
		courierResponse: courierResponse{
			CourierID:    report.CourierID,
			CourierType:  report.CourierType,
			Regions:      orEmpty(report.Regions),
			WorkingHours: orEmpty(report.WorkingHours),
		},
		Rating:   report.Rating,
		Earnings: report.Earnings,
	})
}

// CreateOrders handles POST /orders.
func (s *Server) CreateOrders(ctx echo.Context) error {
	var body bulkRequest
	if err := ctx.Bind(&body); err != nil {
		return &recordsError{kind: commands.RecordsOrders, messages: []string{bindMessage(err)}}
	}

	invalid := &recordsError{kind: commands.RecordsOrders}
	records := make([]commands.OrderRecord, 0, len(body.Data))
	for _, raw := range body.Data {
		var item orderItem
		if messages := s.validator.decodeItem(raw, &item); messages != nil {
			invalid.add(recordID(raw, "order_id"), messages...)
			continue
		}
		records = append(records, commands.OrderRecord{
			ID:            *item.OrderID,
			Weight:        *item.Weight,
			Region:        *item.Region,
			DeliveryHours: item.DeliveryHours,
		})
	}

	cmd, err := commands.NewCreateOrdersCommand(records, s.clock())
	if err := rejectRecords(invalid, err); err != nil {
		return err
	}

	ids, err := s.handlers.CreateOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, ordersCreatedResponse{Orders: toIDs(ids)})
}

// AssignOrders handles POST /orders/assign.
func (s *Server) AssignOrders(ctx echo.Context) error {
	var body assignOrdersRequest
	if err := ctx.Bind(&body); err != nil {
		return &requestError{messages: []string{bindMessage(err)}}
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	cmd, err := commands.NewAssignOrdersCommand(body.CourierID)
	if err != nil {
		return err
	}

	result, err := s.handlers.AssignOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	response := assignOrdersResponse{Orders: toIDs(result.OrderIDs)}
	if result.AssignedAt != nil {
		assignTime := kernel.FormatTimestamp(*result.AssignedAt)
		response.AssignTime = &assignTime
	}
	return ctx.JSON(http.StatusOK, response)
}

// CompleteOrder handles POST /orders/complete.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	var body completeOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return &requestError{messages: []string{bindMessage(err)}}
	}
	if err := ctx.Validate(&body); err != nil {
		return err
	}

	cmd, err := commands.NewCompleteOrderCommand(body.CourierID, body.OrderID, body.CompleteTime)
	if err != nil {
		return err
	}

	orderID, err := s.handlers.CompleteOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, completeOrderResponse{OrderID: orderID})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

func courierIDParam(ctx echo.Context) (int64, error) {
	var courierID int64
	err := runtime.BindStyledParameterWithOptions("simple", "courier_id", ctx.Param("courier_id"), &courierID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, &requestError{messages: []string{"Invalid format for parameter courier_id: " + err.Error()}}
	}
	return courierID, nil
}

// rejectRecords merges decoding failures with the domain validation result
// of the same batch.
func rejectRecords(invalid *recordsError, err error) error {
	var domainInvalid *commands.InvalidRecordsError
	if errors.As(err, &domainInvalid) {
		invalid.merge(domainInvalid)
	} else if err != nil {
		return err
	}
	if len(invalid.ids) > 0 {
		return invalid
	}
	return nil
}

// recordID extracts the id of a record that failed to decode; 0 when absent.
func recordID(raw json.RawMessage, key string) int64 {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0
	}
	var id int64
	_ = json.Unmarshal(fields[key], &id)
	return id
}

// pathNotFound answers 404 when the resource named in the path does not exist.
func pathNotFound(err error) error {
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	return &notFoundError{err: err}
}

func bindMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Internal != nil {
			return httpErr.Internal.Error()
		}
		return httpErr.Error()
	}
	return err.Error()
}

func orEmpty[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/core/application/usecases/queries"
	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2021, 1, 10, 9, 0, 0, 0, time.UTC)

type ServerTestSuite struct {
	suite.Suite

	createCouriers *MockCreateCouriersHandler
	patchCourier   *MockPatchCourierHandler
	createOrders   *MockCreateOrdersHandler
	assignOrders   *MockAssignOrdersHandler
	completeOrder  *MockCompleteOrderHandler
	courierReport  *MockCourierReportHandler

	registry *prometheus.Registry
	router   *echo.Echo
}

func (suite *ServerTestSuite) SetupTest() {
	suite.createCouriers = new(MockCreateCouriersHandler)
	suite.patchCourier = new(MockPatchCourierHandler)
	suite.createOrders = new(MockCreateOrdersHandler)
	suite.assignOrders = new(MockAssignOrdersHandler)
	suite.completeOrder = new(MockCompleteOrderHandler)
	suite.courierReport = new(MockCourierReportHandler)
	suite.registry = prometheus.NewRegistry()

	server := NewServer(Handlers{
		CreateCouriers: suite.createCouriers,
		PatchCourier:   suite.patchCourier,
		CreateOrders:   suite.createOrders,
		AssignOrders:   suite.assignOrders,
		CompleteOrder:  suite.completeOrder,
		CourierReport:  suite.courierReport,
	}, NewRequestValidator(), func() time.Time { return now })

	router, err := NewRouter(server, RouterOptions{Gatherer: suite.registry, OperationTimeout: time.Second})
	suite.Require().NoError(err)
	suite.router = router
}

func (suite *ServerTestSuite) TearDownTest() {
	suite.createCouriers.AssertExpectations(suite.T())
	suite.patchCourier.AssertExpectations(suite.T())
	suite.createOrders.AssertExpectations(suite.T())
	suite.assignOrders.AssertExpectations(suite.T())
	suite.completeOrder.AssertExpectations(suite.T())
	suite.courierReport.AssertExpectations(suite.T())
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) assertGolden(name string, rec *httptest.ResponseRecorder) {
	var body any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	pretty, err := json.MarshalIndent(body, "", "  ")
	suite.Require().NoError(err)

	g := goldie.New(suite.T(),
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(suite.T(), name, append(pretty, '\n'))
}

func (suite *ServerTestSuite) decode(rec *httptest.ResponseRecorder, target any) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), target), rec.Body.String())
}

func (suite *ServerTestSuite) TestCreateCouriers_Created() {
	suite.createCouriers.
		On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateCouriersCommand) bool {
			couriers := cmd.Couriers()
			return len(couriers) == 2 &&
				couriers[0].ID() == 1 && couriers[0].Type() == courier.Foot &&
				couriers[1].ID() == 2 && couriers[1].Type() == courier.Bike
		})).
		Return([]int64{1, 2}, nil).
		Once()

	rec := suite.do(http.MethodPost, "/couriers", `{"data":[
		{"courier_id":1,"courier_type":"foot","regions":[1,12,22],"working_hours":["11:35-14:05","09:00-11:00"]},
		{"courier_id":2,"courier_type":"bike","regions":[22],"working_hours":["09:00-18:00"]}
	]}`)

	suite.Equal(http.StatusCreated, rec.Code)
	suite.JSONEq(`{"couriers":[{"id":1},{"id":2}]}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestCreateCouriers_ListsEveryInvalidRecord() {
	rec := suite.do(http.MethodPost, "/couriers", `{"data":[
		{"courier_id":1,"courier_type":"foot","regions":[1],"working_hours":["11:35-14:05"]},
		{"courier_id":2,"courier_type":"plane","regions":[1],"working_hours":[]},
		{"courier_id":3,"courier_type":"bike","regions":[1],"working_hours":[],"extra":1},
		{"courier_id":4,"courier_type":"car","regions":[1],"working_hours":["9:00-18:00"]},
		{"courier_id":0,"courier_type":"car","regions":[1],"working_hours":[]}
	]}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.assertGolden("create_couriers_invalid", rec)
	suite.createCouriers.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestCreateCouriers_EnvelopeRejectedByDocument() {
	for _, body := range []string{`{}`, `{"data":[],"extra":true}`, `{"data":{}}`} {
		rec := suite.do(http.MethodPost, "/couriers", body)

		suite.Equal(http.StatusBadRequest, rec.Code, body)
		var response validationErrorResponse
		suite.decode(rec, &response)
		suite.Contains(response.ValidationError, "couriers", body)
		suite.Empty(response.ValidationError["couriers"], body)
		suite.NotEmpty(response.Message, body)
	}
}

func (suite *ServerTestSuite) TestCreateCouriers_Duplicate() {
	suite.createCouriers.
		On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectAlreadyExistsErrorWithCause("courier", int64(1), errors.New("unique violation"))).
		Once()

	rec := suite.do(http.MethodPost, "/couriers",
		`{"data":[{"courier_id":1,"courier_type":"foot","regions":[1],"working_hours":[]}]}`)

	suite.Equal(http.StatusConflict, rec.Code)
	suite.assertGolden("create_couriers_duplicate", rec)
}

func (suite *ServerTestSuite) TestGetCourier_Report() {
	rating := 4.17
	suite.courierReport.
		On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetCourierReportQuery) bool {
			return q.CourierID() == 2
		})).
		Return(queries.GetCourierReportQueryResponse{
			CourierID:    2,
			CourierType:  "bike",
			Regions:      []int{22, 1},
			WorkingHours: []string{"09:00-18:00"},
			Earnings:     2500,
			Rating:       &rating,
		}, nil).
		Once()

	rec := suite.do(http.MethodGet, "/couriers/2", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.assertGolden("courier_report", rec)
}

func (suite *ServerTestSuite) TestGetCourier_WithoutRating_OmitsField() {
	suite.courierReport.
		On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetCourierReportQueryResponse{CourierID: 1, CourierType: "foot"}, nil).
		Once()

	rec := suite.do(http.MethodGet, "/couriers/1", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"courier_id":1,"courier_type":"foot","regions":[],"working_hours":[],"earnings":0}`,
		rec.Body.String())
}

func (suite *ServerTestSuite) TestGetCourier_Unknown_NotFound() {
	suite.courierReport.
		On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetCourierReportQueryResponse{}, errs.NewObjectNotFoundError("courier_id", int64(1337))).
		Once()

	rec := suite.do(http.MethodGet, "/couriers/1337", "")

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.assertGolden("courier_not_found", rec)
}

func (suite *ServerTestSuite) TestGetCourier_MalformedID() {
	for _, id := range []string{"abc", "1.5"} {
		rec := suite.do(http.MethodGet, "/couriers/"+id, "")
		suite.Equal(http.StatusBadRequest, rec.Code, id)
	}

	rec := suite.do(http.MethodGet, "/couriers/0", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestPatchCourier_ReturnsProfile() {
	hours, err := kernel.ParseTimeWindows([]string{"09:00-18:00"})
	suite.Require().NoError(err)
	updated, err := courier.NewCourier(2, courier.Car, []int{22, 5}, hours)
	suite.Require().NoError(err)

	suite.patchCourier.
		On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PatchCourierCommand) bool {
			return cmd.CourierID() == 2 &&
				cmd.Changes().Has(courier.RegionsChanged) &&
				cmd.Changes().Has(courier.TypeChanged) &&
				!cmd.Changes().Has(courier.WorkingHoursChanged)
		})).
		Return(updated, nil).
		Once()

	rec := suite.do(http.MethodPatch, "/couriers/2", `{"courier_type":"car","regions":[22,5],"working_hours":null}`)

	suite.Equal(http.StatusOK, rec.Code)
	suite.assertGolden("patch_courier", rec)
}

func (suite *ServerTestSuite) TestPatchCourier_Unknown_NotFound() {
	suite.patchCourier.
		On("Handle", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("load courier: %w", errs.NewObjectNotFoundError("courier_id", int64(9)))).
		Once()

	rec := suite.do(http.MethodPatch, "/couriers/9", `{"regions":[1]}`)

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.JSONEq(`{"messages":["Courier with courier_id = 9 is not found."]}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestPatchCourier_InvalidBody() {
	testCases := map[string]string{
		"unknown field": `{"name":"Bob"}`,
		"wrong type":    `{"regions":"north"}`,
		"bad window":    `{"working_hours":["9-18"]}`,
		"bad courier":   `{"courier_type":"plane"}`,
	}

	for name, body := range testCases {
		rec := suite.do(http.MethodPatch, "/couriers/2", body)

		suite.Equal(http.StatusBadRequest, rec.Code, name)
		var response messagesResponse
		suite.decode(rec, &response)
		suite.NotEmpty(response.Messages, name)
	}
}

func (suite *ServerTestSuite) TestCreateOrders_StampsCreationTime() {
	suite.createOrders.
		On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrdersCommand) bool {
			orders := cmd.Orders()
			return len(orders) == 1 &&
				orders[0].ID() == 1 &&
				orders[0].Weight().Equal(decimal.RequireFromString("0.23")) &&
				orders[0].DateCreated().Equal(now)
		})).
		Return([]int64{1}, nil).
		Once()

	rec := suite.do(http.MethodPost, "/orders",
		`{"data":[{"order_id":1,"weight":0.23,"region":12,"delivery_hours":["09:00-18:00"]}]}`)

	suite.Equal(http.StatusCreated, rec.Code)
	suite.JSONEq(`{"orders":[{"id":1}]}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestCreateOrders_InvalidRecords() {
	rec := suite.do(http.MethodPost, "/orders", `{"data":[
		{"order_id":1,"weight":0.23,"region":12,"delivery_hours":[]},
		{"order_id":2,"weight":0,"region":12,"delivery_hours":[]},
		{"order_id":3,"weight":51,"region":12,"delivery_hours":[]},
		{"order_id":4,"region":12,"delivery_hours":[]}
	]}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	var response validationErrorResponse
	suite.decode(rec, &response)
	suite.Equal([]idResponse{{ID: 4}, {ID: 2}, {ID: 3}}, response.ValidationError["orders"])
	suite.Contains(response.Message, "order 4: weight is required")
	suite.createOrders.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestAssignOrders_Batch() {
	assignedAt := time.Date(2021, 1, 10, 9, 32, 14, 420*int(time.Millisecond), time.UTC)
	suite.assignOrders.
		On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignOrdersCommand) bool {
			return cmd.CourierID() == 2
		})).
		Return(commands.AssignOrdersResult{OrderIDs: []int64{1, 3}, AssignedAt: &assignedAt}, nil).
		Once()

	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":2}`)

	suite.Equal(http.StatusOK, rec.Code)
	suite.assertGolden("assign_orders", rec)
}

func (suite *ServerTestSuite) TestAssignOrders_NothingToAssign() {
	suite.assignOrders.
		On("Handle", mock.Anything, mock.Anything).
		Return(commands.AssignOrdersResult{OrderIDs: []int64{}}, nil).
		Once()

	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":2}`)

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"orders":[]}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestAssignOrders_UnknownCourier_BadRequest() {
	suite.assignOrders.
		On("Handle", mock.Anything, mock.Anything).
		Return(commands.AssignOrdersResult{}, errs.NewObjectNotFoundError("courier_id", int64(1337))).
		Once()

	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":1337}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.assertGolden("courier_not_found", rec)
}

func (suite *ServerTestSuite) TestAssignOrders_InvalidCourierID() {
	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":0}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.JSONEq(`{"messages":["courier_id must be greater than 0"]}`, rec.Body.String())

	rec = suite.do(http.MethodPost, "/orders/assign", `{}`)
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestCompleteOrder_Completed() {
	suite.completeOrder.
		On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CompleteOrderCommand) bool {
			expected := time.Date(2021, 1, 10, 10, 33, 1, 420*int(time.Millisecond), time.UTC)
			return cmd.CourierID() == 2 && cmd.OrderID() == 3 && cmd.CompleteTime().Equal(expected)
		})).
		Return(int64(3), nil).
		Once()

	rec := suite.do(http.MethodPost, "/orders/complete",
		`{"courier_id":2,"order_id":3,"complete_time":"2021-01-10T13:33:01.42+03:00"}`)

	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"order_id":3}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestCompleteOrder_DomainErrors() {
	testCases := map[string]error{
		"order 3: order is not assigned yet":           fmt.Errorf("order 3: %w", order.ErrNotAssignedYet),
		"order 3: order is assigned to another courier": fmt.Errorf("order 3: %w", order.ErrAssignedToOtherCourier),
		"order 3: order is already completed":          fmt.Errorf("order 3: %w", order.ErrAlreadyCompleted),
		"Order with order_id = 3 is not found.":        errs.NewObjectNotFoundError("order_id", int64(3)),
	}

	for expected, err := range testCases {
		suite.completeOrder.ExpectedCalls = nil
		suite.completeOrder.On("Handle", mock.Anything, mock.Anything).Return(int64(0), err).Once()

		rec := suite.do(http.MethodPost, "/orders/complete",
			`{"courier_id":2,"order_id":3,"complete_time":"2021-01-10T10:33:01.42Z"}`)

		suite.Equal(http.StatusBadRequest, rec.Code, expected)
		var response messagesResponse
		suite.decode(rec, &response)
		suite.Equal([]string{expected}, response.Messages)
	}
}

func (suite *ServerTestSuite) TestCompleteOrder_MalformedTime() {
	rec := suite.do(http.MethodPost, "/orders/complete",
		`{"courier_id":2,"order_id":3,"complete_time":"yesterday"}`)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.completeOrder.AssertNotCalled(suite.T(), "Handle", mock.Anything, mock.Anything)
}

func (suite *ServerTestSuite) TestUnexpectedError_InternalError() {
	suite.assignOrders.
		On("Handle", mock.Anything, mock.Anything).
		Return(commands.AssignOrdersResult{}, errors.New("connection reset")).
		Once()

	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":2}`)

	suite.Equal(http.StatusInternalServerError, rec.Code)
	suite.assertGolden("internal_error", rec)
}

func (suite *ServerTestSuite) TestPanic_InternalError() {
	suite.assignOrders.
		On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") }).
		Once()

	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":2}`)

	suite.Equal(http.StatusInternalServerError, rec.Code)
	suite.assertGolden("internal_error", rec)
}

func (suite *ServerTestSuite) TestLockTimeout_ServiceUnavailable() {
	suite.assignOrders.
		On("Handle", mock.Anything, mock.Anything).
		Return(commands.AssignOrdersResult{}, context.DeadlineExceeded).
		Once()

	rec := suite.do(http.MethodPost, "/orders/assign", `{"courier_id":2}`)

	suite.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (suite *ServerTestSuite) TestRequestID() {
	rec := suite.do(http.MethodGet, "/health", "")

	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("Healthy", rec.Body.String())
	suite.NotEmpty(rec.Header().Get(echo.HeaderXRequestID))
}

func (suite *ServerTestSuite) TestMetricsAndDocs() {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "Probe."})
	suite.registry.MustRegister(counter)
	counter.Inc()

	rec := suite.do(http.MethodGet, "/metrics", "")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "probe_total 1")

	rec = suite.do(http.MethodGet, "/swagger/doc.json", "")
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "Sweets delivery dispatch")
}

func (suite *ServerTestSuite) TestUnknownRoute_NotFound() {
	rec := suite.do(http.MethodGet, "/unknown", "")

	suite.Equal(http.StatusNotFound, rec.Code)
}

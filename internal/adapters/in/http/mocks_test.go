package http

import (
	"context"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/core/application/usecases/queries"
	"sweetdelivery/internal/core/domain/model/courier"

	"github.com/stretchr/testify/mock"
)

type MockCreateCouriersHandler struct {
	mock.Mock
}

func (m *MockCreateCouriersHandler) Handle(ctx context.Context, cmd commands.CreateCouriersCommand) ([]int64, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockPatchCourierHandler struct {
	mock.Mock
}

func (m *MockPatchCourierHandler) Handle(ctx context.Context, cmd commands.PatchCourierCommand) (*courier.Courier, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

type MockCreateOrdersHandler struct {
	mock.Mock
}

func (m *MockCreateOrdersHandler) Handle(ctx context.Context, cmd commands.CreateOrdersCommand) ([]int64, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockAssignOrdersHandler struct {
	mock.Mock
}

func (m *MockAssignOrdersHandler) Handle(
	ctx context.Context,
	cmd commands.AssignOrdersCommand,
) (commands.AssignOrdersResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AssignOrdersResult), args.Error(1)
}

type MockCompleteOrderHandler struct {
	mock.Mock
}

func (m *MockCompleteOrderHandler) Handle(ctx context.Context, cmd commands.CompleteOrderCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type MockCourierReportHandler struct {
	mock.Mock
}

func (m *MockCourierReportHandler) Handle(
	ctx context.Context,
	query queries.GetCourierReportQuery,
) (queries.GetCourierReportQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetCourierReportQueryResponse), args.Error(1)
}

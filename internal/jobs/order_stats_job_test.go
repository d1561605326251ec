package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sweetdelivery/internal/core/application/usecases/queries"
	"sweetdelivery/internal/pkg/logger"
	"sweetdelivery/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderStatsHandler struct {
	mock.Mock
}

func (m *MockOrderStatsHandler) Handle(
	ctx context.Context,
	query queries.GetOrderStatsQuery,
) (queries.GetOrderStatsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderStatsQueryResponse), args.Error(1)
}

func TestOrderStatsJob_Run_SetsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := new(MockOrderStatsHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderStatsQueryResponse{Counts: map[string]int64{
			"unassigned": 4,
			"assigned":   2,
			"completed":  0,
		}}, nil).
		Once()

	job, err := NewOrderStatsJob(handler, metrics.NewDispatchMetrics(reg), "@every 1m", logger.Nop())
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))

	expected := `
# HELP dispatch_orders Orders in the store by status.
# TYPE dispatch_orders gauge
dispatch_orders{status="assigned"} 2
dispatch_orders{status="completed"} 0
dispatch_orders{status="unassigned"} 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "dispatch_orders"))
	handler.AssertExpectations(t)
}

func TestOrderStatsJob_Run_ReturnsQueryError(t *testing.T) {
	handler := new(MockOrderStatsHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderStatsQueryResponse{}, errors.New("db down")).
		Once()

	job, err := NewOrderStatsJob(handler, nil, "@every 1m", logger.Nop())
	require.NoError(t, err)

	assert.EqualError(t, job.Run(context.Background()), "db down")
}

func TestNewOrderStatsJob_Schedules(t *testing.T) {
	for _, schedule := range []string{"@every 15s", "*/30 * * * * *", "0 * * * *"} {
		_, err := NewOrderStatsJob(new(MockOrderStatsHandler), nil, schedule, logger.Nop())
		assert.NoError(t, err, schedule)
	}

	_, err := NewOrderStatsJob(new(MockOrderStatsHandler), nil, "every minute", logger.Nop())
	assert.Error(t, err)
}

func TestOrderStatsJob_StartPublishesImmediately(t *testing.T) {
	handler := new(MockOrderStatsHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetOrderStatsQueryResponse{Counts: map[string]int64{}}, nil)

	job, err := NewOrderStatsJob(handler, nil, "@every 1h", logger.Nop())
	require.NoError(t, err)

	manager := NewJobManager(job)
	require.NoError(t, manager.StartAll())
	manager.StopAll()

	handler.AssertNumberOfCalls(t, "Handle", 1)
}

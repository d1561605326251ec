package jobs

import (
	"context"
	"fmt"
	"time"

	"sweetdelivery/internal/core/application/usecases/queries"
	"sweetdelivery/internal/pkg/logger"
	"sweetdelivery/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const orderStatsTimeout = 10 * time.Second

// OrderStatsHandler reads the order counts by status.
type OrderStatsHandler interface {
	Handle(ctx context.Context, query queries.GetOrderStatsQuery) (queries.GetOrderStatsQueryResponse, error)
}

// OrderStatsJob periodically publishes the number of orders per status.
type OrderStatsJob struct {
	handler  OrderStatsHandler
	metrics  *metrics.DispatchMetrics
	schedule string
	cron     *cron.Cron
	logger   *logger.Logger
}

// NewOrderStatsJob validates schedule and creates the job.
func NewOrderStatsJob(
	handler OrderStatsHandler,
	m *metrics.DispatchMetrics,
	schedule string,
	log *logger.Logger,
) (*OrderStatsJob, error) {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid order stats schedule %q: %w", schedule, err)
	}

	return &OrderStatsJob{
		handler:  handler,
		metrics:  m,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
		logger:   log.Component("order_stats_job"),
	}, nil
}

func (j *OrderStatsJob) Name() string {
	return "order stats job"
}

// Start publishes the counts once and then on every tick.
func (j *OrderStatsJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.tick); err != nil {
		return err
	}

	j.tick()
	j.cron.Start()
	j.logger.Info(context.Background(), "Order stats job started")
	return nil
}

// Stop waits for a running tick to finish.
func (j *OrderStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info(context.Background(), "Order stats job stopped")
}

func (j *OrderStatsJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), orderStatsTimeout)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		j.logger.Error(ctx, "Order stats job failed", err)
	}
}

// Run reads the counts and sets the gauge.
func (j *OrderStatsJob) Run(ctx context.Context) error {
	stats, err := j.handler.Handle(ctx, queries.NewGetOrderStatsQuery())
	if err != nil {
		return err
	}
	for status, count := range stats.Counts {
		j.metrics.SetOrders(status, count)
	}
	return nil
}

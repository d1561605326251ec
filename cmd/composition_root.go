package cmd

import (
	"context"
	"fmt"

	httpin "sweetdelivery/internal/adapters/in/http"
	"sweetdelivery/internal/adapters/out/lock"
	"sweetdelivery/internal/adapters/out/postgres"
	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/core/application/usecases/queries"
	"sweetdelivery/internal/core/ports"
	"sweetdelivery/internal/jobs"
	"sweetdelivery/internal/pkg/logger"
	"sweetdelivery/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	storeLock  ports.StoreLock
	registry   *prometheus.Registry
	metrics    *metrics.DispatchMetrics
	logger     *logger.Logger
	closers    []func() error
}

// NewCompositionRoot wires the adapters around gormDB. The store lock is
// in-process unless the config selects redis.
func NewCompositionRoot(config Config, gormDB *gorm.DB, log *logger.Logger) (*CompositionRoot, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	dispatchMetrics := metrics.NewDispatchMetrics(registry)

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   registry,
		metrics:    dispatchMetrics,
		logger:     log,
	}

	storeLock, err := c.newStoreLock()
	if err != nil {
		return nil, err
	}
	c.storeLock = storeLock

	return c, nil
}

func (c *CompositionRoot) newStoreLock() (ports.StoreLock, error) {
	if c.config.LockBackend != lock.BackendRedis {
		return lock.NewLocalLock(c.metrics), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.config.RedisAddr,
		Password: c.config.RedisPassword,
		DB:       c.config.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	c.closers = append(c.closers, client.Close)

	return lock.NewRedisLock(client, lock.RedisLockOptions{
		Key:          c.config.LockKey,
		TTL:          c.config.LockTTL,
		PollInterval: c.config.LockPollInterval,
	}, c.metrics)
}

func (c *CompositionRoot) CreateCreateCouriersCommandHandler() commands.CreateCouriersCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCouriersCommandHandler(f, c.storeLock)
}

func (c *CompositionRoot) CreateCreateOrdersCommandHandler() commands.CreateOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrdersCommandHandler(f, c.storeLock)
}

func (c *CompositionRoot) CreatePatchCourierCommandHandler() commands.PatchCourierCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewPatchCourierCommandHandler(f, c.storeLock, c.metrics)
}

func (c *CompositionRoot) CreateAssignOrdersCommandHandler() commands.AssignOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignOrdersCommandHandler(f, c.storeLock, commands.SystemClock, c.metrics)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteOrderCommandHandler(
		f, c.storeLock, c.config.StrictCompletionTime, c.logger.Component("complete_order"), c.metrics)
}

func (c *CompositionRoot) CreateGetCourierReportQueryHandler() queries.GetCourierReportQueryHandler {
	return queries.NewGetCourierReportQueryHandler(c.gormDB, c.storeLock)
}

func (c *CompositionRoot) CreateGetOrderStatsQueryHandler() queries.GetOrderStatsQueryHandler {
	return queries.NewGetOrderStatsQueryHandler(c.gormDB)
}

// CreateRouter builds the HTTP surface over every use case.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateCouriers: c.CreateCreateCouriersCommandHandler(),
		PatchCourier:   c.CreatePatchCourierCommandHandler(),
		CreateOrders:   c.CreateCreateOrdersCommandHandler(),
		AssignOrders:   c.CreateAssignOrdersCommandHandler(),
		CompleteOrder:  c.CreateCompleteOrderCommandHandler(),
		CourierReport:  c.CreateGetCourierReportQueryHandler(),
	}, httpin.NewRequestValidator(), commands.SystemClock)

	return httpin.NewRouter(server, httpin.RouterOptions{
		Logger:           c.logger.Component("http"),
		Gatherer:         c.registry,
		OperationTimeout: c.config.OperationTimeout,
	})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	statsJob, err := jobs.NewOrderStatsJob(
		c.CreateGetOrderStatsQueryHandler(), c.metrics, c.config.StatsSchedule, c.logger)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(statsJob), nil
}

// Close releases the connections opened by the root. The database handle
// belongs to the caller.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

package http

import (
	"time"

	"sweetdelivery/api"
	"sweetdelivery/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterOptions configures the ambient parts of the HTTP surface.
type RouterOptions struct {
	Logger           *logger.Logger
	Gatherer         prometheus.Gatherer
	OperationTimeout time.Duration
}

// NewRouter builds the echo instance serving the dispatch API.
func NewRouter(server *Server, opts RouterOptions) (*echo.Echo, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	doc, err := api.Load()
	if err != nil {
		return nil, err
	}
	validateRequest, err := openAPIValidator(doc)
	if err != nil {
		return nil, err
	}
	if err := registerSwaggerDoc(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLogLevel(log.Zerolog().GetLevel()))
	e.Validator = server.validator
	e.HTTPErrorHandler = NewErrorHandler(log)

	e.Use(requestID(log))
	e.Use(requestLogger(log))
	e.Use(recoverer(log))

	e.GET("/health", server.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	dispatch := e.Group("", requestTimeout(opts.OperationTimeout), validateRequest)
	dispatch.POST("/couriers", server.CreateCouriers)
	dispatch.GET("/couriers/:courier_id", server.GetCourier)
	dispatch.PATCH("/couriers/:courier_id", server.PatchCourier)
	dispatch.POST("/orders", server.CreateOrders)
	dispatch.POST("/orders/assign", server.AssignOrders)
	dispatch.POST("/orders/complete", server.CompleteOrder)

	return e, nil
}

func echoLogLevel(level zerolog.Level) gommonlog.Lvl {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return gommonlog.DEBUG
	case zerolog.InfoLevel:
		return gommonlog.INFO
	case zerolog.WarnLevel:
		return gommonlog.WARN
	case zerolog.ErrorLevel:
		return gommonlog.ERROR
	}
	return gommonlog.OFF
}

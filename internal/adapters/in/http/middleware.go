package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/pkg/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Bulk imports report document violations in the validation_error shape.
var bulkOperations = map[string]string{
	"CreateCouriers": commands.RecordsCouriers,
	"CreateOrders":   commands.RecordsOrders,
}

// openAPIValidator rejects requests that do not match the document.
// Paths outside the document (health, metrics, docs) pass through.
func openAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{MultiError: true}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err == nil {
				return next(c)
			}

			messages := openAPIMessages(err)
			if kind, ok := bulkOperations[route.Operation.OperationID]; ok {
				return &recordsError{kind: kind, messages: messages}
			}
			return &requestError{messages: messages}
		}
	}, nil
}

func openAPIMessages(err error) []string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var messages []string
		for _, inner := range multi {
			messages = append(messages, openAPIMessages(inner)...)
		}
		return messages
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if path := schemaErr.JSONPointer(); len(path) > 0 {
			return []string{strings.Join(path, ".") + ": " + schemaErr.Reason}
		}
		return []string{schemaErr.Reason}
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Err != nil {
		return []string{reqErr.Err.Error()}
	}
	return []string{err.Error()}
}

// requestID tags every request with an X-Request-ID and carries it in the
// request context logger.
func requestID(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(log.WithRequestID(req.Context(), id)))
		},
	})
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := log.WithFields(c.Request().Context(), map[string]any{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			log.Info(ctx, "request")
			return nil
		},
	})
}

func recoverer(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			ctx := log.WithField(c.Request().Context(), "stack", string(stack))
			log.Error(ctx, "handler panicked", err)
			return err
		},
	})
}

// requestTimeout bounds the handler context, including the wait for the store lock.
func requestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if timeout <= 0 {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

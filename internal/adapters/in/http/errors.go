package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/core/domain/model/order"
	"sweetdelivery/internal/pkg/errs"
	"sweetdelivery/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal error"

// requestError is a malformed request answered with 400 {"messages": [...]}.
type requestError struct {
	messages []string
}

func (e *requestError) Error() string {
	return strings.Join(e.messages, "; ")
}

// recordsError is a rejected bulk import. Every invalid record id is listed.
type recordsError struct {
	kind     string
	ids      []int64
	messages []string
}

func (e *recordsError) Error() string {
	return fmt.Sprintf("invalid %s %v", e.kind, e.ids)
}

func (e *recordsError) add(id int64, messages ...string) {
	if !slices.Contains(e.ids, id) {
		e.ids = append(e.ids, id)
	}
	label := strings.TrimSuffix(e.kind, "s")
	for _, msg := range messages {
		e.messages = append(e.messages, fmt.Sprintf("%s %d: %s", label, id, msg))
	}
}

func (e *recordsError) merge(invalid *commands.InvalidRecordsError) {
	for _, id := range invalid.IDs {
		if !slices.Contains(e.ids, id) {
			e.ids = append(e.ids, id)
		}
	}
	e.messages = append(e.messages, invalid.Messages...)
}

// notFoundError marks a missing resource addressed by the request path.
type notFoundError struct {
	err error
}

func (e *notFoundError) Error() string { return e.err.Error() }

func (e *notFoundError) Unwrap() error { return e.err }

// NewErrorHandler renders every handler error as a JSON body. Unexpected
// errors are logged and answered with 500.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error(c.Request().Context(), "failed to write error response", err)
		}
	}
}

func errorResponse(err error) (int, any) {
	var (
		records  *recordsError
		request  *requestError
		notFound *notFoundError
		httpErr  *echo.HTTPError
	)

	switch {
	case errors.As(err, &records):
		return http.StatusBadRequest, validationErrorResponse{
			ValidationError: map[string][]idResponse{records.kind: toIDs(records.ids)},
			Message:         nonNil(records.messages),
		}
	case errors.As(err, &request):
		return http.StatusBadRequest, messagesResponse{Messages: request.messages}
	case errors.As(err, &notFound):
		return http.StatusNotFound, messagesResponse{Messages: []string{describe(notFound.err)}}
	case errors.As(err, &httpErr):
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, internalErrorResponse{Messages: internalErrorMessage}
		}
		return httpErr.Code, messagesResponse{Messages: []string{fmt.Sprint(httpErr.Message)}}
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict, messagesResponse{Messages: []string{describe(err)}}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, messagesResponse{Messages: []string{"Store is busy, try again later"}}
	case isDomainError(err):
		return http.StatusBadRequest, messagesResponse{Messages: domainMessages(err)}
	}
	return http.StatusInternalServerError, internalErrorResponse{Messages: internalErrorMessage}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		order.ErrNotAssignedYet,
		order.ErrAssignedToOtherCourier,
		order.ErrAlreadyCompleted,
		order.ErrCompletionBeforeAssignment,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func domainMessages(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{describe(err)}
	}
	var messages []string
	for _, inner := range joined.Unwrap() {
		messages = append(messages, domainMessages(inner)...)
	}
	return messages
}

// describe renders lookup errors the way clients know them:
// "Courier with courier_id = 1337 is not found."
func describe(err error) string {
	var (
		notFound *errs.ObjectNotFoundError
		exists   *errs.ObjectAlreadyExistsError
	)
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("%s with %s = %v is not found.",
			entityName(notFound.ParamName), notFound.ParamName, notFound.ID)
	case errors.As(err, &exists):
		return fmt.Sprintf("%s with %s_id = %v already exists.",
			entityName(exists.ParamName), exists.ParamName, exists.ID)
	}
	return err.Error()
}

func entityName(param string) string {
	name := strings.TrimSuffix(param, "_id")
	if name == "" {
		return param
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func nonNil(messages []string) []string {
	if messages == nil {
		return []string{}
	}
	return messages
}

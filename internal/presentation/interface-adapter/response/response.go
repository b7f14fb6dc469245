package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
)

// Response is the success envelope. Data is always present and may be null.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// setTraceHeaders exposes the active trace to the client for correlation
func setTraceHeaders(c echo.Context) {
	span, ok := tracer.SpanFromContext(c.Request().Context())
	if !ok {
		return
	}
	spanContext := span.Context()
	h := c.Response().Header()
	h.Set("X-Datadog-Trace-Id", fmt.Sprintf("%d", spanContext.TraceID()))
	h.Set("X-Datadog-Span-Id", fmt.Sprintf("%d", spanContext.SpanID()))
}

// Success sends a success envelope with trace headers
func Success(c echo.Context, status int, data interface{}) error {
	setTraceHeaders(c)
	return c.JSON(status, Response{Success: true, Data: data})
}

// Fail sends a failure envelope with an explicit status and message
func Fail(c echo.Context, status int, message string) error {
	setTraceHeaders(c)
	return c.JSON(status, ErrorResponse{Success: false, Message: message})
}

// Error classifies err and sends the matching failure envelope. echo's own HTTP errors keep
// their status. Internal errors are logged in full and shown to the client only as a generic message.
func Error(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		return Fail(c, he.Code, message)
	}

	appErr := apperror.As(err)
	if appErr.Code == apperror.CodeInternal {
		ctx := c.Request().Context()
		if span, ok := tracer.SpanFromContext(ctx); ok {
			span.SetTag("error", true)
			span.SetTag("error.msg", err.Error())
		}
		logging.LogErrorWithTrace(ctx, appcontext.GetLogger(ctx), "handler", "Request failed", err, logrus.Fields{
			"http.method": c.Request().Method,
			"http.url":    c.Request().URL.Path,
		})
	}
	return Fail(c, appErr.Status(), appErr.PublicMessage())
}

// HTTPErrorHandler renders errors that escape handlers, including echo's own
// routing and body-limit errors, with the failure envelope
func HTTPErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			status := apperror.StatusOf(apperror.CodeOf(err))
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
			sendErr = c.NoContent(status)
		} else {
			sendErr = Error(c, err)
		}

		if sendErr != nil {
			logging.LogErrorWithTrace(c.Request().Context(), logger, "handler", "Failed to send error response", sendErr, nil)
		}
	}
}

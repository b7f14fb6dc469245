package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/kanehiroyuu/post-api/internal/common/apperror"
	appcontext "github.com/kanehiroyuu/post-api/internal/common/context"
	"github.com/kanehiroyuu/post-api/internal/common/logging"
	"github.com/kanehiroyuu/post-api/internal/presentation/interface-adapter/response"
)

// EchoRecoveryMiddleware recovers from panics and logs them with trace information
func EchoRecoveryMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.recovery")
			defer span.Finish()

			c.SetRequest(c.Request().WithContext(ctx))

			// captured before next runs so a panic cannot lose them
			spanContext := span.Context()
			traceID := strconv.FormatUint(spanContext.TraceID(), 10)
			spanID := strconv.FormatUint(spanContext.SpanID(), 10)

			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				stackTrace := string(debug.Stack())
				panicErr := fmt.Errorf("panic recovered: %v", r)

				logging.LogErrorWithTrace(ctx, appcontext.GetLogger(ctx), "middleware", "Panic recovered", panicErr, logrus.Fields{
					"panic.value":       fmt.Sprintf("%v", r),
					"panic.stack_trace": stackTrace,
					"http.method":       c.Request().Method,
					"http.url":          c.Request().URL.Path,
					"dd.trace_id":       traceID,
					"dd.span_id":        spanID,
				})

				span.SetTag("error", true)
				span.SetTag("error.type", "panic")
				span.SetTag("error.msg", panicErr.Error())
				span.SetTag("error.stack", stackTrace)

				if c.Response().Committed {
					return
				}
				returnErr = response.Fail(c, http.StatusInternalServerError, apperror.InternalMessage)
			}()

			return next(c)
		}
	}
}

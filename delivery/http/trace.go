package http

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span returns the request context and the span started for it by the tracing middleware.
func Span(c echo.Context) (context.Context, trace.Span) {
	ctx := c.Request().Context()
	return ctx, trace.SpanFromContext(ctx)
}

// RecordSpanError marks the request span as failed with err. A nil err is a no-op.
// The span is ended by the middleware.
func RecordSpanError(c echo.Context, err error) {
	if err == nil {
		return
	}

	span := trace.SpanFromContext(c.Request().Context())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/0x-tools/ordersim/domain"
)

// GoMiddleware holds the middleware shared by all routes.
type GoMiddleware struct {
	corsConfig domain.CORSConfig
}

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordersim_requests_total",
			Help: "Total number of requests by method, route and status code.",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ordersim_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestLatency)
}

// InitMiddleware creates the middleware. A nil corsConfig sends no CORS headers.
func InitMiddleware(corsConfig *domain.CORSConfig) *GoMiddleware {
	m := &GoMiddleware{}
	if corsConfig != nil {
		m.corsConfig = *corsConfig
	}
	return m
}

// CORS sets the configured CORS headers and answers preflight requests directly.
func (m *GoMiddleware) CORS(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Response().Header()
		if m.corsConfig.AllowedOrigin != "" {
			header.Set(echo.HeaderAccessControlAllowOrigin, m.corsConfig.AllowedOrigin)
			header.Set(echo.HeaderAccessControlAllowHeaders, m.corsConfig.AllowedHeaders)
			header.Set(echo.HeaderAccessControlAllowMethods, m.corsConfig.AllowedMethods)
		}

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusNoContent)
		}

		return next(c)
	}
}

// InstrumentMiddleware stores the request path in the context and records request count and latency.
func (m *GoMiddleware) InstrumentMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		requestMethod := c.Request().Method
		requestPath, err := domain.ParseURLPath(c)
		if err != nil {
			return err
		}

		ctx := context.WithValue(c.Request().Context(), domain.RequestPathCtxKey, requestPath)
		c.SetRequest(c.Request().WithContext(ctx))

		err = next(c)
		if err != nil {
			// Let echo write the response so the recorded status is final.
			c.Error(err)
		}

		requestLatency.WithLabelValues(requestMethod, requestPath).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(requestMethod, requestPath, strconv.Itoa(c.Response().Status)).Inc()

		return nil
	}
}

// TraceWithParamsMiddleware starts a server span per request, continuing any propagated trace.
// The span is tagged with the route and the response status and is marked failed on 5xx.
func (m *GoMiddleware) TraceWithParamsMiddleware(tracerName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parentCtx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))

			ctx, span := otel.Tracer(tracerName).Start(parentCtx, c.Path(), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", c.Request().Method),
				attribute.String("http.route", c.Path()),
				attribute.Int64("http.request_content_length", c.Request().ContentLength),
			)

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			status := c.Response().Status
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			return err
		}
	}
}

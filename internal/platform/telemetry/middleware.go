package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// TraceIDKey is the gin context key holding the active trace id. Error
// responses report it when present.
const TraceIDKey = "trace_id"

// httpMetrics holds the OpenTelemetry HTTP server instruments.
type httpMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics() (*httpMetrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware returns the otelgin tracing middleware followed by request
// metrics. The trace id is echoed in the X-Trace-ID response header and
// tagged on the request logger.
func Middleware(serviceName string) []gin.HandlerFunc {
	metrics, err := newHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		func(c *gin.Context) {
			start := time.Now()
			ctx := c.Request.Context()
			route := attribute.String("http.route", c.FullPath())
			method := attribute.String("http.method", c.Request.Method)

			if metrics != nil {
				metrics.activeRequests.Add(ctx, 1, metric.WithAttributes(method, route))
				defer metrics.activeRequests.Add(ctx, -1, metric.WithAttributes(method, route))
			}

			if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
				traceID := sc.TraceID().String()

				c.Set(TraceIDKey, traceID)
				c.Header("X-Trace-ID", traceID)
				c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
			}

			c.Next()

			if metrics != nil {
				attrs := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
				metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
				metrics.requestTotal.Add(ctx, 1, attrs)
			}
		},
	}
}

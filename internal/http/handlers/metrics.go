package handlers

import (
	"bytes"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"
)

var (
	checkInsTotal     *prometheus.CounterVec
	checkOutsTotal    *prometheus.CounterVec
	scanFailuresTotal prometheus.Counter
	authFailuresTotal prometheus.Counter
)

// InitPrometheusMetrics registers the service's operational counters.
// The "path" label distinguishes the QR scan flow from the owner's
// manual toggle.
func InitPrometheusMetrics() {
	checkInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopattend",
			Name:      "check_ins_total",
			Help:      "Total number of attendance check-ins.",
		},
		[]string{"path"},
	)
	checkOutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopattend",
			Name:      "check_outs_total",
			Help:      "Total number of attendance check-outs.",
		},
		[]string{"path"},
	)
	scanFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shopattend",
			Name:      "scan_failures_total",
			Help:      "QR scans rejected as invalid or unauthorized.",
		},
	)
	authFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shopattend",
			Name:      "auth_failures_total",
			Help:      "Failed login attempts.",
		},
	)
	prometheus.MustRegister(checkInsTotal, checkOutsTotal, scanFailuresTotal, authFailuresTotal)
}

// RequestLogger logs one line per request.
func RequestLogger(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		log.Printf("%s %s -> %d (%s) ip=%s", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start), ctx.RemoteAddr())
	}
}

// MetricsHandler exposes the registered counters in Prometheus text format.
func MetricsHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to gather metrics")
			return
		}

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
		for _, mf := range metricFamilies {
			if err := encoder.Encode(mf); err != nil {
				errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode metrics")
				return
			}
		}

		ctx.SetContentType(string(expfmt.FmtText))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}

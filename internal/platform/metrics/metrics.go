package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry junta los collectors del engine; /metrics expone sólo éste.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pet_market",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests atendidos.",
		},
		[]string{"method", "route", "status"},
	)

	contractCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pet_market",
			Subsystem: "contract",
			Name:      "calls_total",
			Help:      "Llamadas a entry points de contratos, por resultado.",
		},
		[]string{"contract", "entry", "result"},
	)

	contractDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pet_market",
			Subsystem: "contract",
			Name:      "call_duration_seconds",
			Help:      "Duración de las llamadas, commit incluido.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"contract", "entry"},
	)

	effectsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pet_market",
			Subsystem: "contract",
			Name:      "effects_total",
			Help:      "Efectos salientes de llamadas commiteadas.",
		},
		[]string{"contract", "kind"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		contractCalls,
		contractDuration,
		effectsEmitted,
		prometheus.NewGoCollector(),
	)
}

// Handler expone Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordCall registra una llamada. result es "ok" o la clase de error.
func RecordCall(contract, entry, result string, d time.Duration) {
	contractCalls.WithLabelValues(contract, entry, result).Inc()
	contractDuration.WithLabelValues(contract, entry).Observe(d.Seconds())
}

func RecordEffect(contract, kind string) {
	effectsEmitted.WithLabelValues(contract, kind).Inc()
}

// InstrumentHandler cuenta requests por patrón de ruta chi.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		httpRequests.WithLabelValues(strings.ToUpper(r.Method), route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

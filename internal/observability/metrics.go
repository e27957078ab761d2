package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Call outcomes recorded on spice_native_calls_total.
const (
	OutcomeOK          = "ok"
	OutcomeNativeError = "native_error"
	OutcomeError       = "error"
)

// NativeCollector bundles Prometheus metrics for calls across the CSPICE
// boundary.
type NativeCollector struct {
	gatherer prometheus.Gatherer

	Calls         *prometheus.CounterVec
	CallDurations *prometheus.HistogramVec
	LoadedKernels prometheus.Gauge
}

// NewNativeCollector registers the native-call metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registering twice against the same registry returns the existing
// collectors.
func NewNativeCollector(reg prometheus.Registerer) (*NativeCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spice_native_calls_total",
		Help: "Total number of session operations crossing the CSPICE boundary, labeled by routine and outcome.",
	}, []string{"routine", "outcome"})
	calls, err := registerCounterVec(reg, calls, "spice_native_calls_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spice_native_call_duration_seconds",
		Help:    "Latency of session operations, lock wait excluded.",
		Buckets: []float64{1e-6, 1e-5, 1e-4, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"routine"})
	durations, err = registerHistogramVec(reg, durations, "spice_native_call_duration_seconds")
	if err != nil {
		return nil, err
	}

	loaded, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "spice_loaded_kernels",
		Help: "Number of kernel files currently loaded in the CSPICE kernel pool.",
	}), "spice_loaded_kernels")
	if err != nil {
		return nil, err
	}

	return &NativeCollector{
		gatherer:      gatherer,
		Calls:         calls,
		CallDurations: durations,
		LoadedKernels: loaded,
	}, nil
}

// ObserveCall records one session operation. It is safe on a nil collector.
func (c *NativeCollector) ObserveCall(routine, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if c.Calls != nil {
		c.Calls.WithLabelValues(routine, outcome).Inc()
	}
	if c.CallDurations != nil {
		c.CallDurations.WithLabelValues(routine).Observe(d.Seconds())
	}
}

// SetLoadedKernels publishes the current kernel count.
func (c *NativeCollector) SetLoadedKernels(n int) {
	if c == nil || c.LoadedKernels == nil {
		return
	}
	c.LoadedKernels.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *NativeCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

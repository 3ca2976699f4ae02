package recorder

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	frames     prometheus.Counter
	decisions  *prometheus.CounterVec
	recoveries prometheus.Counter
	drift      prometheus.Gauge
	volume     prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		frames: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "srec", Name: "frames_total", Help: "Rendered presentation records.",
		})),
		decisions: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "srec", Name: "pacer_decisions_total", Help: "Frame pacer decisions.",
		}, []string{"decision"})),
		recoveries: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "srec", Name: "capture_recoveries_total", Help: "Capture restarts after failures.",
		})),
		drift: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "srec", Name: "audio_drift_seconds", Help: "Accumulated audio drift.",
		})),
		volume: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "srec", Name: "audio_volume", Help: "Current audio level (0-100).",
		})),
	}
}

// register adds the collector to the registry or returns
// the one left there by a previous session.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

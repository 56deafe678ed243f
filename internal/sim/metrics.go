package sim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics receives every completed point.
type Metrics interface {
	ObservePoint(cfg Config, r Result)
}

// NopMetrics discards observations.
type NopMetrics struct{}

func (NopMetrics) ObservePoint(Config, Result) {}

// PrometheusMetrics exports simulation progress, labelled by fec,
// modulation and channel.
type PrometheusMetrics struct {
	bitsTotal      *prometheus.CounterVec   // Simulated source bits
	wrongBitsTotal *prometheus.CounterVec   // Source bits received in error
	pointsTotal    *prometheus.CounterVec   // Completed h² points
	lastBER        *prometheus.GaugeVec     // BER of the most recent point
	lastSER        *prometheus.GaugeVec     // SER of the most recent point
	lastSNR        *prometheus.GaugeVec     // Measured channel SNR of the most recent point
	pointDuration  *prometheus.HistogramVec // Wall time per point
}

var pointLabels = []string{"fec", "modulation", "channel"}

// NewPrometheusMetrics creates the collectors and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		bitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bersim_bits_total",
				Help: "Total source bits simulated",
			},
			pointLabels,
		),
		wrongBitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bersim_wrong_bits_total",
				Help: "Total source bits recovered in error",
			},
			pointLabels,
		),
		pointsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bersim_points_total",
				Help: "Total h² points completed",
			},
			pointLabels,
		),
		lastBER: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bersim_last_ber",
				Help: "Bit error rate of the most recent point",
			},
			pointLabels,
		),
		lastSER: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bersim_last_ser",
				Help: "Symbol error rate of the most recent point",
			},
			pointLabels,
		),
		lastSNR: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bersim_last_snr_db",
				Help: "Measured channel SNR in dB of the most recent point",
			},
			pointLabels,
		),
		pointDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bersim_point_duration_seconds",
				Help:    "Wall time to simulate one h² point",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			pointLabels,
		),
	}
}

// ObservePoint implements Metrics.
func (m *PrometheusMetrics) ObservePoint(cfg Config, r Result) {
	labels := prometheus.Labels{
		"fec":        cfg.FEC.Name(),
		"modulation": cfg.Modulation.Name(),
		"channel":    cfg.Channel.Name(),
	}
	m.bitsTotal.With(labels).Add(float64(r.Bits))
	m.wrongBitsTotal.With(labels).Add(float64(r.WrongBits))
	m.pointsTotal.With(labels).Inc()
	m.lastBER.With(labels).Set(r.BER)
	m.lastSER.With(labels).Set(r.SER)
	m.lastSNR.With(labels).Set(r.SNR)
	m.pointDuration.With(labels).Observe(r.Duration.Seconds())
}

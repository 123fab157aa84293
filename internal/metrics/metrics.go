// Package metrics holds the Prometheus collectors of the request gate.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "storefront"

// Registry holds the collectors of the running binary.
var Registry = prometheus.NewRegistry()

// Request outcomes.
const (
	OutcomeSent            = "sent"
	OutcomeInvalidTarget   = "invalid_target"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeTransportError  = "transport_error"
)

// Refresh exchange results.
const (
	ResultSuccess        = "success"
	ResultNoRefreshToken = "no_refresh_token"
	ResultNetwork        = "network"
	ResultRejected       = "rejected"
	ResultStoreError     = "store_error"
)

// GateMetrics are the collectors of one gate instance.
type GateMetrics struct {
	Requests             *prometheus.CounterVec
	RefreshExchanges     *prometheus.CounterVec
	RefreshWaiters       prometheus.Gauge
	Retries              prometheus.Counter
	RepeatedUnauthorized prometheus.Counter
}

// NewGateMetrics creates the gate collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	m := &GateMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gate",
				Name:      "requests_total",
				Help:      "Total number of gated requests by outcome.",
			},
			[]string{"outcome"},
		),
		RefreshExchanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gate",
				Name:      "refresh_exchanges_total",
				Help:      "Total number of token refresh attempts by result.",
			},
			[]string{"result"},
		),
		RefreshWaiters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "gate",
				Name:      "refresh_waiters",
				Help:      "Current number of callers waiting on the shared refresh.",
			},
		),
		Retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gate",
				Name:      "retries_total",
				Help:      "Total number of requests resent after a refresh.",
			},
		),
		RepeatedUnauthorized: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gate",
				Name:      "repeated_unauthorized_total",
				Help:      "Total number of retries rejected with 401 after a successful refresh.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.Requests,
			m.RefreshExchanges,
			m.RefreshWaiters,
			m.Retries,
			m.RepeatedUnauthorized,
		)
	}
	return m
}

// RecordRequest counts a gated request.
func (m *GateMetrics) RecordRequest(outcome string) {
	m.Requests.WithLabelValues(outcome).Inc()
}

// RecordRefresh counts a refresh attempt.
func (m *GateMetrics) RecordRefresh(result string) {
	m.RefreshExchanges.WithLabelValues(result).Inc()
}

// WriteText renders everything gathered by g in the text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

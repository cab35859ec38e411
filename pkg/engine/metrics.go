package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons used as the "reason" label.
const (
	ReasonMaxConnections = "max_connections"
	ReasonRate           = "rate"
	ReasonClientTimeout  = "client_timeout"
)

// Metrics holds the engine's connection collectors.
type Metrics struct {
	Active   prometheus.Gauge
	Accepted prometheus.Counter
	Rejected *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "srvconf_connections_active",
			Help: "Connections currently open.",
		}),
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "srvconf_connections_accepted_total",
			Help: "Connections accepted since start.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "srvconf_connections_rejected_total",
			Help: "Connections refused or dropped, by reason.",
		}, []string{"reason"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Active, m.Accepted, m.Rejected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

package signal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricSignalEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "visioconf_signal_events_total",
	Help: "Inbound signaling events by type",
}, []string{"type"})

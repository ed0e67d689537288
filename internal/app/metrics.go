package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnectedEndpoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "visioconf_connected_endpoints",
		Help: "Currently connected signaling endpoints",
	})

	metricActiveCalls = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "visioconf_active_pairwise_calls",
		Help: "Active 1:1 call pairs",
	})

	metricActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "visioconf_active_group_sessions",
		Help: "Active team group-call sessions",
	})

	metricPendingJoinRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "visioconf_pending_join_requests",
		Help: "Join requests awaiting owner approval",
	})

	metricBusyRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visioconf_busy_rejections_total",
		Help: "Calls rejected because the target was busy",
	})

	metricDisconnectCascades = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visioconf_disconnect_cascades_total",
		Help: "Disconnects that retired call state",
	})
)

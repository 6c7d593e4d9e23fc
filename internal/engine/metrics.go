package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardroom_actions_total",
			Help: "Game actions processed, by action and outcome code",
		},
		[]string{"action", "outcome"},
	)
	broadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boardroom_broadcast_events_total",
			Help: "State events delivered to live subscribers",
		},
	)
	saveFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boardroom_state_save_failures_total",
			Help: "Room state writes that failed at the store, by code",
		},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(actionsTotal)
	prometheus.MustRegister(broadcastsTotal)
	prometheus.MustRegister(saveFailuresTotal)
}

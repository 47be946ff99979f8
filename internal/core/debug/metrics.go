package debug

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ActiveConnections tracks the number of players currently connected.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "termninja_active_connections",
			Help: "Number of currently connected players",
		},
	)
	// RoundsPlayed counts rounds persisted per game.
	RoundsPlayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "termninja_rounds_played_total",
			Help: "Total rounds recorded, partitioned by game",
		},
		[]string{"game"},
	)
	// MenuRejects counts invalid game selections at the menu prompt.
	MenuRejects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "termninja_menu_rejects_total",
			Help: "Total invalid menu selections that triggered a re-prompt",
		},
	)
)

func init() {
	prometheus.MustRegister(ActiveConnections)
	prometheus.MustRegister(RoundsPlayed)
	prometheus.MustRegister(MenuRejects)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pente_active_connections",
		Help: "Number of currently connected clients",
	})

	TotalConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pente_total_connections",
		Help: "Total number of client connections accepted",
	})

	RefusedConnections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pente_refused_connections_total",
		Help: "Connections refused because the server was at capacity",
	})

	// Request metrics
	RequestsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pente_requests_received_total",
		Help: "Total number of requests received by verb",
	}, []string{"verb"})

	// Session metrics
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pente_active_sessions",
		Help: "Number of live game sessions",
	})

	TotalSessions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pente_total_sessions",
		Help: "Total number of game sessions created",
	})

	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pente_games_finished_total",
		Help: "Finished games by outcome",
	}, []string{"outcome"})
)

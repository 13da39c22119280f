// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is private to the service so repeated router construction
// in tests never double-registers.
var Registry = prometheus.NewRegistry()

var (
	VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evote_votes_total",
			Help: "Votes cast, by position.",
		},
		[]string{"position"},
	)

	NominationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evote_nominations_total",
			Help: "Candidates registered, by position.",
		},
		[]string{"position"},
	)

	ManifestoDrafts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evote_manifesto_drafts_total",
			Help: "Manifesto drafts, by outcome (generated or fallback).",
		},
		[]string{"outcome"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evote_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "evote_active_sessions",
			Help: "Authenticated sessions held in memory.",
		},
	)

	LiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "evote_live_subscribers",
			Help: "Connected live results websockets.",
		},
	)
)

func init() {
	Registry.MustRegister(
		VotesTotal,
		NominationsTotal,
		ManifestoDrafts,
		RequestDuration,
		ActiveSessions,
		LiveSubscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics holds the Prometheus collectors exported on /metrics.

# Registry

Collectors are registered on a private Registry rather than the global
default, so building several routers in one test binary never panics on
double registration. Handler serves that registry:

	mux.Handle("GET /metrics", metrics.Handler())

The Go runtime and process collectors are included.

# Collectors

	evote_votes_total{position}                  counter
	evote_nominations_total{position}            counter
	evote_manifesto_drafts_total{outcome}        counter (generated, fallback)
	evote_api_request_duration_seconds{route,method} histogram
	evote_active_sessions                        gauge
	evote_live_subscribers                       gauge

# Usage

Handlers update the counters after a successful write:

	metrics.VotesTotal.WithLabelValues(string(position)).Inc()

Request durations are observed by middleware.WithLogging, labelled with the
matched route pattern so path values do not explode cardinality. Requests
that match no route use the label "unmatched".
*/
package metrics

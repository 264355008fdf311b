package metrics

import "github.com/prometheus/client_golang/prometheus"

var FetchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "borsalens_fetch_total",
		Help: "price data fetches by source and status",
	}, []string{"source", "status"})

var FetchDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "borsalens_fetch_duration_seconds",
		Help:    "price data fetch latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

var ComputeDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "borsalens_indicator_compute_duration_seconds",
		Help:    "indicator computation latency",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
	}, []string{"kind"})

var SignalsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "borsalens_signals_total",
		Help: "signals emitted by type",
	}, []string{"type"})

var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "borsalens_http_requests_total",
		Help: "api requests by route and status code",
	}, []string{"route", "code"})

func init() {
	prometheus.MustRegister(FetchTotal, FetchDuration, ComputeDuration, SignalsTotal, HTTPRequestsTotal)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Domain
	EventRegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "event_registrations_total",
			Help: "Total successful event registrations",
		},
	)
	CardsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cards_created_total",
			Help: "Total entry cards created",
		},
	)
	CardEntriesConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "card_entries_consumed_total",
			Help: "Total card entries consumed",
		},
	)
	PurchasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total budget ledger entries recorded",
		},
	)
)

// Handler serves the /metrics endpoint
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestLatency)
	prometheus.MustRegister(EventRegistrationsTotal)
	prometheus.MustRegister(CardsCreatedTotal)
	prometheus.MustRegister(CardEntriesConsumedTotal)
	prometheus.MustRegister(PurchasesTotal)
}

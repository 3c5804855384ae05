package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuctionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipbid_auctions_created_total",
		Help: "Total number of auctions successfully created.",
	})

	AuctionsClosedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipbid_auctions_closed_total",
		Help: "Total number of auctions that left the active state, by outcome.",
	},
		[]string{"outcome"},
	)

	BidsPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipbid_bids_placed_total",
		Help: "Total number of bids successfully placed.",
	})

	TokensDebitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipbid_tokens_debited_total",
		Help: "Total number of tokens spent, by reason.",
	},
		[]string{"reason"},
	)

	TokensCreditedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shipbid_tokens_credited_total",
		Help: "Total number of tokens bought through packages.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shipbid_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ActiveAuctions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shipbid_active_auctions",
		Help: "Current number of auctions accepting bids.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipbid_http_request_duration_seconds",
		Help:    "Latency of HTTP requests, by route and status code.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route", "status"},
	)
)

// Auction close outcomes
const (
	OutcomeAccepted  = "accepted"
	OutcomeExpired   = "expired"
	OutcomeCancelled = "cancelled"
)

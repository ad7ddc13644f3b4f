package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devstudy_api_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devstudy_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Auth metrics
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devstudy_auth_events_total",
			Help: "Sign-in and sign-out events by type",
		},
		[]string{"type"},
	)

	// Sharing metrics
	SharesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devstudy_shares_created_total",
			Help: "Total number of point-to-point problem shares created",
		},
	)

	SharesViewed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devstudy_shares_viewed_total",
			Help: "Total number of shares transitioned from pending to viewed",
		},
	)

	// Group metrics
	GroupsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devstudy_groups_created_total",
			Help: "Total number of groups created",
		},
	)

	GroupJoins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devstudy_group_joins_total",
			Help: "Total number of group membership additions by path",
		},
		[]string{"via"},
	)

	MembershipConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "devstudy_group_membership_conflicts_total",
			Help: "Optimistic membership updates retried after a concurrent write",
		},
	)

	// Aggregation metrics
	AggregationLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devstudy_aggregation_latency_seconds",
			Help:    "Time taken to assemble a shared course view in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AggregatedProblems = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devstudy_aggregation_problems",
			Help:    "Number of problems returned per shared course view",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Worker metrics
	OrphansSwept = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devstudy_orphans_swept_total",
			Help: "Content items removed by the orphan sweep by collection",
		},
		[]string{"collection"},
	)

	LiveSubscribers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "devstudy_live_subscribers",
			Help: "Open live subscriptions by stream",
		},
		[]string{"stream"},
	)
)

func init() {
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(AuthEvents)
	prometheus.MustRegister(SharesCreated)
	prometheus.MustRegister(SharesViewed)
	prometheus.MustRegister(GroupsCreated)
	prometheus.MustRegister(GroupJoins)
	prometheus.MustRegister(MembershipConflicts)
	prometheus.MustRegister(AggregationLatency)
	prometheus.MustRegister(AggregatedProblems)
	prometheus.MustRegister(OrphansSwept)
	prometheus.MustRegister(LiveSubscribers)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

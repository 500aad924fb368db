package commentview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values.
const (
	OutcomeFiltered = "filtered"
	OutcomeClean    = "clean"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"

	StatusOK          = "200"
	StatusBadRequest  = "400"
	StatusNotAllowed  = "405"
	StatusTooLarge    = "413"
	StatusLimited     = "429"
	StatusBadGateway  = "502"

	ErrorTypeParse    = "parse_error"
	ErrorTypeRender   = "render_error"
	ErrorTypeUpstream = "upstream_error"
	ErrorTypeEncode   = "encode_error"
)

var (
	// PagesTotal counts processed pages by outcome.
	PagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comment_filter_pages_total",
		Help: "Total number of pages processed by the comment filter",
	}, []string{"outcome"})

	// CommentsClassifiedTotal counts comments that went through classification.
	CommentsClassifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_filter_comments_classified_total",
		Help: "Total number of comments classified",
	})

	// CommentsHiddenTotal counts hidden comments by reason. A comment with several reasons counts once per reason.
	CommentsHiddenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comment_filter_comments_hidden_total",
		Help: "Total number of comments hidden as spam, by reason",
	}, []string{"reason"})

	// ProxyRequestsTotal counts proxied requests by status.
	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comment_filter_proxy_requests_total",
		Help: "Total number of proxied requests",
	}, []string{"status"})

	// ClassifyRequestsTotal counts classification API requests by status.
	ClassifyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comment_filter_classify_requests_total",
		Help: "Total number of classification API requests",
	}, []string{"status"})

	// ErrorsTotal counts errors by type.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comment_filter_errors_total",
		Help: "Total number of comment filter errors",
	}, []string{"type"})

	// FilterLatency measures page rewrite latency.
	FilterLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "comment_filter_latency_seconds",
		Help:    "Latency of parsing, classifying and rendering one page",
		Buckets: prometheus.DefBuckets,
	})
)

package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chanparse_bridge_calls_total",
	Help: "Number of parseThreadPosts calls by result",
}, []string{"result"})

var callDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "chanparse_bridge_call_duration_seconds",
	Help:    "Duration of parseThreadPosts calls",
	Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
})

var postsEncoded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chanparse_bridge_posts_encoded",
	Help: "Number of parsed posts written back to the host",
})

var postsAbsent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chanparse_bridge_posts_absent",
	Help: "Number of posts returned as null because they had no comment or could not be parsed",
})

var commentsDegraded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chanparse_bridge_comments_degraded",
	Help: "Number of comments that failed to decode and were treated as absent",
})

var spansOutOfRange = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chanparse_bridge_spans_out_of_range",
	Help: "Number of spannables reaching past the end of their parsed text",
})

var faultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chanparse_bridge_faults_total",
	Help: "Number of failed calls by error kind",
}, []string{"kind"})

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	CompletionCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "completion_call_latency_ms",
			Help:    "Completion service call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"function", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	RoadmapGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_generation_count",
			Help: "Total number of roadmap generation attempts",
		},
		[]string{"result"}, // result: success, input_error, format_error, schema_error, assignment_error, service_error
	)

	TaskPoolTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_pool_transitions_total",
			Help: "Total number of task pool state transitions",
		},
		[]string{"transition"}, // transition: claimed, completed, dropped
	)

	PointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_awarded_total",
			Help: "Total points awarded or deducted",
		},
		[]string{"reason"}, // reason: completion, drop_penalty
	)
)

// RecordMQConsumeLatency records MQ consumption latency.
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// RecordCompletionCallLatency records completion service call latency.
func RecordCompletionCallLatency(function, status string, duration time.Duration) {
	CompletionCallLatency.WithLabelValues(function, status).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementRoadmapGeneration counts a roadmap generation attempt by outcome.
func IncrementRoadmapGeneration(result string) {
	RoadmapGenerationCount.WithLabelValues(result).Inc()
}

// IncrementTaskPoolTransition counts a task pool state transition.
func IncrementTaskPoolTransition(transition string) {
	TaskPoolTransitions.WithLabelValues(transition).Inc()
}

// AddPointsAwarded counts points movement by reason.
func AddPointsAwarded(reason string, points float64) {
	PointsAwarded.WithLabelValues(reason).Add(points)
}

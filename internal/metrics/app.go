package metrics

import (
	"time"

	"github.com/mealdesk/mealdesk/internal/observability"
)

// Application-level metrics following Prometheus conventions
const (
	ChatOutcomesTotal   = "chat_outcomes_total"
	RateLimitedTotal    = "chat_rate_limited_total"
	UpstreamCallsTotal  = "upstream_calls_total"
	UpstreamLatencyMs   = "upstream_latency_ms"
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"
)

// RecordOutcome records the terminal state of one orchestrated request.
func RecordOutcome(agent string, outcome string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ChatOutcomesTotal,
			1,
			map[string]string{
				"agent":   agent,
				"outcome": outcome,
			},
		)
	}
}

// RecordRateLimited records a quota denial for a subject window.
func RecordRateLimited() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(RateLimitedTotal, 1, nil)
	}
}

// RecordUpstreamCall records one upstream model call with its result
// class and latency.
func RecordUpstreamCall(provider string, result string, latency time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	labels := map[string]string{
		"provider": provider,
		"result":   result,
	}

	_ = observability.TelemetrySystem.Counter(UpstreamCallsTotal, 1, labels)
	_ = observability.TelemetrySystem.Histogram(UpstreamLatencyMs, latency, labels)
}

// RecordHealthCheck records a health check execution.
func RecordHealthCheck(check string, healthy bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	_ = observability.TelemetrySystem.Counter(
		HealthCheckTotal,
		1,
		map[string]string{
			"check":  check,
			"status": status,
		},
	)
	_ = observability.TelemetrySystem.Histogram(
		HealthCheckDuration,
		duration,
		map[string]string{"check": check},
	)
}

package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/omnigate"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Authorization gate metrics
	AuthzAllowedTotal metric.Int64Counter
	AuthzDeniedTotal  metric.Int64Counter
	AuthzDuration     metric.Float64Histogram

	// Identity metrics
	SignupsTotal      metric.Int64Counter
	LoginsTotal       metric.Int64Counter
	TokensIssuedTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.AuthzAllowedTotal, _ = meter.Int64Counter(
		"omnigate.authz.allowed.total",
		metric.WithDescription("Requests that passed the authorization gate"),
	)
	m.AuthzDeniedTotal, _ = meter.Int64Counter(
		"omnigate.authz.denied.total",
		metric.WithDescription("Requests denied by the authorization gate, by error code"),
	)
	m.AuthzDuration, _ = meter.Float64Histogram(
		"omnigate.authz.duration",
		metric.WithDescription("Authorization pipeline duration in seconds"),
		metric.WithUnit("s"),
	)

	m.SignupsTotal, _ = meter.Int64Counter(
		"omnigate.signups.total",
		metric.WithDescription("Successful signups"),
	)
	m.LoginsTotal, _ = meter.Int64Counter(
		"omnigate.logins.total",
		metric.WithDescription("Successful logins"),
	)
	m.TokensIssuedTotal, _ = meter.Int64Counter(
		"omnigate.tokens.issued.total",
		metric.WithDescription("Bearer tokens issued"),
	)

	return m
}

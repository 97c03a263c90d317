// Package observe records session metrics through the OpenTelemetry metrics
// API. [InitProvider] bridges them to a Prometheus exporter so they can be
// scraped from /metrics. Tests should build their own [Metrics] with
// [NewMetrics] and a ManualReader-backed provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/llehouerou/neurobeats"

// Metrics holds the instruments used by the session controller. All fields
// are safe for concurrent use.
type Metrics struct {
	// TaskSwitches counts transitions started by a task selection. Attribute:
	//   attribute.String("task", ...)
	TaskSwitches metric.Int64Counter

	// LoadDuration tracks time from load request to outcome. Attributes:
	//   attribute.String("task", ...), attribute.String("status", ...)
	LoadDuration metric.Float64Histogram

	// LoadFailures counts failed loads. Attributes:
	//   attribute.String("task", ...), attribute.String("reason", ...)
	LoadFailures metric.Int64Counter

	// SupersededLoads counts load completions discarded as stale.
	SupersededLoads metric.Int64Counter

	// ListenSeconds counts whole seconds of audible session time. Attribute:
	//   attribute.String("task", ...)
	ListenSeconds metric.Int64Counter
}

var loadBuckets = []float64{
	0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30,
}

// NewMetrics creates all instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TaskSwitches, err = m.Int64Counter("neurobeats.task.switches",
		metric.WithDescription("Task selections that started a transition."),
	); err != nil {
		return nil, err
	}
	if met.LoadDuration, err = m.Float64Histogram("neurobeats.load.duration",
		metric.WithDescription("Latency from load request to playback start or failure."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(loadBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LoadFailures, err = m.Int64Counter("neurobeats.load.failures",
		metric.WithDescription("Failed loads by task and reason."),
	); err != nil {
		return nil, err
	}
	if met.SupersededLoads, err = m.Int64Counter("neurobeats.load.superseded",
		metric.WithDescription("Load completions discarded because a newer request exists."),
	); err != nil {
		return nil, err
	}
	if met.ListenSeconds, err = m.Int64Counter("neurobeats.listen.seconds",
		metric.WithDescription("Seconds of audible session time by task."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance built on the global
// provider. It is a no-op until InitProvider installs an SDK provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTaskSwitch counts a transition toward task.
func (m *Metrics) RecordTaskSwitch(ctx context.Context, task string) {
	m.TaskSwitches.Add(ctx, 1, metric.WithAttributes(attribute.String("task", task)))
}

// RecordLoad records how long a load took and how it ended.
func (m *Metrics) RecordLoad(ctx context.Context, task, status string, d time.Duration) {
	m.LoadDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(
			attribute.String("task", task),
			attribute.String("status", status),
		),
	)
}

// RecordLoadFailure counts a failed load.
func (m *Metrics) RecordLoadFailure(ctx context.Context, task, reason string) {
	m.LoadFailures.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("task", task),
			attribute.String("reason", reason),
		),
	)
}

// RecordSuperseded counts a discarded stale completion.
func (m *Metrics) RecordSuperseded(ctx context.Context) {
	m.SupersededLoads.Add(ctx, 1)
}

// RecordListenSecond counts one second of audible time on task.
func (m *Metrics) RecordListenSecond(ctx context.Context, task string) {
	m.ListenSeconds.Add(ctx, 1, metric.WithAttributes(attribute.String("task", task)))
}

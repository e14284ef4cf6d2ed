// Package metrics provides Prometheus metrics for the ocu pipeline.
//
// Each invocation is a short-lived process, so nothing is scraped. When a
// textfile path is configured the registry is written out at the end of the
// run for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for ocu.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Source metrics
	recordsFetched *prometheus.CounterVec
	sourceErrors   *prometheus.CounterVec
	blocksUnparsed prometheus.Counter
	cacheLookups   *prometheus.CounterVec

	// Event model metrics
	eventsBuilt       prometheus.Counter
	eventBuildErrors  prometheus.Counter
	eventsWithoutURL  prometheus.Counter
	urlCandidates     *prometheus.CounterVec
	urlRewrites       *prometheus.CounterVec
	eventsDisplayed   prometheus.Gauge
	pipelineDuration  prometheus.Histogram
	lastRunTimestamp  prometheus.Gauge
	urlOpens          *prometheus.CounterVec
	preferenceErrors  prometheus.Counter
	duplicatesDropped prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ocu",
		subsystem:        "pipeline",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.recordsFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_fetched_total",
		Help:      "Raw event records returned by a calendar source",
	}, []string{"source"})

	m.sourceErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_errors_total",
		Help:      "Calendar source invocations that failed",
	}, []string{"source"})

	m.blocksUnparsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "text_blocks_unparsed_total",
		Help:      "Text blocks discarded because no date rule matched or the title was empty",
	})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_lookups_total",
		Help:      "Event cache lookups by result (hit, miss, stale, error)",
	}, []string{"result"})

	m.eventsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_built_total",
		Help:      "Events normalized from raw records",
	})

	m.eventBuildErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "event_build_errors_total",
		Help:      "Raw records skipped because their dates could not be parsed",
	})

	m.eventsWithoutURL = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_without_conference_url_total",
		Help:      "Events dropped because no conference URL was found",
	})

	m.urlCandidates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "url_candidates_total",
		Help:      "URL candidates seen during extraction, by scoring outcome",
	}, []string{"outcome"})

	m.urlRewrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "url_rewrites_total",
		Help:      "Conference URLs rewritten to a native scheme, by service",
	}, []string{"service"})

	m.eventsDisplayed = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_displayed",
		Help:      "Events rendered in the last launcher payload",
	})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Wall time of one fetch-to-render pass",
		Buckets:   m.histogramBuckets,
	})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run",
	})

	m.urlOpens = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "url_opens_total",
		Help:      "URL open attempts by handler (native_app, default) and result",
	}, []string{"handler", "result"})

	m.preferenceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "preference_errors_total",
		Help:      "Runs aborted by missing or malformed preferences",
	})

	m.duplicatesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_dropped_total",
		Help:      "Events removed while merging past and upcoming lists",
	})
}

// RecordRecordsFetched adds n records returned by the named source.
func RecordRecordsFetched(source string, n int) {
	globalManager.recordsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordSourceError counts a failed source invocation.
func RecordSourceError(source string) {
	globalManager.sourceErrors.WithLabelValues(source).Inc()
}

// RecordBlockUnparsed counts a discarded text block.
func RecordBlockUnparsed() {
	globalManager.blocksUnparsed.Inc()
}

// RecordCacheLookup counts a cache lookup with the given result.
func RecordCacheLookup(result string) {
	globalManager.cacheLookups.WithLabelValues(result).Inc()
}

// RecordEventBuilt counts a normalized event.
func RecordEventBuilt() {
	globalManager.eventsBuilt.Inc()
}

// RecordEventBuildError counts a raw record that could not be normalized.
func RecordEventBuildError() {
	globalManager.eventBuildErrors.Inc()
}

// RecordEventWithoutURL counts an event dropped for lack of a conference URL.
func RecordEventWithoutURL() {
	globalManager.eventsWithoutURL.Inc()
}

// RecordURLCandidate counts one extracted URL candidate.
func RecordURLCandidate(outcome string) {
	globalManager.urlCandidates.WithLabelValues(outcome).Inc()
}

// RecordURLRewrite counts a native-scheme rewrite for service.
func RecordURLRewrite(service string) {
	globalManager.urlRewrites.WithLabelValues(service).Inc()
}

// UpdateEventsDisplayed sets the number of rendered events.
func UpdateEventsDisplayed(n int) {
	globalManager.eventsDisplayed.Set(float64(n))
}

// RecordRunDuration observes one pipeline pass and stamps the completion time.
func RecordRunDuration(durationMs float64, finishedUnix int64) {
	globalManager.pipelineDuration.Observe(durationMs)
	globalManager.lastRunTimestamp.Set(float64(finishedUnix))
}

// RecordURLOpen counts an open attempt.
func RecordURLOpen(handler, result string) {
	globalManager.urlOpens.WithLabelValues(handler, result).Inc()
}

// RecordPreferenceError counts a run aborted by configuration errors.
func RecordPreferenceError() {
	globalManager.preferenceErrors.Inc()
}

// RecordDuplicateDropped counts an event removed during the merge.
func RecordDuplicateDropped() {
	globalManager.duplicatesDropped.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the registry in text exposition format to path.
// An empty path is a no-op.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// WriteTextfile writes m's registry to path.
func (m *Manager) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrTextfileExport, err)
	}
	return nil
}

// Package metrics provides Prometheus counters for matchprep runs.
//
// Metrics live on a private registry per Recorder. A run prints a Snapshot
// in its summary and can export the registry in node-exporter textfile
// format.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const defaultNamespace = "matchprep"

// Recorder owns the run metrics.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	rowsLoaded      prometheus.Counter
	rowsRejected    *prometheus.CounterVec
	mentions        prometheus.Counter
	players         prometheus.Gauge
	matchesWritten  prometheus.Counter
	genderConflicts prometheus.Gauge
	captures        prometheus.Counter
	stageDuration   *prometheus.HistogramVec
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets the stage duration buckets, in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// WithRegistry uses an existing registry instead of a fresh one.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// New creates a Recorder with its metrics registered.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(r.registry)
	r.rowsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rows_loaded_total",
		Help:      "Data rows read from input tables",
	})
	r.rowsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rows_rejected_total",
		Help:      "Rows excluded by the validity predicate, by failing field",
	}, []string{"reason"})
	r.mentions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "mentions_total",
		Help:      "Player mentions extracted from accepted rows",
	})
	r.players = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "players_total",
		Help:      "Canonical players in the registry",
	})
	r.matchesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "matches_written_total",
		Help:      "Cleaned match rows written",
	})
	r.genderConflicts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "gender_conflicts_total",
		Help:      "Players seen under more than one gender token",
	})
	r.captures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "captures_total",
		Help:      "JSON responses recorded by capture sessions",
	})
	r.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each run stage",
		Buckets:   r.buckets,
	}, []string{"stage"})
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) RowsLoaded(n int) { r.rowsLoaded.Add(float64(n)) }

// RowRejected counts one rejected row under reason, usually the name of
// the first field that failed.
func (r *Recorder) RowRejected(reason string) {
	r.rowsRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) Mentions(n int)        { r.mentions.Add(float64(n)) }
func (r *Recorder) Players(n int)         { r.players.Set(float64(n)) }
func (r *Recorder) MatchesWritten(n int)  { r.matchesWritten.Add(float64(n)) }
func (r *Recorder) GenderConflicts(n int) { r.genderConflicts.Set(float64(n)) }
func (r *Recorder) CaptureRecorded()      { r.captures.Inc() }

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Stage starts timing a stage; call the returned func when it ends.
func (r *Recorder) Stage(stage string) func() {
	start := time.Now()
	return func() { r.ObserveStage(stage, time.Since(start)) }
}

// Snapshot flattens counters and gauges into "name{label=value}" keys with
// the namespace prefix removed. Histograms report their sample count under
// "name_count" and their sum under "name_sum".
func (r *Recorder) Snapshot() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "gathering metrics")
	}

	out := make(map[string]float64)
	for _, mf := range families {
		name := strings.TrimPrefix(mf.GetName(), r.namespace+"_")
		for _, m := range mf.GetMetric() {
			key := name + labelSuffix(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				out[name+"_count"+labelSuffix(m.GetLabel())] = float64(m.GetHistogram().GetSampleCount())
				out[name+"_sum"+labelSuffix(m.GetLabel())] = m.GetHistogram().GetSampleSum()
			}
		}
	}
	return out, nil
}

func labelSuffix(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%s", l.GetName(), l.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

// WriteTextfile writes the registry to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}

// Package metrics collects per-run extraction counters on a private
// Prometheus registry. Batch runs dump the registry in the text exposition
// format for a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Document kinds used as the "kind" label.
const (
	KindItems = "items"
	KindTexts = "texts"
)

// Recipe kinds used as the "kind" label.
const (
	RecipeFabricate   = "fabricate"
	RecipeDeconstruct = "deconstruct"
)

// Run holds the collectors for one extraction run. A nil *Run records
// nothing, so callers never need to guard.
type Run struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	items     prometheus.Counter
	skipped   prometheus.Counter
	recipes   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewRun registers a fresh set of collectors.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barohead",
			Name:      "documents_parsed_total",
			Help:      "Documents parsed, by kind.",
		}, []string{"kind"}),
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barohead",
			Name:      "items_total",
			Help:      "Item nodes added to the database, including overwrites.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barohead",
			Name:      "items_skipped_total",
			Help:      "Item nodes skipped for lacking an identifier.",
		}),
		recipes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barohead",
			Name:      "recipes_total",
			Help:      "Recipes assembled, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "barohead",
			Name:      "extract_duration_seconds",
			Help:      "Time spent parsing a single document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.documents, r.items, r.skipped, r.recipes, r.duration)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Run) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// DocumentParsed records one parsed document of kind.
func (r *Run) DocumentParsed(kind string, took time.Duration) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(kind).Inc()
	r.duration.WithLabelValues(kind).Observe(took.Seconds())
}

// ItemAdded records an item written to the database.
func (r *Run) ItemAdded() {
	if r == nil {
		return
	}
	r.items.Inc()
}

// ItemSkipped records an item node without identifier.
func (r *Run) ItemSkipped() {
	if r == nil {
		return
	}
	r.skipped.Inc()
}

// RecipeAdded records one assembled recipe of kind.
func (r *Run) RecipeAdded(kind string) {
	if r == nil {
		return
	}
	r.recipes.WithLabelValues(kind).Inc()
}

// Totals is a point-in-time copy of the run counters.
type Totals struct {
	ItemDocuments int
	TextDocuments int
	Items         int
	Skipped       int
	Fabricate     int
	Deconstruct   int
}

// Totals reads the current counter values.
func (r *Run) Totals() Totals {
	if r == nil {
		return Totals{}
	}
	return Totals{
		ItemDocuments: counterValue(r.documents.WithLabelValues(KindItems)),
		TextDocuments: counterValue(r.documents.WithLabelValues(KindTexts)),
		Items:         counterValue(r.items),
		Skipped:       counterValue(r.skipped),
		Fabricate:     counterValue(r.recipes.WithLabelValues(RecipeFabricate)),
		Deconstruct:   counterValue(r.recipes.WithLabelValues(RecipeDeconstruct)),
	}
}

func counterValue(c prometheus.Counter) int {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return int(m.GetCounter().GetValue())
}

// WriteTextfile writes the registry to path atomically.
func (r *Run) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}

// Package pipeline runs one extraction: discover documents in the input
// store, build the database, then write, publish and persist it as
// configured.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"barohead/internal/blob"
	"barohead/internal/config"
	"barohead/internal/export"
	"barohead/internal/extract"
	"barohead/internal/metrics"
	"barohead/internal/persist"
	"barohead/internal/source"
	"barohead/pkg/itemdb"
)

// Report summarizes a finished run.
type Report struct {
	Documents int
	Totals    metrics.Totals
	Database  *itemdb.Database
	// Published is nil when no output store is configured.
	Published *export.Result
	Persisted bool
	Duration  time.Duration
}

// Runner holds the collaborators of a run. Stores left nil are opened from
// the configuration.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	input   blob.Reader
	output  blob.Store
	storage persist.Store
	runID   string
	indent  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for the run and its stages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInput reads documents from store instead of the configured input.
func WithInput(store blob.Reader) Option {
	return func(r *Runner) { r.input = store }
}

// WithOutput publishes to store instead of the configured output.
func WithOutput(store blob.Store) Option {
	return func(r *Runner) { r.output = store }
}

// WithStorage saves the snapshot to store instead of the configured one.
// The caller keeps ownership and closes it.
func WithStorage(store persist.Store) Option {
	return func(r *Runner) { r.storage = store }
}

// WithRunID fixes the published run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// WithIndent pretty-prints the JSON written to the output writer.
func WithIndent(indent bool) Option {
	return func(r *Runner) { r.indent = indent }
}

// New returns a Runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline. When w is non-nil the database JSON is written
// to it.
func (r *Runner) Run(ctx context.Context, w io.Writer) (Report, error) {
	start := time.Now()
	input, err := r.inputStore(ctx)
	if err != nil {
		return Report{}, err
	}
	docs, err := source.Discover(ctx, input, r.cfg.Layout())
	if err != nil {
		return Report{}, fmt.Errorf("discover documents: %w", err)
	}
	r.logger.Debug("discovered documents", "count", len(docs))

	run := metrics.NewRun()
	db, err := extract.ExtractAll(ctx, announce(r.logger, docs), r.cfg.Workers,
		extract.WithLogger(r.logger), extract.WithMetrics(run))
	if err != nil {
		return Report{}, fmt.Errorf("extract: %w", err)
	}
	if r.cfg.RecipesOnly {
		db = db.RecipesOnly()
	}

	report := Report{Documents: len(docs), Database: db}
	if w != nil {
		if err := itemdb.Encode(w, db, r.indent); err != nil {
			return Report{}, fmt.Errorf("write database: %w", err)
		}
	}
	if report.Published, err = r.publish(ctx, db); err != nil {
		return Report{}, err
	}
	if report.Persisted, err = r.saveSnapshot(ctx, db); err != nil {
		return Report{}, err
	}
	if err := run.WriteTextfile(r.cfg.MetricsTextfile); err != nil {
		return Report{}, fmt.Errorf("write metrics: %w", err)
	}

	report.Totals = run.Totals()
	report.Duration = time.Since(start)
	r.logger.Info("extraction complete",
		"documents", report.Documents,
		"items", db.Len(),
		"skipped", report.Totals.Skipped,
		"fabricate", report.Totals.Fabricate,
		"deconstruct", report.Totals.Deconstruct,
		"languages", len(db.Languages()),
		"duration", report.Duration)
	return report, nil
}

func (r *Runner) inputStore(ctx context.Context) (blob.Reader, error) {
	if r.input != nil {
		return r.input, nil
	}
	store, err := blob.Open(ctx, r.cfg.InputBlob())
	if err != nil {
		return nil, fmt.Errorf("open input store: %w", err)
	}
	return store, nil
}

func (r *Runner) publish(ctx context.Context, db *itemdb.Database) (*export.Result, error) {
	store := r.output
	if store == nil {
		opts, ok := r.cfg.OutputBlob()
		if !ok {
			return nil, nil
		}
		var err error
		if store, err = blob.Open(ctx, opts); err != nil {
			return nil, fmt.Errorf("open output store: %w", err)
		}
	}
	popts := []export.Option{export.WithLogger(r.logger)}
	if r.runID != "" {
		popts = append(popts, export.WithRunID(r.runID))
	}
	res, err := export.NewPublisher(store, r.cfg.Output.Prefix, popts...).Publish(ctx, db)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Runner) saveSnapshot(ctx context.Context, db *itemdb.Database) (bool, error) {
	store := r.storage
	if store == nil {
		opts, ok := r.cfg.Persist()
		if !ok {
			return false, nil
		}
		var err error
		if store, err = persist.Open(ctx, opts); err != nil {
			return false, fmt.Errorf("open storage: %w", err)
		}
		defer func() { _ = store.Close() }()
	}
	if err := store.Save(ctx, db); err != nil {
		return false, fmt.Errorf("save snapshot: %w", err)
	}
	r.logger.Info("saved snapshot", "driver", store.Driver(), "items", db.Len())
	return true, nil
}

// announce logs each document as it is opened.
func announce(logger *slog.Logger, docs []extract.Document) []extract.Document {
	out := make([]extract.Document, len(docs))
	for i, doc := range docs {
		open := doc.Open
		out[i] = doc
		out[i].Open = func(ctx context.Context) (io.ReadCloser, error) {
			logger.Info("parsing "+doc.Kind.String(), "document", doc.Name)
			return open(ctx)
		}
	}
	return out
}

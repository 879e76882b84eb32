// Package export publishes finished databases to a blob store.
//
// Every run is stored under its own key, <prefix>/<run-id>.json, and the
// <prefix>/latest.json pointer is rewritten to the same content so readers
// can find the newest database without listing.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"barohead/internal/blob"
	"barohead/pkg/itemdb"
)

const (
	// DefaultPrefix is the key prefix used when none is configured.
	DefaultPrefix = "itemdb"
	latestName    = "latest.json"
	contentType   = "application/json"
)

// Metadata keys attached to published objects.
const (
	MetaRunID       = "run_id"
	MetaItems       = "items"
	MetaLanguages   = "languages"
	MetaGeneratedAt = "generated_at"
)

// Result describes one published database.
type Result struct {
	RunID     string
	Key       string
	LatestKey string
	// URL is a pre-signed or local URL for Key, empty when the driver
	// cannot produce one.
	URL  string
	Info blob.Info
}

// Publisher writes databases into a store.
type Publisher struct {
	store  blob.Store
	prefix string
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRunID fixes the run id instead of generating a random UUID.
func WithRunID(id string) Option {
	return func(p *Publisher) { p.newID = func() string { return id } }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// NewPublisher returns a publisher writing under prefix (DefaultPrefix when
// empty).
func NewPublisher(store blob.Store, prefix string, opts ...Option) *Publisher {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	p := &Publisher{
		store:  store,
		prefix: prefix,
		logger: slog.New(slog.DiscardHandler),
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish encodes db once and stores it under a new run key and the latest
// pointer.
func (p *Publisher) Publish(ctx context.Context, db *itemdb.Database) (Result, error) {
	var buf bytes.Buffer
	if err := itemdb.Encode(&buf, db, false); err != nil {
		return Result{}, fmt.Errorf("encode database: %w", err)
	}
	runID := p.newID()
	meta := map[string]string{
		MetaRunID:       runID,
		MetaItems:       strconv.Itoa(db.Len()),
		MetaLanguages:   strings.Join(db.Languages(), ","),
		MetaGeneratedAt: p.now().UTC().Format(time.RFC3339),
	}
	res := Result{
		RunID:     runID,
		Key:       path.Join(p.prefix, runID+".json"),
		LatestKey: path.Join(p.prefix, latestName),
	}
	info, err := p.store.Put(ctx, res.Key, bytes.NewReader(buf.Bytes()), blob.PutOptions{ContentType: contentType, Metadata: meta})
	if err != nil {
		return Result{}, fmt.Errorf("publish %s: %w", res.Key, err)
	}
	res.Info = info
	if _, err := p.store.Put(ctx, res.LatestKey, bytes.NewReader(buf.Bytes()), blob.PutOptions{ContentType: contentType, Metadata: meta, Overwrite: true}); err != nil {
		return Result{}, fmt.Errorf("publish %s: %w", res.LatestKey, err)
	}
	url, err := p.store.PresignURL(ctx, res.Key, blob.SignedURLOptions{Method: "GET"})
	switch {
	case err == nil:
		res.URL = url
	case errors.Is(err, blob.ErrUnsupported):
	default:
		return Result{}, fmt.Errorf("presign %s: %w", res.Key, err)
	}
	p.logger.Info("published database", "key", res.Key, "run_id", runID, "items", db.Len(), "bytes", info.Size)
	return res, nil
}

// Latest reads the database behind the latest pointer under prefix.
func Latest(ctx context.Context, store blob.Reader, prefix string) (*itemdb.Database, blob.Info, error) {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Fetch(ctx, store, path.Join(prefix, latestName))
}

// Fetch reads and decodes the database stored at key.
func Fetch(ctx context.Context, store blob.Reader, key string) (*itemdb.Database, blob.Info, error) {
	info, rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, blob.Info{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	db, err := itemdb.Decode(rc)
	if err != nil {
		return nil, blob.Info{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return db, info, nil
}

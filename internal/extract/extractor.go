// Package extract turns game item and text documents into an itemdb.Database.
//
// Each top-level element of an <Items> document becomes one item; its
// <Fabricate> and <Deconstruct> children become recipes. Parsing is fail-fast:
// the first malformed attribute or unexpected element aborts the document.
// The only tolerated defect is an item element without an identifier, which
// is logged and skipped.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"barohead/internal/metrics"
	"barohead/internal/xmldoc"
	"barohead/pkg/itemdb"
)

// Root element names of the two document kinds.
const (
	itemsRoot = "Items"
	textsRoot = "infotexts"
)

// Extractor accumulates documents into a single database. It is not safe for
// concurrent use; see ExtractAll for parallel extraction.
type Extractor struct {
	db      *itemdb.Database
	logger  *slog.Logger
	metrics *metrics.Run
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger routes extraction warnings and progress to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records counters on run.
func WithMetrics(run *metrics.Run) Option {
	return func(e *Extractor) { e.metrics = run }
}

// NewExtractor returns an extractor with an empty database.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		db:     itemdb.NewDatabase(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Database returns the accumulated database. Callers must stop parsing
// before handing it on.
func (e *Extractor) Database() *itemdb.Database { return e.db }

// ParseItems reads one item document. Documents whose root is not <Items>
// contribute nothing.
func (e *Extractor) ParseItems(name string, r io.Reader) error {
	started := time.Now()
	root, err := xmldoc.Parse(r)
	if err != nil {
		return fmt.Errorf("parse items %s: %w: %v", name, ErrMalformedDocument, err)
	}
	if err := e.AddItems(root); err != nil {
		return fmt.Errorf("parse items %s: %w", name, err)
	}
	e.metrics.DocumentParsed(metrics.KindItems, time.Since(started))
	return nil
}

// AddItems processes every element child of an already parsed <Items> root.
func (e *Extractor) AddItems(root xmldoc.Node) error {
	if root.Name() != itemsRoot {
		e.logger.Debug("skipping document", "root", root.Name())
		return nil
	}
	for _, node := range root.Children() {
		if !node.HasAttr("identifier") {
			name, _ := node.Attr("name")
			e.logger.Warn("item missing identifier", "element", node.Name(), "name", name, "path", node.Path())
			e.metrics.ItemSkipped()
			continue
		}
		item, err := assembleItem(node)
		if err != nil {
			return err
		}
		e.logger.Debug("adding item", "id", item.ID)
		e.db.PutItem(item)
		e.metrics.ItemAdded()
		for range item.Fabricate {
			e.metrics.RecipeAdded(metrics.RecipeFabricate)
		}
		for range item.Deconstruct {
			e.metrics.RecipeAdded(metrics.RecipeDeconstruct)
		}
	}
	return nil
}

// ParseTexts reads one localization document and merges its entity names
// into the language table named by the root's language attribute.
func (e *Extractor) ParseTexts(name string, r io.Reader) error {
	started := time.Now()
	root, err := xmldoc.Parse(r)
	if err != nil {
		return fmt.Errorf("parse texts %s: %w: %v", name, ErrMalformedDocument, err)
	}
	if err := e.AddTexts(root); err != nil {
		return fmt.Errorf("parse texts %s: %w", name, err)
	}
	e.metrics.DocumentParsed(metrics.KindTexts, time.Since(started))
	return nil
}

// AddTexts merges the entityname* entries of an <infotexts> root.
func (e *Extractor) AddTexts(root xmldoc.Node) error {
	if root.Name() != textsRoot {
		e.logger.Debug("skipping document", "root", root.Name())
		return nil
	}
	language, err := xmldoc.RequireString(root, "language")
	if err != nil {
		return err
	}
	texts := make(map[string]string)
	for _, child := range root.Children() {
		if !strings.HasPrefix(child.Name(), "entityname") {
			continue
		}
		inner, err := child.InnerXML()
		if err != nil {
			return fmt.Errorf("%s: %w", child.Path(), err)
		}
		texts[child.Name()] = inner
	}
	e.db.MergeTexts(language, texts)
	return nil
}

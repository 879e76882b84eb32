package extract

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"barohead/pkg/itemdb"
)

// DocumentKind tells ExtractAll how to read a document.
type DocumentKind int

const (
	ItemsDocument DocumentKind = iota
	TextsDocument
)

func (k DocumentKind) String() string {
	switch k {
	case ItemsDocument:
		return "items"
	case TextsDocument:
		return "texts"
	default:
		return fmt.Sprintf("DocumentKind(%d)", int(k))
	}
}

// Document is one input to ExtractAll.
type Document struct {
	Name string
	Kind DocumentKind
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// ExtractAll parses docs and returns the combined database. With workers <= 1
// documents are parsed one after another into a single extractor. Otherwise
// each document is parsed into its own partial database and the partials are
// merged in input order, which yields the same last-write-wins result as the
// sequential run. The first failure stops the run.
func ExtractAll(ctx context.Context, docs []Document, workers int, opts ...Option) (*itemdb.Database, error) {
	if workers <= 1 {
		e := NewExtractor(opts...)
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := parseDocument(ctx, e, doc); err != nil {
				return nil, err
			}
		}
		return e.Database(), nil
	}

	partials := make([]*itemdb.Database, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e := NewExtractor(opts...)
			if err := parseDocument(gctx, e, doc); err != nil {
				return err
			}
			partials[i] = e.Database()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	db := itemdb.NewDatabase()
	for _, partial := range partials {
		db.Merge(partial)
	}
	return db, nil
}

func parseDocument(ctx context.Context, e *Extractor, doc Document) error {
	rc, err := doc.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s: %w", doc.Name, err)
	}
	defer func() { _ = rc.Close() }()
	switch doc.Kind {
	case ItemsDocument:
		return e.ParseItems(doc.Name, rc)
	case TextsDocument:
		return e.ParseTexts(doc.Name, rc)
	default:
		return fmt.Errorf("%s: unsupported document kind %s", doc.Name, doc.Kind)
	}
}

// Package source discovers game documents in a blob store and hands them to
// the extractor.
package source

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"barohead/internal/blob"
	"barohead/internal/extract"
)

// Default key prefixes, relative to the game's install directory.
const (
	DefaultItemsPrefix = "Content/Items/"
	DefaultTextsPrefix = "Content/Texts/English/"
)

// Layout says where item and text documents live in the store.
type Layout struct {
	ItemsPrefix string
	TextsPrefix string
	// RecursiveTexts also picks up text documents in subdirectories of
	// TextsPrefix. Item documents are always searched recursively.
	RecursiveTexts bool
}

// DefaultLayout matches an unpacked game install.
func DefaultLayout() Layout {
	return Layout{ItemsPrefix: DefaultItemsPrefix, TextsPrefix: DefaultTextsPrefix}
}

// Discover lists the item documents and then the text documents, each group
// in ascending key order. Only keys with an .xml extension are returned.
func Discover(ctx context.Context, store blob.Reader, layout Layout) ([]extract.Document, error) {
	items, err := list(ctx, store, layout.ItemsPrefix, true)
	if err != nil {
		return nil, fmt.Errorf("discover items: %w", err)
	}
	texts, err := list(ctx, store, layout.TextsPrefix, layout.RecursiveTexts)
	if err != nil {
		return nil, fmt.Errorf("discover texts: %w", err)
	}
	docs := make([]extract.Document, 0, len(items)+len(texts))
	for _, key := range items {
		docs = append(docs, document(store, key, extract.ItemsDocument))
	}
	for _, key := range texts {
		docs = append(docs, document(store, key, extract.TextsDocument))
	}
	return docs, nil
}

func list(ctx context.Context, store blob.Reader, prefix string, recursive bool) ([]string, error) {
	infos, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, info := range infos {
		rest := strings.TrimPrefix(info.Key, prefix)
		if !recursive && strings.Contains(rest, "/") {
			continue
		}
		if !strings.EqualFold(path.Ext(info.Key), ".xml") {
			continue
		}
		keys = append(keys, info.Key)
	}
	return keys, nil
}

func document(store blob.Reader, key string, kind extract.DocumentKind) extract.Document {
	return extract.Document{
		Name: key,
		Kind: kind,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			_, rc, err := store.Get(ctx, key)
			return rc, err
		},
	}
}

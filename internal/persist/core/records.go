package core

import (
	"encoding/json"
	"fmt"

	"barohead/pkg/itemdb"
)

// Record is one row of the items or texts table: the item identifier or
// language, and its JSON payload.
type Record struct {
	Key     string
	Payload []byte
}

// Records encodes db as item rows ordered by identifier and text rows
// ordered by language.
func Records(db *itemdb.Database) (items, texts []Record, err error) {
	for _, id := range db.ItemIDs() {
		payload, err := json.Marshal(db.Items[id])
		if err != nil {
			return nil, nil, fmt.Errorf("encode item %s: %w", id, err)
		}
		items = append(items, Record{Key: id, Payload: payload})
	}
	for _, lang := range db.Languages() {
		payload, err := json.Marshal(db.Texts[lang])
		if err != nil {
			return nil, nil, fmt.Errorf("encode texts %s: %w", lang, err)
		}
		texts = append(texts, Record{Key: lang, Payload: payload})
	}
	return items, texts, nil
}

// Assemble decodes rows produced by Records. Whether a snapshot exists at
// all is tracked by the drivers' marker row, so no rows is an empty database.
func Assemble(items, texts []Record) (*itemdb.Database, error) {
	db := itemdb.NewDatabase()
	for _, r := range items {
		var item itemdb.Item
		if err := json.Unmarshal(r.Payload, &item); err != nil {
			return nil, fmt.Errorf("decode item %s: %w", r.Key, err)
		}
		if item.ID != r.Key {
			return nil, fmt.Errorf("decode item %s: payload carries id %q", r.Key, item.ID)
		}
		db.PutItem(&item)
	}
	for _, r := range texts {
		var table map[string]string
		if err := json.Unmarshal(r.Payload, &table); err != nil {
			return nil, fmt.Errorf("decode texts %s: %w", r.Key, err)
		}
		db.MergeTexts(r.Key, table)
	}
	return db, nil
}

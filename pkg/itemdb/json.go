package itemdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON encodes the reference as {"id": …} or {"tag": …}.
func (r ItemRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case refID:
		return json.Marshal(map[string]string{"id": r.value})
	case refTag:
		return json.Marshal(map[string]string{"tag": r.value})
	default:
		return nil, fmt.Errorf("itemdb: cannot encode empty item reference")
	}
}

// UnmarshalJSON accepts exactly one of the "id" or "tag" keys.
func (r *ItemRef) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("itemdb: decode item reference: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("itemdb: item reference needs exactly one key, got %d", len(raw))
	}
	if id, ok := raw["id"]; ok {
		*r = ByID(id)
		return nil
	}
	if tag, ok := raw["tag"]; ok {
		*r = ByTag(tag)
		return nil
	}
	return fmt.Errorf("itemdb: unknown item reference %s", string(data))
}

// MarshalJSON keeps list fields as arrays even when unset.
func (f Fabricate) MarshalJSON() ([]byte, error) {
	type plain Fabricate
	p := plain(f)
	if p.SuitableFabricators == nil {
		p.SuitableFabricators = []string{}
	}
	if p.RequiredItems == nil {
		p.RequiredItems = []RequiredItem{}
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = SkillRequirements{}
	}
	return json.Marshal(p)
}

// MarshalJSON keeps list fields as arrays even when unset.
func (d Deconstruct) MarshalJSON() ([]byte, error) {
	type plain Deconstruct
	p := plain(d)
	if p.RequiredItems == nil {
		p.RequiredItems = []RequiredItem{}
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = SkillRequirements{}
	}
	if p.Items == nil {
		p.Items = []ProducedItem{}
	}
	return json.Marshal(p)
}

// MarshalJSON keeps recipe lists as arrays even when unset.
func (i Item) MarshalJSON() ([]byte, error) {
	type plain Item
	p := plain(i)
	if p.Fabricate == nil {
		p.Fabricate = []Fabricate{}
	}
	if p.Deconstruct == nil {
		p.Deconstruct = []Deconstruct{}
	}
	return json.Marshal(p)
}

type wireDatabase struct {
	Items []*Item                       `json:"items"`
	Texts map[string]map[string]string `json:"texts"`
}

// MarshalJSON encodes items as an array ordered by identifier.
func (d *Database) MarshalJSON() ([]byte, error) {
	w := wireDatabase{
		Items: make([]*Item, 0, len(d.Items)),
		Texts: d.Texts,
	}
	for _, id := range d.ItemIDs() {
		w.Items = append(w.Items, d.Items[id])
	}
	if w.Texts == nil {
		w.Texts = map[string]map[string]string{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire shape. Repeated identifiers keep the last
// occurrence.
func (d *Database) UnmarshalJSON(data []byte) error {
	var w wireDatabase
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	fresh := NewDatabase()
	for _, item := range w.Items {
		if item == nil {
			continue
		}
		fresh.PutItem(item)
	}
	for lang, texts := range w.Texts {
		fresh.MergeTexts(lang, texts)
	}
	*d = *fresh
	return nil
}

// Encode writes the database's wire JSON to w.
func Encode(w io.Writer, db *Database, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(db)
}

// Decode reads a database from its wire JSON.
func Decode(r io.Reader) (*Database, error) {
	db := NewDatabase()
	if err := json.NewDecoder(r).Decode(db); err != nil {
		return nil, fmt.Errorf("itemdb: decode database: %w", err)
	}
	return db, nil
}

// Clone returns a deep copy made through the wire encoding.
func Clone(db *Database) (*Database, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, db, false); err != nil {
		return nil, err
	}
	return Decode(&buf)
}

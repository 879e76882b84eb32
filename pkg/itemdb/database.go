package itemdb

import "sort"

// DefaultLanguage is the text table the extractor scrapes by default.
const DefaultLanguage = "English"

// Database maps item identifiers to items and holds per-language text tables.
type Database struct {
	Items map[string]*Item
	Texts map[string]map[string]string
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{
		Items: make(map[string]*Item),
		Texts: make(map[string]map[string]string),
	}
}

// PutItem stores item under its identifier, replacing any earlier item with
// the same identifier.
func (d *Database) PutItem(item *Item) {
	if d.Items == nil {
		d.Items = make(map[string]*Item)
	}
	d.Items[item.ID] = item
}

// Item returns the item with the given identifier.
func (d *Database) Item(id string) (*Item, bool) {
	item, ok := d.Items[id]
	return item, ok
}

// Len returns the number of items.
func (d *Database) Len() int { return len(d.Items) }

// ItemIDs returns all item identifiers in ascending order.
func (d *Database) ItemIDs() []string {
	ids := make([]string, 0, len(d.Items))
	for id := range d.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Languages returns the languages with text tables in ascending order.
func (d *Database) Languages() []string {
	langs := make([]string, 0, len(d.Texts))
	for lang := range d.Texts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// MergeTexts adds texts to the language's table; later keys overwrite.
func (d *Database) MergeTexts(language string, texts map[string]string) {
	if d.Texts == nil {
		d.Texts = make(map[string]map[string]string)
	}
	table, ok := d.Texts[language]
	if !ok {
		table = make(map[string]string, len(texts))
		d.Texts[language] = table
	}
	for k, v := range texts {
		table[k] = v
	}
}

// Merge folds other into d. Items from other replace items of d with the same
// identifier; text tables merge per language.
func (d *Database) Merge(other *Database) {
	if other == nil {
		return
	}
	for _, id := range other.ItemIDs() {
		d.PutItem(other.Items[id])
	}
	for _, lang := range other.Languages() {
		d.MergeTexts(lang, other.Texts[lang])
	}
}

// DisplayName returns the item's translated name in language, falling back
// to the identifier.
func (d *Database) DisplayName(id, language string) string {
	item, ok := d.Items[id]
	if !ok {
		return id
	}
	if name, ok := d.Texts[language][item.NameTextKey()]; ok && name != "" {
		return name
	}
	return id
}

// HasRecipes reports whether the item can be fabricated or deconstructed.
func (i *Item) HasRecipes() bool {
	return len(i.Fabricate) > 0 || len(i.Deconstruct) > 0
}

// RecipesOnly returns a database holding only items with at least one
// recipe. Items and text tables are shared with d, not copied.
func (d *Database) RecipesOnly() *Database {
	out := &Database{
		Items: make(map[string]*Item),
		Texts: d.Texts,
	}
	if out.Texts == nil {
		out.Texts = make(map[string]map[string]string)
	}
	for id, item := range d.Items {
		if item.HasRecipes() {
			out.Items[id] = item
		}
	}
	return out
}

// Package itemdb defines the normalized crafting database produced by the
// extractor: items keyed by identifier, their fabricate and deconstruct
// recipes, and the localized text tables used to name them.
//
// The JSON encoding of these types is a wire contract shared with the
// viewer; field names must not change.
package itemdb

// refKind discriminates the ItemRef union.
type refKind uint8

const (
	refNone refKind = iota
	refID
	refTag
)

// ItemRef points at either one item identifier or every item carrying a tag.
// The zero value is "no reference" and is never stored in a Database.
type ItemRef struct {
	kind  refKind
	value string
}

// ByID references a single item.
func ByID(id string) ItemRef { return ItemRef{kind: refID, value: id} }

// ByTag references every item carrying tag.
func ByTag(tag string) ItemRef { return ItemRef{kind: refTag, value: tag} }

// ID returns the identifier when the reference is ByID.
func (r ItemRef) ID() (string, bool) { return r.value, r.kind == refID }

// Tag returns the tag when the reference is ByTag.
func (r ItemRef) Tag() (string, bool) { return r.value, r.kind == refTag }

// IsZero reports whether r is the "no reference" value.
func (r ItemRef) IsZero() bool { return r.kind == refNone }

func (r ItemRef) String() string {
	switch r.kind {
	case refID:
		return "id:" + r.value
	case refTag:
		return "tag:" + r.value
	default:
		return "<none>"
	}
}

// ConditionRange bounds the condition an item must have. A nil side is
// unconstrained; a range with both sides nil is never constructed.
type ConditionRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// NewConditionRange returns nil when neither bound is set.
func NewConditionRange(lo, hi *float64) *ConditionRange {
	if lo == nil && hi == nil {
		return nil
	}
	return &ConditionRange{Min: lo, Max: hi}
}

// Contains reports whether condition satisfies both present bounds.
func (c *ConditionRange) Contains(condition float64) bool {
	if c == nil {
		return true
	}
	if c.Min != nil && condition < *c.Min {
		return false
	}
	if c.Max != nil && condition > *c.Max {
		return false
	}
	return true
}

// RequiredItem is an input of a recipe.
type RequiredItem struct {
	Item      ItemRef         `json:"item"`
	Amount    int             `json:"amount"`
	Condition *ConditionRange `json:"condition"`
}

// ProducedItem is an output of a deconstruct recipe.
type ProducedItem struct {
	ID           string   `json:"id"`
	Amount       int      `json:"amount"`
	MinCondition *float64 `json:"mincondition"`
}

// SkillRequirements maps a skill identifier to its required level. A nil
// level means the document did not specify one.
type SkillRequirements map[string]*int

// Fabricate converts required items and skills into the owning item.
type Fabricate struct {
	SuitableFabricators []string          `json:"suitable_fabricators"`
	Time                float64           `json:"time"`
	RequiredItems       []RequiredItem    `json:"required_items"`
	RequiredSkills      SkillRequirements `json:"required_skills"`
	RequiresRecipe      bool              `json:"requires_recipe"`
	OutCondition        float64           `json:"out_condition"`
	Amount              int               `json:"amount"`
	Recycle             bool              `json:"recycle"`
}

// Deconstruct breaks the owning item down into produced items.
type Deconstruct struct {
	Time           float64           `json:"time"`
	RequiredItems  []RequiredItem    `json:"required_items"`
	RequiredSkills SkillRequirements `json:"required_skills"`
	Items          []ProducedItem    `json:"items"`
}

// Item is one entry of the database.
type Item struct {
	ID             string        `json:"id"`
	NameIdentifier *string       `json:"nameidentifier"`
	Fabricate      []Fabricate   `json:"fabricate"`
	Deconstruct    []Deconstruct `json:"deconstruct"`
}

// NewItem returns an item with empty recipe lists.
func NewItem(id string, nameIdentifier *string) *Item {
	return &Item{
		ID:             id,
		NameIdentifier: nameIdentifier,
		Fabricate:      []Fabricate{},
		Deconstruct:    []Deconstruct{},
	}
}

// NameTextKey returns the text-table key holding the item's display name.
func (i *Item) NameTextKey() string {
	if i.NameIdentifier != nil && *i.NameIdentifier != "" {
		return "entityname." + *i.NameIdentifier
	}
	return "entityname." + i.ID
}

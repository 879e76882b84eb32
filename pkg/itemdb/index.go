package itemdb

// ProcessKind distinguishes the two recipe lists of an item.
type ProcessKind string

const (
	ProcessFabricate   ProcessKind = "fabricate"
	ProcessDeconstruct ProcessKind = "deconstruct"
)

// ProcessRef addresses one recipe: the Idx-th entry of the Kind list of item
// ItemID.
type ProcessRef struct {
	Kind   ProcessKind `json:"kind"`
	ItemID string      `json:"item"`
	Idx    int         `json:"idx"`
}

// Index answers which recipes consume or produce a given item.
type Index struct {
	usedBy     map[string][]ProcessRef
	producedBy map[string][]ProcessRef
}

// BuildIndex walks every recipe of db in identifier order. Only references by
// identifier are indexed; tag references are not expanded.
func BuildIndex(db *Database) *Index {
	usedBy := newRefCollector()
	producedBy := newRefCollector()

	for _, id := range db.ItemIDs() {
		item := db.Items[id]
		for idx, fab := range item.Fabricate {
			ref := ProcessRef{Kind: ProcessFabricate, ItemID: id, Idx: idx}
			for _, req := range fab.RequiredItems {
				if reqID, ok := req.Item.ID(); ok {
					usedBy.add(reqID, ref)
				}
			}
		}
		for idx, dec := range item.Deconstruct {
			ref := ProcessRef{Kind: ProcessDeconstruct, ItemID: id, Idx: idx}
			for _, req := range dec.RequiredItems {
				if reqID, ok := req.Item.ID(); ok {
					usedBy.add(reqID, ref)
				}
			}
			for _, out := range dec.Items {
				producedBy.add(out.ID, ref)
			}
		}
	}
	return &Index{usedBy: usedBy.refs, producedBy: producedBy.refs}
}

// UsedBy returns the recipes that require id.
func (x *Index) UsedBy(id string) []ProcessRef { return x.usedBy[id] }

// ProducedBy returns the recipes that yield id.
func (x *Index) ProducedBy(id string) []ProcessRef { return x.producedBy[id] }

// Fabricate resolves ref against db.
func (d *Database) Fabricate(ref ProcessRef) (Fabricate, bool) {
	item, ok := d.Items[ref.ItemID]
	if !ok || ref.Kind != ProcessFabricate || ref.Idx < 0 || ref.Idx >= len(item.Fabricate) {
		return Fabricate{}, false
	}
	return item.Fabricate[ref.Idx], true
}

// Deconstruct resolves ref against db.
func (d *Database) Deconstruct(ref ProcessRef) (Deconstruct, bool) {
	item, ok := d.Items[ref.ItemID]
	if !ok || ref.Kind != ProcessDeconstruct || ref.Idx < 0 || ref.Idx >= len(item.Deconstruct) {
		return Deconstruct{}, false
	}
	return item.Deconstruct[ref.Idx], true
}

type refCollector struct {
	refs map[string][]ProcessRef
}

func newRefCollector() *refCollector {
	return &refCollector{refs: make(map[string][]ProcessRef)}
}

func (c *refCollector) add(id string, ref ProcessRef) {
	for _, existing := range c.refs[id] {
		if existing == ref {
			return
		}
	}
	c.refs[id] = append(c.refs[id], ref)
}

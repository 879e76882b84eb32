package itemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexFixture() *Database {
	db := NewDatabase()
	bar := NewItem("steelbar", nil)
	bar.Fabricate = []Fabricate{{
		RequiredItems: []RequiredItem{
			{Item: ByID("steel"), Amount: 2},
			{Item: ByID("steel"), Amount: 1},
			{Item: ByTag("fuel"), Amount: 1},
		},
	}}
	bar.Deconstruct = []Deconstruct{{
		Items: []ProducedItem{{ID: "steel", Amount: 2}},
	}}
	db.PutItem(bar)

	tank := NewItem("oxygentank", nil)
	tank.Deconstruct = []Deconstruct{{
		RequiredItems: []RequiredItem{{Item: ByID("wrench"), Amount: 1}},
		Items:         []ProducedItem{{ID: "steel", Amount: 1}},
	}}
	db.PutItem(tank)
	db.PutItem(NewItem("steel", nil))
	return db
}

func TestBuildIndex(t *testing.T) {
	db := indexFixture()
	idx := BuildIndex(db)

	assert.Equal(t, []ProcessRef{{Kind: ProcessFabricate, ItemID: "steelbar", Idx: 0}}, idx.UsedBy("steel"))
	assert.Equal(t, []ProcessRef{{Kind: ProcessDeconstruct, ItemID: "oxygentank", Idx: 0}}, idx.UsedBy("wrench"))
	assert.Empty(t, idx.UsedBy("fuel"))
	assert.Equal(t, []ProcessRef{
		{Kind: ProcessDeconstruct, ItemID: "oxygentank", Idx: 0},
		{Kind: ProcessDeconstruct, ItemID: "steelbar", Idx: 0},
	}, idx.ProducedBy("steel"))
}

func TestResolveProcessRef(t *testing.T) {
	db := indexFixture()
	fab, ok := db.Fabricate(ProcessRef{Kind: ProcessFabricate, ItemID: "steelbar", Idx: 0})
	require.True(t, ok)
	assert.Len(t, fab.RequiredItems, 3)

	_, ok = db.Fabricate(ProcessRef{Kind: ProcessDeconstruct, ItemID: "steelbar", Idx: 0})
	assert.False(t, ok)
	_, ok = db.Deconstruct(ProcessRef{Kind: ProcessDeconstruct, ItemID: "steelbar", Idx: 3})
	assert.False(t, ok)
	dec, ok := db.Deconstruct(ProcessRef{Kind: ProcessDeconstruct, ItemID: "oxygentank", Idx: 0})
	require.True(t, ok)
	assert.Equal(t, "steel", dec.Items[0].ID)
}

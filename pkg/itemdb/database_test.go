package itemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutItemLastWriteWins(t *testing.T) {
	db := NewDatabase()
	first := NewItem("steel", nil)
	first.Fabricate = append(first.Fabricate, Fabricate{Amount: 1})
	db.PutItem(first)
	db.PutItem(NewItem("steel", nil))

	item, ok := db.Item("steel")
	require.True(t, ok)
	assert.Empty(t, item.Fabricate)
	assert.Equal(t, 1, db.Len())
}

func TestMerge(t *testing.T) {
	a := NewDatabase()
	a.PutItem(NewItem("x", nil))
	a.PutItem(NewItem("y", nil))
	a.MergeTexts("English", map[string]string{"entityname.x": "X", "entityname.y": "Y"})

	b := NewDatabase()
	replaced := NewItem("y", nil)
	replaced.Deconstruct = append(replaced.Deconstruct, Deconstruct{Time: 3})
	b.PutItem(replaced)
	b.PutItem(NewItem("z", nil))
	b.MergeTexts("English", map[string]string{"entityname.y": "Why"})
	b.MergeTexts("German", map[string]string{"entityname.z": "Zett"})

	a.Merge(b)
	assert.Equal(t, []string{"x", "y", "z"}, a.ItemIDs())
	assert.Len(t, a.Items["y"].Deconstruct, 1)
	assert.Equal(t, "Why", a.Texts["English"]["entityname.y"])
	assert.Equal(t, "X", a.Texts["English"]["entityname.x"])
	assert.Equal(t, []string{"English", "German"}, a.Languages())

	a.Merge(nil)
	assert.Equal(t, 3, a.Len())
}

func TestNameTextKeyAndDisplayName(t *testing.T) {
	db := NewDatabase()
	nameID := "oxygentank"
	db.PutItem(NewItem("oxygentank_empty", &nameID))
	db.PutItem(NewItem("steel", nil))
	db.MergeTexts(DefaultLanguage, map[string]string{"entityname.oxygentank": "Oxygen Tank"})

	assert.Equal(t, "entityname.oxygentank", db.Items["oxygentank_empty"].NameTextKey())
	assert.Equal(t, "entityname.steel", db.Items["steel"].NameTextKey())
	assert.Equal(t, "Oxygen Tank", db.DisplayName("oxygentank_empty", DefaultLanguage))
	assert.Equal(t, "steel", db.DisplayName("steel", DefaultLanguage))
	assert.Equal(t, "missing", db.DisplayName("missing", DefaultLanguage))
}

func TestConditionRangeContains(t *testing.T) {
	var none *ConditionRange
	assert.True(t, none.Contains(0.3))

	r := NewConditionRange(floatPtr(0.2), nil)
	assert.False(t, r.Contains(0.1))
	assert.True(t, r.Contains(5))

	r = NewConditionRange(nil, floatPtr(0.5))
	assert.True(t, r.Contains(0))
	assert.False(t, r.Contains(0.6))
}

func TestRecipesOnly(t *testing.T) {
	db := NewDatabase()
	crafted := NewItem("steelbar", nil)
	crafted.Fabricate = append(crafted.Fabricate, Fabricate{Amount: 1})
	salvaged := NewItem("oxygentank", nil)
	salvaged.Deconstruct = append(salvaged.Deconstruct, Deconstruct{Time: 1})
	db.PutItem(crafted)
	db.PutItem(salvaged)
	db.PutItem(NewItem("rock", nil))
	db.MergeTexts(DefaultLanguage, map[string]string{"entityname.rock": "Rock"})

	pruned := db.RecipesOnly()
	assert.Equal(t, []string{"oxygentank", "steelbar"}, pruned.ItemIDs())
	assert.Equal(t, db.Texts, pruned.Texts)
	assert.Equal(t, 3, db.Len(), "source database is untouched")
	assert.False(t, db.Items["rock"].HasRecipes())
}

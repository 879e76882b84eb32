package extract

import (
	"errors"
	"testing"

	"barohead/pkg/itemdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeRequirementMode(t *testing.T) {
	parts, err := parseRecipe(node(t, `<Fabricate>
  <!-- inputs -->
  <RequiredSkill identifier="mechanical" level="20"/>
  <RequiredSkill identifier="helm"/>
  <Item identifier="steel" amount="3"/>
  <Item tag="fuel"/>
  <Item/>
  <RequiredItem identifier="oxygentank" mincondition="0.1" maxcondition="0.9"/>
  <RequiredItem/>
</Fabricate>`), requirementMode)
	require.NoError(t, err)

	assert.Equal(t, []itemdb.RequiredItem{
		{Item: itemdb.ByID("steel"), Amount: 3},
		{Item: itemdb.ByTag("fuel"), Amount: 1},
		{Item: itemdb.ByID("oxygentank"), Amount: 1, Condition: &itemdb.ConditionRange{Min: floatPtr(0.1), Max: floatPtr(0.9)}},
	}, parts.requiredItems)
	assert.Equal(t, itemdb.SkillRequirements{"mechanical": intPtr(20), "helm": nil}, parts.requiredSkills)
	assert.Empty(t, parts.produced)
}

func TestParseRecipeBareItemIgnoresCondition(t *testing.T) {
	parts, err := parseRecipe(node(t, `<Fabricate><Item identifier="steel" mincondition="0.5"/></Fabricate>`), requirementMode)
	require.NoError(t, err)
	require.Len(t, parts.requiredItems, 1)
	assert.Nil(t, parts.requiredItems[0].Condition)
}

func TestParseRecipeProductionMode(t *testing.T) {
	parts, err := parseRecipe(node(t, `<Deconstruct>
  <Item identifier="steel" amount="2" mincondition="0.5" maxcondition="0.9"/>
  <Item identifier="copper"/>
  <RequiredItem identifier="wrench" maxcondition="1"/>
</Deconstruct>`), productionMode)
	require.NoError(t, err)

	assert.Equal(t, []itemdb.ProducedItem{
		{ID: "steel", Amount: 2, MinCondition: floatPtr(0.5)},
		{ID: "copper", Amount: 1},
	}, parts.produced)
	assert.Equal(t, []itemdb.RequiredItem{
		{Item: itemdb.ByID("wrench"), Amount: 1, Condition: &itemdb.ConditionRange{Max: floatPtr(1)}},
	}, parts.requiredItems)
	assert.Empty(t, parts.requiredSkills)
}

func TestParseRecipeRequiredItemSkipLeavesListUnchanged(t *testing.T) {
	with, err := parseRecipe(node(t, `<Fabricate><RequiredItem identifier="a"/><RequiredItem/></Fabricate>`), requirementMode)
	require.NoError(t, err)
	without, err := parseRecipe(node(t, `<Fabricate><RequiredItem identifier="a"/></Fabricate>`), requirementMode)
	require.NoError(t, err)
	assert.Equal(t, without.requiredItems, with.requiredItems)
}

func TestParseRecipeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		mode recipeMode
		want error
	}{
		{name: "produced tag", doc: `<Deconstruct><Item tag="metal"/></Deconstruct>`, mode: productionMode, want: ErrUnexpectedTagReference},
		{name: "produced without reference", doc: `<Deconstruct><Item/></Deconstruct>`, mode: productionMode, want: ErrNonIdentifierProducedItem},
		{name: "required item tag", doc: `<Fabricate><RequiredItem tag="metal"/></Fabricate>`, mode: requirementMode, want: ErrUnexpectedTagReference},
		{name: "required item unknown ref", doc: `<Fabricate><RequiredItem variantof="x"/></Fabricate>`, mode: requirementMode, want: ErrUnknownItemReference},
		{name: "duplicate skill", doc: `<Fabricate><RequiredSkill identifier="medical" level="1"/><RequiredSkill identifier="medical" level="2"/></Fabricate>`, mode: requirementMode, want: ErrDuplicateSkill},
		{name: "skill without identifier", doc: `<Fabricate><RequiredSkill level="2"/></Fabricate>`, mode: requirementMode, want: ErrMissingAttribute},
		{name: "skill bad level", doc: `<Fabricate><RequiredSkill identifier="medical" level="high"/></Fabricate>`, mode: requirementMode, want: ErrMalformedNumber},
		{name: "bad amount", doc: `<Fabricate><Item identifier="steel" amount="x"/></Fabricate>`, mode: requirementMode, want: ErrMalformedNumber},
		{name: "bad produced mincondition", doc: `<Deconstruct><Item identifier="steel" mincondition="x"/></Deconstruct>`, mode: productionMode, want: ErrMalformedNumber},
		{name: "unexpected element", doc: `<Fabricate><Sprite/></Fabricate>`, mode: requirementMode, want: ErrUnexpectedElement},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseRecipe(node(t, tc.doc), tc.mode)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnexpectedElementNamesTheElement(t *testing.T) {
	_, err := parseRecipe(node(t, `<Fabricate><Item identifier="a"/><SuitableFabricator/></Fabricate>`), requirementMode)
	var extractErr *Error
	require.True(t, errors.As(err, &extractErr))
	assert.Equal(t, "SuitableFabricator", extractErr.Element)
	assert.Equal(t, "/Fabricate/SuitableFabricator", extractErr.Path)
}

func TestClassifyChild(t *testing.T) {
	assert.Equal(t, kindItem, classifyChild("Item"))
	assert.Equal(t, kindRequiredItem, classifyChild("RequiredItem"))
	assert.Equal(t, kindRequiredSkill, classifyChild("RequiredSkill"))
	assert.Equal(t, kindUnknown, classifyChild("item"))
	assert.Equal(t, kindUnknown, classifyChild(""))
}

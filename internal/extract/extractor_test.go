package extract

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"barohead/internal/metrics"
	"barohead/internal/xmldoc"
	"barohead/pkg/itemdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseItems(t *testing.T, doc string, opts ...Option) *itemdb.Database {
	t.Helper()
	e := NewExtractor(opts...)
	require.NoError(t, e.ParseItems("test.xml", strings.NewReader(doc)))
	return e.Database()
}

func TestParseItemsFabricateExample(t *testing.T) {
	db := parseItems(t, `<Items>
  <Item identifier="steelbar">
    <Fabricate requiredtime="2" suitablefabricators="metalworks">
      <RequiredSkill identifier="mechanical" level="20"/>
      <Item identifier="steel" amount="3"/>
    </Fabricate>
  </Item>
</Items>`)

	item, ok := db.Item("steelbar")
	require.True(t, ok)
	assert.Nil(t, item.NameIdentifier)
	assert.Empty(t, item.Deconstruct)
	require.Len(t, item.Fabricate, 1)
	assert.Equal(t, itemdb.Fabricate{
		SuitableFabricators: []string{"metalworks"},
		Time:                2,
		RequiredItems:       []itemdb.RequiredItem{{Item: itemdb.ByID("steel"), Amount: 3}},
		RequiredSkills:      itemdb.SkillRequirements{"mechanical": intPtr(20)},
		RequiresRecipe:      false,
		OutCondition:        1,
		Amount:              1,
		Recycle:             false,
	}, item.Fabricate[0])
}

func TestParseItemsDeconstructExample(t *testing.T) {
	db := parseItems(t, `<Items>
  <Item identifier="oxygentank" nameidentifier="oxygentankfull">
    <Deconstruct time="10">
      <Item identifier="steel" amount="2" mincondition="0.5"/>
      <RequiredItem identifier="wrench"/>
    </Deconstruct>
  </Item>
</Items>`)

	item, ok := db.Item("oxygentank")
	require.True(t, ok)
	require.NotNil(t, item.NameIdentifier)
	assert.Equal(t, "oxygentankfull", *item.NameIdentifier)
	assert.Equal(t, []itemdb.Deconstruct{{
		Time:           10,
		RequiredItems:  []itemdb.RequiredItem{{Item: itemdb.ByID("wrench"), Amount: 1}},
		RequiredSkills: itemdb.SkillRequirements{},
		Items:          []itemdb.ProducedItem{{ID: "steel", Amount: 2, MinCondition: floatPtr(0.5)}},
	}}, item.Deconstruct)
}

func TestParseItemsFabricateDefaults(t *testing.T) {
	db := parseItems(t, `<Items><Item identifier="bandage"><Fabricate/></Item></Items>`)
	item, _ := db.Item("bandage")
	require.Len(t, item.Fabricate, 1)
	f := item.Fabricate[0]
	assert.Equal(t, []string{}, f.SuitableFabricators)
	assert.Equal(t, 1.0, f.Time)
	assert.Equal(t, 1.0, f.OutCondition)
	assert.Equal(t, 1, f.Amount)
	assert.False(t, f.RequiresRecipe)
	assert.False(t, f.Recycle)
	assert.Empty(t, f.RequiredItems)
	assert.Empty(t, f.RequiredSkills)
}

func TestParseItemsFabricateAttributes(t *testing.T) {
	db := parseItems(t, `<Items><Item identifier="scrap">
  <Fabricate suitablefabricators="fabricator,medicalfabricator" requiresrecipe="true" amount="2" outcondition="0.25" displayname="recycleitem"/>
  <Fabricate displayname="OxygenTankEmpty"/>
</Item></Items>`)
	item, _ := db.Item("scrap")
	require.Len(t, item.Fabricate, 2)
	assert.Equal(t, []string{"fabricator", "medicalfabricator"}, item.Fabricate[0].SuitableFabricators)
	assert.True(t, item.Fabricate[0].RequiresRecipe)
	assert.Equal(t, 2, item.Fabricate[0].Amount)
	assert.Equal(t, 0.25, item.Fabricate[0].OutCondition)
	assert.True(t, item.Fabricate[0].Recycle)
	assert.False(t, item.Fabricate[1].Recycle)
}

func TestParseItemsRecipeOrder(t *testing.T) {
	db := parseItems(t, `<Items><Item identifier="a">
  <Fabricate requiredtime="1"/>
  <Deconstruct time="5"/>
  <Fabricate requiredtime="2"/>
  <Deconstruct time="6"/>
</Item></Items>`)
	item, _ := db.Item("a")
	require.Len(t, item.Fabricate, 2)
	require.Len(t, item.Deconstruct, 2)
	assert.Equal(t, 1.0, item.Fabricate[0].Time)
	assert.Equal(t, 2.0, item.Fabricate[1].Time)
	assert.Equal(t, 5.0, item.Deconstruct[0].Time)
	assert.Equal(t, 6.0, item.Deconstruct[1].Time)
}

func TestParseItemsAnyTopLevelElement(t *testing.T) {
	db := parseItems(t, `<Items>
  <Weapon identifier="harpoongun"/>
  <Item identifier="steel"/>
  text is ignored
</Items>`)
	assert.Equal(t, []string{"harpoongun", "steel"}, db.ItemIDs())
}

func TestParseItemsSkipsMissingIdentifier(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	run := metrics.NewRun()

	db := parseItems(t, `<Items>
  <Item name="legacy crate"><Fabricate displayname="nonsense"/></Item>
  <Item identifier="steel"/>
</Items>`, WithLogger(logger), WithMetrics(run))

	assert.Equal(t, []string{"steel"}, db.ItemIDs())
	assert.Contains(t, logs.String(), "item missing identifier")
	assert.Contains(t, logs.String(), "legacy crate")
	assert.Equal(t, 1, run.Totals().Skipped)
}

func TestParseItemsLastWriteWins(t *testing.T) {
	e := NewExtractor()
	require.NoError(t, e.ParseItems("a.xml", strings.NewReader(`<Items><Item identifier="steel"><Fabricate requiredtime="1"/></Item></Items>`)))
	require.NoError(t, e.ParseItems("b.xml", strings.NewReader(`<Items><Item identifier="steel"><Fabricate requiredtime="9"/></Item><Item identifier="steel"><Fabricate requiredtime="7"/></Item></Items>`)))
	item, _ := e.Database().Item("steel")
	require.Len(t, item.Fabricate, 1)
	assert.Equal(t, 7.0, item.Fabricate[0].Time)
	assert.Equal(t, 1, e.Database().Len())
}

func TestParseItemsIgnoresOtherRoots(t *testing.T) {
	db := parseItems(t, `<Override><Item identifier="steel"/></Override>`)
	assert.Zero(t, db.Len())
}

func TestParseItemsRecycleDisplayNames(t *testing.T) {
	e := NewExtractor()
	err := e.ParseItems("bad.xml", strings.NewReader(`<Items><Item identifier="a"><Fabricate displayname="unknownvalue"/></Item></Items>`))
	require.ErrorIs(t, err, ErrUnrecognizedDisplayName)
	assert.Contains(t, err.Error(), "bad.xml")

	var extractErr *Error
	require.True(t, errors.As(err, &extractErr))
	assert.Equal(t, "unknownvalue", extractErr.Value)
}

func TestParseItemsFailures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{name: "malformed xml", doc: `<Items><Item identifier="a">`, want: ErrMalformedDocument},
		{name: "empty identifier", doc: `<Items><Item identifier=""/></Items>`, want: ErrEmptyAttribute},
		{name: "bad requiredtime", doc: `<Items><Item identifier="a"><Fabricate requiredtime="soon"/></Item></Items>`, want: ErrMalformedNumber},
		{name: "bad deconstruct time", doc: `<Items><Item identifier="a"><Deconstruct time="1,5"/></Item></Items>`, want: ErrMalformedNumber},
		{name: "bad requiresrecipe", doc: `<Items><Item identifier="a"><Fabricate requiresrecipe="yes"/></Item></Items>`, want: ErrInvalidBoolean},
		{name: "tag in deconstruct", doc: `<Items><Item identifier="a"><Deconstruct><Item tag="metal"/></Deconstruct></Item></Items>`, want: ErrUnexpectedTagReference},
		{name: "duplicate skill", doc: `<Items><Item identifier="a"><Fabricate><RequiredSkill identifier="x"/><RequiredSkill identifier="x"/></Fabricate></Item></Items>`, want: ErrDuplicateSkill},
		{name: "unexpected child", doc: `<Items><Item identifier="a"><Fabricate><Sprite/></Fabricate></Item></Items>`, want: ErrUnexpectedElement},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewExtractor().ParseItems("doc.xml", strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDuplicateSkillAcrossRecipesIsAllowed(t *testing.T) {
	db := parseItems(t, `<Items><Item identifier="a">
  <Fabricate><RequiredSkill identifier="medical" level="10"/></Fabricate>
  <Fabricate><RequiredSkill identifier="medical" level="30"/></Fabricate>
</Item></Items>`)
	item, _ := db.Item("a")
	require.Len(t, item.Fabricate, 2)
	assert.Equal(t, intPtr(10), item.Fabricate[0].RequiredSkills["medical"])
	assert.Equal(t, intPtr(30), item.Fabricate[1].RequiredSkills["medical"])
}

func TestParseItemsRecordsMetrics(t *testing.T) {
	run := metrics.NewRun()
	parseItems(t, `<Items>
  <Item identifier="a"><Fabricate/><Fabricate/><Deconstruct/></Item>
  <Item identifier="b"/>
</Items>`, WithMetrics(run))
	assert.Equal(t, metrics.Totals{
		ItemDocuments: 1,
		Items:         2,
		Fabricate:     2,
		Deconstruct:   1,
	}, run.Totals())
}

func TestParseTexts(t *testing.T) {
	e := NewExtractor()
	require.NoError(t, e.ParseTexts("en1.xml", strings.NewReader(`<infotexts language="English">
  <entityname.steel>Steel Bar</entityname.steel>
  <entityname.alloy>Steel &amp; <b>Iron</b></entityname.alloy>
  <entitydescription.steel>Strong.</entitydescription.steel>
</infotexts>`)))
	require.NoError(t, e.ParseTexts("en2.xml", strings.NewReader(`<infotexts language="English">
  <entityname.steel>Steel</entityname.steel>
  <entityname.copper>Copper</entityname.copper>
</infotexts>`)))
	require.NoError(t, e.ParseTexts("de.xml", strings.NewReader(`<infotexts language="German">
  <entityname.steel>Stahl</entityname.steel>
</infotexts>`)))
	require.NoError(t, e.ParseTexts("en3.xml", strings.NewReader(`<infotexts language="English">
  <entityname.pipe>Captain's "Pipe" &amp; Co</entityname.pipe>
</infotexts>`)))

	db := e.Database()
	assert.Equal(t, map[string]string{
		"entityname.steel":  "Steel",
		"entityname.alloy":  "Steel &amp; <b>Iron</b>",
		"entityname.copper": "Copper",
		"entityname.pipe":   `Captain's "Pipe" &amp; Co`,
	}, db.Texts["English"])
	assert.Equal(t, map[string]string{"entityname.steel": "Stahl"}, db.Texts["German"])
}

func TestParseTextsFailures(t *testing.T) {
	err := NewExtractor().ParseTexts("t.xml", strings.NewReader(`<infotexts><entityname.a>A</entityname.a></infotexts>`))
	assert.ErrorIs(t, err, ErrMissingAttribute)

	err = NewExtractor().ParseTexts("t.xml", strings.NewReader(`<infotexts language="English">`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestAddItemsFromParsedNode(t *testing.T) {
	root, err := xmldoc.ParseString(`<Items><Item identifier="steel"/></Items>`)
	require.NoError(t, err)
	e := NewExtractor()
	require.NoError(t, e.AddItems(root))
	_, ok := e.Database().Item("steel")
	assert.True(t, ok)
}

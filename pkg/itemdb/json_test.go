package itemdb

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestItemRefEncoding(t *testing.T) {
	b, err := json.Marshal(ByID("steel"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"steel"}`, string(b))

	b, err = json.Marshal(ByTag("smallitem"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tag":"smallitem"}`, string(b))

	_, err = json.Marshal(ItemRef{})
	assert.Error(t, err)

	var r ItemRef
	require.NoError(t, json.Unmarshal([]byte(`{"tag":"ore"}`), &r))
	tag, ok := r.Tag()
	assert.True(t, ok)
	assert.Equal(t, "ore", tag)

	assert.Error(t, json.Unmarshal([]byte(`{"name":"ore"}`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"id":"a","tag":"b"}`), &r))
}

func TestConditionRangeOmitsAbsentBounds(t *testing.T) {
	cases := []struct {
		name string
		item RequiredItem
		want string
	}{
		{
			name: "min only",
			item: RequiredItem{Item: ByID("oxygentank"), Amount: 1, Condition: NewConditionRange(floatPtr(0), nil)},
			want: `{"item":{"id":"oxygentank"},"amount":1,"condition":{"min":0}}`,
		},
		{
			name: "max only",
			item: RequiredItem{Item: ByID("oxygentank"), Amount: 1, Condition: NewConditionRange(nil, floatPtr(0.5))},
			want: `{"item":{"id":"oxygentank"},"amount":1,"condition":{"max":0.5}}`,
		},
		{
			name: "both",
			item: RequiredItem{Item: ByID("oxygentank"), Amount: 2, Condition: NewConditionRange(floatPtr(0.1), floatPtr(0.9))},
			want: `{"item":{"id":"oxygentank"},"amount":2,"condition":{"min":0.1,"max":0.9}}`,
		},
		{
			name: "neither",
			item: RequiredItem{Item: ByID("oxygentank"), Amount: 1, Condition: NewConditionRange(nil, nil)},
			want: `{"item":{"id":"oxygentank"},"amount":1,"condition":null}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.item)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))

			var back RequiredItem
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, tc.item, back)

			again, err := json.Marshal(back)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(again))
		})
	}
}

func TestDatabaseWireShape(t *testing.T) {
	db := NewDatabase()
	steel := NewItem("steelbar", nil)
	steel.Fabricate = append(steel.Fabricate, Fabricate{
		SuitableFabricators: []string{"fabricator"},
		Time:                2,
		RequiredItems:       []RequiredItem{{Item: ByID("steel"), Amount: 3}},
		RequiredSkills:      SkillRequirements{"mechanical": intPtr(20), "helm": nil},
		OutCondition:        1,
		Amount:              1,
	})
	steel.Deconstruct = append(steel.Deconstruct, Deconstruct{
		Time:  1,
		Items: []ProducedItem{{ID: "iron", Amount: 2, MinCondition: floatPtr(0.5)}},
	})
	db.PutItem(steel)
	name := "battery"
	db.PutItem(NewItem("batterycell", &name))
	db.MergeTexts(DefaultLanguage, map[string]string{"entityname.steelbar": "Steel Bar"})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db, false))
	assert.JSONEq(t, `{
  "items": [
    {"id":"batterycell","nameidentifier":"battery","fabricate":[],"deconstruct":[]},
    {"id":"steelbar","nameidentifier":null,
     "fabricate":[{"suitable_fabricators":["fabricator"],"time":2,
       "required_items":[{"item":{"id":"steel"},"amount":3,"condition":null}],
       "required_skills":{"mechanical":20,"helm":null},
       "requires_recipe":false,"out_condition":1,"amount":1,"recycle":false}],
     "deconstruct":[{"time":1,"required_items":[],"required_skills":{},
       "items":[{"id":"iron","amount":2,"mincondition":0.5}]}]}
  ],
  "texts": {"English": {"entityname.steelbar": "Steel Bar"}}
}`, buf.String())

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, db.ItemIDs(), back.ItemIDs())
	assert.Equal(t, db.Items["steelbar"].Fabricate, back.Items["steelbar"].Fabricate)
	assert.Equal(t, "battery", *back.Items["batterycell"].NameIdentifier)
	assert.Equal(t, db.Texts, back.Texts)
}

func TestEmptyDatabaseEncodesArrays(t *testing.T) {
	b, err := json.Marshal(NewDatabase())
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"texts":{}}`, string(b))
}

func TestDecodeKeepsLastDuplicate(t *testing.T) {
	db, err := Decode(bytes.NewBufferString(`{"items":[
		{"id":"a","nameidentifier":"first","fabricate":[],"deconstruct":[]},
		{"id":"a","nameidentifier":"second","fabricate":[],"deconstruct":[]}
	],"texts":{}}`))
	require.NoError(t, err)
	require.Equal(t, 1, db.Len())
	assert.Equal(t, "second", *db.Items["a"].NameIdentifier)
}

func TestCloneIsDeep(t *testing.T) {
	db := NewDatabase()
	db.PutItem(NewItem("a", nil))
	cp, err := Clone(db)
	require.NoError(t, err)
	cp.Items["a"].Fabricate = append(cp.Items["a"].Fabricate, Fabricate{})
	assert.Empty(t, db.Items["a"].Fabricate)
}

package extract

import (
	"barohead/internal/xmldoc"
	"barohead/pkg/itemdb"
)

// Defaults applied when a recipe omits the attribute.
const (
	defaultDeconstructTime = 1.0
	defaultFabricateTime   = 1.0
	defaultFabricateAmount = 1
	defaultOutCondition    = 1.0
)

// displayNameRecycle maps every displayname seen on a Fabricate node to
// whether the recipe is a recycling recipe. "OxygenTankEmpty" appears in the
// game data with no recycling meaning. Any other value is rejected.
var displayNameRecycle = map[string]bool{
	"recycleitem":     true,
	"OxygenTankEmpty": false,
}

func parseRecycle(n xmldoc.Node) (bool, error) {
	name, ok := n.Attr("displayname")
	if !ok {
		return false, nil
	}
	recycle, known := displayNameRecycle[name]
	if !known {
		return false, attrValueError(ErrUnrecognizedDisplayName, n, "displayname", name)
	}
	return recycle, nil
}

// assembleItem builds the item for a top-level node that carries an
// identifier attribute.
func assembleItem(n xmldoc.Node) (*itemdb.Item, error) {
	id, err := xmldoc.RequireString(n, "identifier")
	if err != nil {
		return nil, err
	}
	var nameIdentifier *string
	if v, ok := n.Attr("nameidentifier"); ok {
		nameIdentifier = &v
	}
	item := itemdb.NewItem(id, nameIdentifier)

	for _, dn := range n.ChildrenNamed("Deconstruct") {
		d, err := assembleDeconstruct(dn)
		if err != nil {
			return nil, err
		}
		item.Deconstruct = append(item.Deconstruct, d)
	}
	for _, fn := range n.ChildrenNamed("Fabricate") {
		f, err := assembleFabricate(fn)
		if err != nil {
			return nil, err
		}
		item.Fabricate = append(item.Fabricate, f)
	}
	return item, nil
}

func assembleDeconstruct(n xmldoc.Node) (itemdb.Deconstruct, error) {
	time, err := xmldoc.Float(n, "time", defaultDeconstructTime)
	if err != nil {
		return itemdb.Deconstruct{}, err
	}
	parts, err := parseRecipe(n, productionMode)
	if err != nil {
		return itemdb.Deconstruct{}, err
	}
	return itemdb.Deconstruct{
		Time:           time,
		RequiredItems:  parts.requiredItems,
		RequiredSkills: parts.requiredSkills,
		Items:          parts.produced,
	}, nil
}

func assembleFabricate(n xmldoc.Node) (itemdb.Fabricate, error) {
	time, err := xmldoc.Float(n, "requiredtime", defaultFabricateTime)
	if err != nil {
		return itemdb.Fabricate{}, err
	}
	fabricators := xmldoc.CommaList(n, "suitablefabricators")
	requiresRecipe, err := xmldoc.Bool(n, "requiresrecipe", false)
	if err != nil {
		return itemdb.Fabricate{}, err
	}
	amount, err := xmldoc.Int(n, "amount", defaultFabricateAmount)
	if err != nil {
		return itemdb.Fabricate{}, err
	}
	outCondition, err := xmldoc.Float(n, "outcondition", defaultOutCondition)
	if err != nil {
		return itemdb.Fabricate{}, err
	}
	recycle, err := parseRecycle(n)
	if err != nil {
		return itemdb.Fabricate{}, err
	}
	parts, err := parseRecipe(n, requirementMode)
	if err != nil {
		return itemdb.Fabricate{}, err
	}
	return itemdb.Fabricate{
		SuitableFabricators: fabricators,
		Time:                time,
		RequiredItems:       parts.requiredItems,
		RequiredSkills:      parts.requiredSkills,
		RequiresRecipe:      requiresRecipe,
		OutCondition:        outCondition,
		Amount:              amount,
		Recycle:             recycle,
	}, nil
}

package extract

import (
	"barohead/internal/xmldoc"
	"barohead/pkg/itemdb"
)

// recipeMode selects what bare <Item> children of a recipe mean.
type recipeMode int

const (
	// requirementMode: <Item> children are inputs (Fabricate).
	requirementMode recipeMode = iota
	// productionMode: <Item> children are outputs (Deconstruct).
	productionMode
)

// childKind enumerates the recipe child elements the extractor understands.
type childKind int

const (
	kindUnknown childKind = iota
	kindItem
	kindRequiredItem
	kindRequiredSkill
)

var childKinds = map[string]childKind{
	"Item":          kindItem,
	"RequiredItem":  kindRequiredItem,
	"RequiredSkill": kindRequiredSkill,
}

func classifyChild(name string) childKind {
	if k, ok := childKinds[name]; ok {
		return k
	}
	return kindUnknown
}

const defaultItemAmount = 1

// recipeParts accumulates the three collections read from one recipe node.
type recipeParts struct {
	requiredItems  []itemdb.RequiredItem
	requiredSkills itemdb.SkillRequirements
	produced       []itemdb.ProducedItem
}

func parseRecipe(n xmldoc.Node, mode recipeMode) (recipeParts, error) {
	parts := recipeParts{
		requiredItems:  []itemdb.RequiredItem{},
		requiredSkills: itemdb.SkillRequirements{},
		produced:       []itemdb.ProducedItem{},
	}
	for _, child := range n.Children() {
		switch classifyChild(child.Name()) {
		case kindItem:
			if mode == requirementMode {
				req, ok, err := parseBareRequirement(child)
				if err != nil {
					return recipeParts{}, err
				}
				if ok {
					parts.requiredItems = append(parts.requiredItems, req)
				}
				continue
			}
			out, err := parseProducedItem(child)
			if err != nil {
				return recipeParts{}, err
			}
			parts.produced = append(parts.produced, out)
		case kindRequiredItem:
			req, ok, err := parseRequiredItem(child)
			if err != nil {
				return recipeParts{}, err
			}
			if ok {
				parts.requiredItems = append(parts.requiredItems, req)
			}
		case kindRequiredSkill:
			if err := parseRequiredSkill(child, parts.requiredSkills); err != nil {
				return recipeParts{}, err
			}
		case kindUnknown:
			return recipeParts{}, nodeError(ErrUnexpectedElement, child)
		}
	}
	return parts, nil
}

// parseBareRequirement reads <Item> as an input: tags allowed, no condition.
func parseBareRequirement(n xmldoc.Node) (itemdb.RequiredItem, bool, error) {
	ref, ok, err := resolveItemRef(n, true)
	if err != nil || !ok {
		return itemdb.RequiredItem{}, false, err
	}
	amount, err := xmldoc.Int(n, "amount", defaultItemAmount)
	if err != nil {
		return itemdb.RequiredItem{}, false, err
	}
	return itemdb.RequiredItem{Item: ref, Amount: amount}, true, nil
}

// parseProducedItem reads <Item> as an output. Only mincondition is read.
func parseProducedItem(n xmldoc.Node) (itemdb.ProducedItem, error) {
	ref, ok, err := resolveItemRef(n, false)
	if err != nil {
		return itemdb.ProducedItem{}, err
	}
	id, isID := ref.ID()
	if !ok || !isID {
		return itemdb.ProducedItem{}, nodeError(ErrNonIdentifierProducedItem, n)
	}
	amount, err := xmldoc.Int(n, "amount", defaultItemAmount)
	if err != nil {
		return itemdb.ProducedItem{}, err
	}
	minCondition, err := xmldoc.OptionalFloat(n, "mincondition")
	if err != nil {
		return itemdb.ProducedItem{}, err
	}
	return itemdb.ProducedItem{ID: id, Amount: amount, MinCondition: minCondition}, nil
}

// parseRequiredItem reads <RequiredItem>: identifiers only, optional
// condition range. A reference-less element is skipped.
func parseRequiredItem(n xmldoc.Node) (itemdb.RequiredItem, bool, error) {
	ref, ok, err := resolveItemRef(n, false)
	if err != nil || !ok {
		return itemdb.RequiredItem{}, false, err
	}
	amount, err := xmldoc.Int(n, "amount", defaultItemAmount)
	if err != nil {
		return itemdb.RequiredItem{}, false, err
	}
	condition, err := parseConditionRange(n)
	if err != nil {
		return itemdb.RequiredItem{}, false, err
	}
	return itemdb.RequiredItem{Item: ref, Amount: amount, Condition: condition}, true, nil
}

func parseRequiredSkill(n xmldoc.Node, skills itemdb.SkillRequirements) error {
	id, err := xmldoc.RequireString(n, "identifier")
	if err != nil {
		return err
	}
	level, err := xmldoc.OptionalInt(n, "level")
	if err != nil {
		return err
	}
	if _, dup := skills[id]; dup {
		return attrValueError(ErrDuplicateSkill, n, "identifier", id)
	}
	skills[id] = level
	return nil
}

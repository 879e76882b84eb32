package extract

import (
	"barohead/internal/xmldoc"
	"barohead/pkg/itemdb"
)

// resolveItemRef reads the reference an item-like node carries. ok is false,
// with a nil error, when the node has no attributes at all; one Fabricate
// recipe in the game data lists such an element next to a comment, so it is
// tolerated and callers skip it.
func resolveItemRef(n xmldoc.Node, allowTag bool) (ref itemdb.ItemRef, ok bool, err error) {
	switch {
	case n.HasAttr("identifier"):
		id, err := xmldoc.RequireString(n, "identifier")
		if err != nil {
			return itemdb.ItemRef{}, false, err
		}
		return itemdb.ByID(id), true, nil
	case n.HasAttr("tag"):
		tag, err := xmldoc.RequireString(n, "tag")
		if err != nil {
			return itemdb.ItemRef{}, false, err
		}
		if !allowTag {
			return itemdb.ItemRef{}, false, attrValueError(ErrUnexpectedTagReference, n, "tag", tag)
		}
		return itemdb.ByTag(tag), true, nil
	case n.AttrCount() == 0:
		return itemdb.ItemRef{}, false, nil
	default:
		return itemdb.ItemRef{}, false, nodeError(ErrUnknownItemReference, n)
	}
}

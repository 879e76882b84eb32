package extract

import (
	"barohead/internal/xmldoc"
	"barohead/pkg/itemdb"
)

// parseConditionRange returns nil unless mincondition or maxcondition is set.
func parseConditionRange(n xmldoc.Node) (*itemdb.ConditionRange, error) {
	lo, err := xmldoc.OptionalFloat(n, "mincondition")
	if err != nil {
		return nil, err
	}
	hi, err := xmldoc.OptionalFloat(n, "maxcondition")
	if err != nil {
		return nil, err
	}
	return itemdb.NewConditionRange(lo, hi), nil
}

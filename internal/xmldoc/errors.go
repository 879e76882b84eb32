package xmldoc

import (
	"errors"
	"fmt"
)

// Attribute reader failure kinds. Use errors.Is against these.
var (
	ErrMissingAttribute = errors.New("missing attribute")
	ErrEmptyAttribute   = errors.New("empty attribute")
	ErrMalformedNumber  = errors.New("malformed number")
	ErrInvalidBoolean   = errors.New("invalid boolean")
)

// AttrError describes a failed attribute read. Kind is one of the Err*
// sentinels above.
type AttrError struct {
	Kind      error
	Path      string
	Attribute string
	Value     string
}

func (e *AttrError) Error() string {
	switch e.Kind {
	case ErrMissingAttribute, ErrEmptyAttribute:
		return fmt.Sprintf("%s: %s %q", e.Path, e.Kind, e.Attribute)
	default:
		return fmt.Sprintf("%s: %s in attribute %q: %q", e.Path, e.Kind, e.Attribute, e.Value)
	}
}

func (e *AttrError) Unwrap() error { return e.Kind }

func attrError(kind error, n Node, attr, value string) error {
	return &AttrError{Kind: kind, Path: n.Path(), Attribute: attr, Value: value}
}

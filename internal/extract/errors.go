package extract

import (
	"errors"
	"fmt"

	"barohead/internal/xmldoc"
)

// Failure kinds. Every error returned by this package matches exactly one of
// these with errors.Is. All of them abort the run.
var (
	ErrMissingAttribute          = xmldoc.ErrMissingAttribute
	ErrEmptyAttribute            = xmldoc.ErrEmptyAttribute
	ErrMalformedNumber           = xmldoc.ErrMalformedNumber
	ErrInvalidBoolean            = xmldoc.ErrInvalidBoolean
	ErrUnexpectedTagReference    = errors.New("tag reference not allowed here")
	ErrUnknownItemReference      = errors.New("unknown item reference")
	ErrNonIdentifierProducedItem = errors.New("produced item is not an identifier reference")
	ErrDuplicateSkill            = errors.New("duplicate required skill")
	ErrUnexpectedElement         = errors.New("unexpected element")
	ErrUnrecognizedDisplayName   = errors.New("unrecognized displayname")
	ErrMalformedDocument         = errors.New("malformed document")
)

// Error locates a structural failure inside a document. Attribute read
// failures surface as *xmldoc.AttrError instead.
type Error struct {
	Kind      error
	Path      string
	Element   string
	Attribute string
	Value     string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Path, e.Kind)
	if e.Element != "" {
		msg += fmt.Sprintf(" <%s>", e.Element)
	}
	if e.Attribute != "" {
		msg += fmt.Sprintf(" %s=%q", e.Attribute, e.Value)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func nodeError(kind error, n xmldoc.Node) *Error {
	return &Error{Kind: kind, Path: n.Path(), Element: n.Name()}
}

func attrValueError(kind error, n xmldoc.Node, attr, value string) *Error {
	return &Error{Kind: kind, Path: n.Path(), Element: n.Name(), Attribute: attr, Value: value}
}

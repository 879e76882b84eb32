package xmldoc

import (
	"regexp"
	"strconv"
	"strings"
)

// Integer literals: optional sign, decimal digits, single underscores
// between digits. Radix prefixes (0x, 0b, 0o) are rejected and a leading zero
// is decimal, so "010" is 10, not octal 8.
var intLiteral = regexp.MustCompile(`^\s*[+-]?[0-9]+(_[0-9]+)*\s*$`)

// Float literals: optional sign, digits with optional fraction, or a leading
// dot, with an optional exponent.
var floatLiteral = regexp.MustCompile(`^\s*[+-]?([0-9]+(_[0-9]+)*(\.[0-9]+(_[0-9]+)*)?|\.[0-9]+)([eE][+-]?[0-9]+)?\s*$`)

// RequireString returns the attribute value, failing when it is absent or
// empty.
func RequireString(n Node, attr string) (string, error) {
	v, ok := n.Attr(attr)
	if !ok {
		return "", attrError(ErrMissingAttribute, n, attr, "")
	}
	if v == "" {
		return "", attrError(ErrEmptyAttribute, n, attr, "")
	}
	return v, nil
}

// Float returns the attribute parsed as a float, or def when absent.
func Float(n Node, attr string, def float64) (float64, error) {
	v, err := OptionalFloat(n, attr)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// OptionalFloat returns nil when the attribute is absent.
func OptionalFloat(n Node, attr string) (*float64, error) {
	raw, ok := n.Attr(attr)
	if !ok {
		return nil, nil
	}
	if !floatLiteral.MatchString(raw) {
		return nil, attrError(ErrMalformedNumber, n, attr, raw)
	}
	f, err := strconv.ParseFloat(normalizeNumber(raw), 64)
	if err != nil {
		return nil, attrError(ErrMalformedNumber, n, attr, raw)
	}
	return &f, nil
}

// Int returns the attribute parsed as an integer, or def when absent.
func Int(n Node, attr string, def int) (int, error) {
	v, err := OptionalInt(n, attr)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// OptionalInt returns nil when the attribute is absent.
func OptionalInt(n Node, attr string) (*int, error) {
	raw, ok := n.Attr(attr)
	if !ok {
		return nil, nil
	}
	if !intLiteral.MatchString(raw) {
		return nil, attrError(ErrMalformedNumber, n, attr, raw)
	}
	i, err := strconv.Atoi(normalizeNumber(raw))
	if err != nil {
		return nil, attrError(ErrMalformedNumber, n, attr, raw)
	}
	return &i, nil
}

// Bool accepts only the literals "true" and "false".
func Bool(n Node, attr string, def bool) (bool, error) {
	raw, ok := n.Attr(attr)
	if !ok {
		return def, nil
	}
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, attrError(ErrInvalidBoolean, n, attr, raw)
	}
}

// CommaList splits the attribute on ",". Fields are not trimmed; trailing
// empty fields are dropped. An absent attribute yields an empty list.
func CommaList(n Node, attr string) []string {
	raw, ok := n.Attr(attr)
	if !ok {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func normalizeNumber(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "_", "")
}

package extract

import (
	"testing"

	"barohead/internal/xmldoc"

	"github.com/stretchr/testify/require"
)

func node(t *testing.T, doc string) xmldoc.Node {
	t.Helper()
	n, err := xmldoc.ParseString(doc)
	require.NoError(t, err)
	return n
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

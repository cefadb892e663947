package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Digest", "Size"},
		[][]string{{"abc", "3 B"}, {"def"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	assert.Contains(t, out, "Digest")
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "def")
	// Header, two rows and the border lines.
	assert.Equal(t, 6, len(strings.Split(out, "\n")))
}

func TestRenderTable_NoColumns(t *testing.T) {
	assert.Empty(t, renderTable(nil, [][]string{{"x"}}, nil))
}

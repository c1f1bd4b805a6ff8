package theme

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountHasStyle(t *testing.T) {
	assert.Contains(t, Count(0), "0")
	assert.Contains(t, Count(12), "12")
}

func TestRowAlignsValues(t *testing.T) {
	a := Row("items", 10, "42")
	b := Row("unresolved", 10, "42")
	assert.Equal(t, lipgloss.Width(a), lipgloss.Width(b))
}

func TestTablePadsByDisplayWidth(t *testing.T) {
	tbl := &Table{Headers: []string{"Kanji", "Fixed"}, Right: map[int]bool{1: true}}
	tbl.Add("猫", "3")
	tbl.Add("ジーンズ", "12")
	assert.Equal(t, 2, tbl.Len())

	lines := strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, 15, lipgloss.Width(l), "line %q", l)
	}
	assert.True(t, strings.HasSuffix(lines[2], " 3"))
}

func TestTableShortRow(t *testing.T) {
	tbl := &Table{Headers: []string{"Run", "Error"}}
	tbl.Add("a1b2")
	assert.Contains(t, tbl.String(), "a1b2")
}

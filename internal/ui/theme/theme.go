package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Accent)
)

// Card frames a per-level summary block.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// Count renders n as good when zero and bad otherwise, for counts of
// problems left over.
func Count(n int) string {
	if n == 0 {
		return Good.Render(fmt.Sprint(n))
	}
	return Bad.Render(fmt.Sprint(n))
}

// Row renders a "label  value" line with the label padded to width.
func Row(label string, width int, value string) string {
	pad := width - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}
	return Hint.Render(label) + fmt.Sprintf("%*s", pad+2, "") + value
}

// Table lays out rows under a header. Cells are padded by display width,
// so kana and kanji columns line up. Columns listed in Right are
// right-aligned.
type Table struct {
	Headers []string
	Right   map[int]bool
	rows    [][]string
}

// Add appends a row. Missing cells render empty.
func (t *Table) Add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added.
func (t *Table) Len() int { return len(t.rows) }

// String renders the header, a rule and every row.
func (t *Table) String() string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i := range min(len(r), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(r[i]))
		}
	}

	var b strings.Builder
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(Title.Render(t.line(t.Headers, widths)))
	b.WriteString("\n")
	b.WriteString(Hint.Render(strings.Repeat("─", max(total-2, 0))))
	b.WriteString("\n")
	for _, r := range t.rows {
		b.WriteString(t.line(r, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var c string
		if i < len(cells) {
			c = cells[i]
		}
		pad := strings.Repeat(" ", max(w-lipgloss.Width(c), 0))
		if t.Right[i] {
			parts[i] = pad + c
		} else {
			parts[i] = c + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	columnGap = "  "
	ellipsis  = "…"
	// minFlexWidth is the narrowest the last column is squeezed to.
	minFlexWidth = 8
)

// maxWidth caps rendered table rows; 0 leaves them unbounded.
var maxWidth int

// SetMaxWidth caps the printed width of table rows. The last column absorbs
// the cut, so it should hold free text. n <= 0 removes the cap.
func SetMaxWidth(n int) {
	if n < 0 {
		n = 0
	}
	maxWidth = n
}

// Table renders aligned columns under a styled header. Cells may carry ANSI
// styling; widths are measured on printed characters.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	right   map[int]bool
}

// NewTable creates a new table with the given column headers.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers: headers,
		widths:  make([]int, len(headers)),
		right:   make(map[int]bool),
	}
	for i, h := range headers {
		t.widths[i] = visualLen(h)
	}
	return t
}

// AlignRight right-aligns the given zero-based columns, for counts and scores.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow appends a row. Missing trailing values render empty; extra values
// are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	for i, cell := range row {
		t.widths[i] = max(t.widths[i], visualLen(cell))
	}
	t.rows = append(t.rows, row)
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render returns the formatted table, one line per row plus the header and
// a rule beneath it.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.fitWidths()

	var sb strings.Builder
	t.writeLine(&sb, widths, t.headers, func(s string) string { return StyleHeader.Render(s) })

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	t.writeLine(&sb, widths, rules, func(s string) string { return StyleMuted.Render(s) })

	for _, row := range t.rows {
		t.writeLine(&sb, widths, row, nil)
	}
	return sb.String()
}

// WriteTo writes the rendered table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.Render()
}

// fitWidths returns the column widths after squeezing the last column into
// maxWidth.
func (t *Table) fitWidths() []int {
	widths := append([]int(nil), t.widths...)
	if maxWidth == 0 {
		return widths
	}
	total := len(columnGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	last := len(widths) - 1
	if over := total - maxWidth; over > 0 {
		widths[last] = max(widths[last]-over, min(widths[last], minFlexWidth))
	}
	return widths
}

func (t *Table) writeLine(sb *strings.Builder, widths []int, cells []string, style func(string) string) {
	last := len(cells) - 1
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		cell = truncate(cell, widths[i])
		switch {
		case t.right[i]:
			cell = padLeft(cell, widths[i])
		case i < last:
			cell = pad(cell, widths[i])
		}
		if style != nil {
			cell = style(cell)
		}
		sb.WriteString(cell)
	}
	sb.WriteString("\n")
}

// visualLen is the printed width of s, ignoring ANSI escape sequences.
func visualLen(s string) int {
	return lipgloss.Width(s)
}

// pad right-pads a string to the given printed width. Cells may already
// carry tier colors, so width is measured without escape sequences.
func pad(s string, width int) string {
	n := visualLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func padLeft(s string, width int) string {
	n := visualLen(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

// truncate cuts s to width printed characters, ending in an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || visualLen(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width-1).Render(s) + ellipsis
}

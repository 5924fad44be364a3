package query

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/value"
)

const truncationMark = "..."

// displayValue renders a value for the text table: strings in quotes,
// everything else as its literal.
func displayValue(v value.Value) string {
	if v.Kind == value.KindString {
		return "'" + v.Str + "'"
	}

	return value.Render(v)
}

// formatAsTable writes a summary followed by a fixed-width table with a
// leading Row column. At most MaxRows rows are shown and cells wider than
// MaxColumnWidth are cut.
func (f *Formatter) formatAsTable(result *engine.Result, output io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Table: %s\n", result.Table)
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(result.Columns, ", "))

	if result.Distinct {
		b.WriteString("Modifier: DISTINCT\n")
	}

	if result.Where != "" {
		fmt.Fprintf(&b, "Filter: WHERE %s\n", result.Where)
	}

	fmt.Fprintf(&b, "Rows returned: %d\n\n", len(result.Rows))

	if len(result.Rows) == 0 {
		b.WriteString("No rows found matching the criteria.\n")
	} else {
		f.writeTable(&b, result)
	}

	if result.Skipped > 0 {
		fmt.Fprintf(&b, "\nNote: %d stored row(s) could not be decoded and were skipped.\n", result.Skipped)
	}

	_, err := io.WriteString(output, b.String())

	return err
}

func (f *Formatter) writeTable(b *strings.Builder, result *engine.Result) {
	maxWidth := f.MaxColumnWidth
	if maxWidth <= len(truncationMark) {
		maxWidth = DefaultMaxColumnWidth
	}

	rows := result.Rows
	if f.MaxRows > 0 && len(rows) > f.MaxRows {
		rows = rows[:f.MaxRows]
	}

	cells := make([][]string, len(rows))
	truncated := false

	widths := make([]int, len(result.Columns)+1)
	widths[0] = max(len("Row"), len(strconv.Itoa(len(rows))))

	for i, col := range result.Columns {
		widths[i+1] = max(3, utf8.RuneCountInString(col))
	}

	for r, row := range rows {
		cells[r] = make([]string, len(row))

		for i, v := range row {
			cells[r][i] = displayValue(v)
			widths[i+1] = max(widths[i+1], utf8.RuneCountInString(cells[r][i]))
		}
	}

	for i := range widths {
		if widths[i] > maxWidth {
			widths[i] = maxWidth
			truncated = truncated || i > 0
		}
	}

	b.WriteString("```\n")
	b.WriteString(pad("Row", widths[0]))

	for i, col := range result.Columns {
		b.WriteString(" | ")
		b.WriteString(pad(cut(col, widths[i+1]), widths[i+1]))
	}

	b.WriteByte('\n')

	total := len(widths) * 3
	for _, w := range widths {
		total += w
	}

	b.WriteString(strings.Repeat("-", total-3))
	b.WriteByte('\n')

	for r, row := range cells {
		b.WriteString(pad(strconv.Itoa(r+1), widths[0]))

		for i, cell := range row {
			b.WriteString(" | ")
			b.WriteString(pad(cut(cell, widths[i+1]), widths[i+1]))
		}

		b.WriteByte('\n')
	}

	if hidden := len(result.Rows) - len(rows); hidden > 0 {
		fmt.Fprintf(b, "... and %d more rows\n", hidden)
	}

	b.WriteString("```\n")

	if truncated {
		b.WriteString("\nNote: Some long values have been truncated for display. Select fewer columns to see full values.\n")
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}

	return s
}

func cut(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}

	runes := []rune(s)

	return string(runes[:width-len(truncationMark)]) + truncationMark
}

// formatAsMarkdown formats results as a Markdown table
func (f *Formatter) formatAsMarkdown(result *engine.Result, output io.Writer) error {
	if len(result.Rows) == 0 {
		_, err := fmt.Fprintln(output, "No results")
		return err
	}

	var b strings.Builder

	b.WriteString("| Row |")

	for _, col := range result.Columns {
		fmt.Fprintf(&b, " %s |", escapeMarkdown(col))
	}

	b.WriteString("\n| --- |")
	b.WriteString(strings.Repeat(" --- |", len(result.Columns)))
	b.WriteByte('\n')

	for r, row := range result.Rows {
		fmt.Fprintf(&b, "| %d |", r+1)

		for _, v := range row {
			fmt.Fprintf(&b, " %s |", escapeMarkdown(displayValue(v)))
		}

		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n<!-- %d rows, %d skipped -->\n", len(result.Rows), result.Skipped)

	_, err := io.WriteString(output, b.String())

	return err
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

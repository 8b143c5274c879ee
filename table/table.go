// Package table renders ranked report rows either as a width-fitted
// human-readable table or as a parsable |-separated stream.  Callers
// build a Table of preformatted cells; all selection and ordering has
// happened by then, the table only draws.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Layout constants for the human-readable mode.
const (
	colGap     = 3  // spaces between adjacent columns
	lineMargin = 2  // slack counted against the width budget
	minWidth   = 40 // width budgets below this are raised to this
)

var gap = strings.Repeat(" ", colGap)

// Spec says how a table is to be rendered.  A zero Width means
// unlimited, a zero Rows means all rows.
type Spec struct {
	Width    int
	Rows     int
	Parsable bool
	Color    bool
}

// Band classifies a score for coloring.
type Band int

const (
	BandNone Band = iota
	BandLow
	BandMid
	BandHigh
)

// BandOf maps an efficiency percentage to its color band.
func BandOf(score float64) Band {
	switch {
	case score < 33:
		return BandLow
	case score < 66:
		return BandMid
	default:
		return BandHigh
	}
}

var bandColors = map[Band]*color.Color{
	BandLow:  color.New(color.FgRed),
	BandMid:  color.New(color.FgYellow),
	BandHigh: color.New(color.FgGreen),
}

// Cell is one field of one row: the full field text and an optional
// color band.  The band is a pure display attribute, it never affects
// layout or ordering.
type Cell struct {
	Text string
	Band Band
}

func Plain(text string) Cell {
	return Cell{Text: text}
}

func Banded(text string, score float64) Cell {
	return Cell{Text: text, Band: BandOf(score)}
}

// Table accumulates rows under a fixed header.  Every row must have
// exactly as many cells as the header has fields.
type Table struct {
	header []string
	rows   [][]Cell
}

func New(header ...string) *Table {
	return &Table{header: header}
}

// AddRow panics on a field count mismatch: that is a bug in the
// caller, not a data error.
func (t *Table) AddRow(cells ...Cell) {
	if len(cells) != len(t.header) {
		panic(fmt.Sprintf("table: row has %d fields but header has %d", len(cells), len(t.header)))
	}
	t.rows = append(t.rows, cells)
}

func (t *Table) Render(out io.Writer, spec Spec) {
	rows := t.rows
	if spec.Rows > 0 && len(rows) > spec.Rows {
		rows = rows[:spec.Rows]
	}
	if spec.Parsable {
		renderParsable(out, t.header, rows)
		return
	}
	renderFitted(out, t.header, rows, spec)
}

// Parsable mode: full untruncated values joined by "|", no dividers,
// never any color escapes.
func renderParsable(out io.Writer, header []string, rows [][]Cell) {
	fmt.Fprintln(out, strings.Join(header, "|"))
	fields := make([]string, len(header))
	for _, r := range rows {
		for i, c := range r {
			fields[i] = c.Text
		}
		fmt.Fprintln(out, strings.Join(fields, "|"))
	}
}

func renderFitted(out io.Writer, header []string, rows [][]Cell, spec Spec) {
	// Each column is as wide as its header or its widest displayed
	// cell, then the whole set is squeezed into the width budget.
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if len(c.Text) > widths[i] {
				widths[i] = len(c.Text)
			}
		}
	}
	if spec.Width > 0 {
		fitWidths(widths, spec.Width)
	}

	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = pad(clip(h, widths[i]), widths[i])
	}
	headerLine := strings.Join(fields, gap)
	fmt.Fprintln(out, strings.TrimRight(headerLine, " "))
	fmt.Fprintln(out, strings.Repeat("-", len(headerLine)))
	for _, r := range rows {
		for i, c := range r {
			f := pad(clip(c.Text, widths[i]), widths[i])
			if spec.Color && c.Band != BandNone {
				f = bandColors[c.Band].Sprint(f)
			}
			fields[i] = f
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(fields, gap), " "))
	}
}

// clip truncates s to the column width, marking the cut with a "*".
func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return "*"
	}
	return s[:width-1] + "*"
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

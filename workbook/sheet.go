package workbook

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Color is a 24-bit RGB cell background. The zero value means "no background".
type Color uint32

// Cell is one cell of a sheet. A cell holds either a text or a numeric value
// (dates and booleans are numeric values carrying a date or BOOLEAN format
// code, the way spreadsheets store them).
type Cell struct {
	text       string
	number     decimal.Decimal
	isNumber   bool
	format     string
	background Color
}

// SetText sets a text value, discarding any previous numeric value.
func (c *Cell) SetText(v string) {
	c.text = v
	c.number = decimal.Decimal{}
	c.isNumber = false
}

// SetNumber sets a numeric value, discarding any previous text value.
func (c *Cell) SetNumber(v decimal.Decimal) {
	c.number = v
	c.text = ""
	c.isNumber = true
}

// Text returns the text value. It is empty for numeric cells.
func (c *Cell) Text() string { return c.text }

// Number returns the numeric value and whether the cell holds one.
func (c *Cell) Number() (decimal.Decimal, bool) { return c.number, c.isNumber }

// IsEmpty reports whether the cell has neither value nor formatting.
func (c *Cell) IsEmpty() bool {
	return !c.isNumber && c.text == "" && c.format == "" && c.background == 0
}

// Format returns the cell number format code (e.g. "@" or "#,##0.00").
func (c *Cell) Format() string { return c.format }

// SetFormat sets the cell number format code.
func (c *Cell) SetFormat(format string) { c.format = format }

// Background returns the cell background color.
func (c *Cell) Background() Color { return c.background }

// SetBackground sets the cell background color.
func (c *Cell) SetBackground(color Color) { c.background = color }

type position struct{ col, row int }

// Sheet is a sparse grid of cells addressed by zero-based column and row.
type Sheet struct {
	name  string
	cells map[position]*Cell
}

func newSheet(name string) *Sheet {
	return &Sheet{name: name, cells: make(map[position]*Cell)}
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// Cell returns the cell at (col, row), creating it if needed.
func (s *Sheet) Cell(col, row int) *Cell {
	p := position{col, row}
	c, ok := s.cells[p]
	if !ok {
		c = new(Cell)
		s.cells[p] = c
	}
	return c
}

// Lookup returns the cell at (col, row) if it exists.
func (s *Sheet) Lookup(col, row int) (*Cell, bool) {
	c, ok := s.cells[position{col, row}]
	return c, ok
}

// Clear removes every value and every piece of formatting from the sheet,
// the full-range clearContents of the original document.
func (s *Sheet) Clear() {
	s.cells = make(map[position]*Cell)
}

// Dims returns the number of columns and rows in use (one past the highest
// populated index).
func (s *Sheet) Dims() (cols, rows int) {
	for p, c := range s.cells {
		if c.IsEmpty() {
			continue
		}
		if p.col >= cols {
			cols = p.col + 1
		}
		if p.row >= rows {
			rows = p.row + 1
		}
	}
	return cols, rows
}

// SortRows stable-sorts the rows from firstRow (inclusive) down to the last
// populated row, comparing rows key by key on the given zero-based column
// indices. With ascending=false every key comparison is reversed.
//
// Cell ordering follows the spreadsheet rule: numbers sort before text, and
// blank cells sort after everything in ascending order (so they reverse to
// first in descending order).
func (s *Sheet) SortRows(firstRow int, keys []int, ascending bool) {
	_, rows := s.Dims()
	if firstRow >= rows {
		return
	}

	// Snapshot the data rows in a single pass.
	type rowCells map[int]*Cell
	data := make([]rowCells, rows-firstRow)
	for i := range data {
		data[i] = make(rowCells)
	}
	for p, c := range s.cells {
		if p.row >= firstRow && p.row < rows {
			data[p.row-firstRow][p.col] = c
		}
	}

	sort.SliceStable(data, func(i, j int) bool {
		for _, k := range keys {
			cmp := compareCells(data[i][k], data[j][k])
			if cmp == 0 {
				continue
			}
			if ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})

	// Rewrite the data range with the sorted rows.
	for p := range s.cells {
		if p.row >= firstRow {
			delete(s.cells, p)
		}
	}
	for i, rc := range data {
		for col, c := range rc {
			s.cells[position{col, firstRow + i}] = c
		}
	}
}

// compareCells orders two possibly-nil cells: numbers < text < blank.
func compareCells(a, b *Cell) int {
	ra, rb := cellRank(a), cellRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		na, _ := a.Number()
		nb, _ := b.Number()
		return na.Cmp(nb)
	case 1:
		return strings.Compare(a.Text(), b.Text())
	}
	return 0
}

func cellRank(c *Cell) int {
	if c == nil {
		return 2
	}
	if _, ok := c.Number(); ok {
		return 0
	}
	if c.Text() != "" {
		return 1
	}
	return 2
}

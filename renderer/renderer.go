// Package renderer turns workbook sheets into human-readable markdown,
// interpreting the cell number format codes for display.
package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/izlotnik/questrade-reconcile/workbook"
	"github.com/shopspring/decimal"
)

// serialEpoch mirrors the date-serial epoch used when cells are written.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SheetMarkdown renders the used range of a sheet as a markdown pipe table.
// The first row is the header; highlighted cells are emphasized.
func SheetMarkdown(s *workbook.Sheet) string {
	cols, rows := s.Dims()
	if cols == 0 || rows == 0 {
		return fmt.Sprintf("*%s is empty.*\n", s.Name())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Name())
	for row := 0; row < rows; row++ {
		b.WriteString("|")
		for col := 0; col < cols; col++ {
			b.WriteString(" ")
			if cell, ok := s.Lookup(col, row); ok {
				value := DisplayValue(cell)
				if cell.Background() != 0 && row > 0 {
					value = "**" + value + "**"
				}
				b.WriteString(value)
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
		if row == 0 {
			b.WriteString(strings.Repeat("| --- ", cols))
			b.WriteString("|\n")
		}
	}
	return b.String()
}

// DisplayValue renders one cell the way its format code asks for: raw text
// for "@", yes/no for BOOLEAN, a readable date for date formats, grouped
// digits at the coded precision for number formats.
func DisplayValue(c *workbook.Cell) string {
	n, ok := c.Number()
	if !ok {
		return c.Text()
	}

	format := c.Format()
	switch {
	case format == "BOOLEAN":
		if n.IsZero() {
			return "no"
		}
		return "yes"
	case strings.Contains(format, "YYYY"):
		days := n.IntPart()
		return serialEpoch.AddDate(0, 0, int(days)).Format("Jan 2, 2006")
	case strings.HasPrefix(format, "#,##0"):
		return groupedDigits(n, formatPrecision(format))
	}
	// General and anything unrecognized: the plain decimal representation.
	return n.String()
}

// formatPrecision counts the decimal places coded in a "#,##0.00" style
// format.
func formatPrecision(format string) int {
	code, _, _ := strings.Cut(format, ";")
	if _, frac, ok := strings.Cut(code, "."); ok {
		return len(frac)
	}
	return 0
}

// groupedDigits formats n with thousand separators and a fixed precision,
// keeping the sign visible. go-money's formatter works on minor units, so
// the value is shifted by the precision first.
func groupedDigits(n decimal.Decimal, precision int) string {
	f := money.NewFormatter(precision, ".", ",", "", "1")
	minor := n.Abs().Shift(int32(precision)).Round(0).IntPart()
	s := f.Format(minor)
	if n.IsNegative() {
		return "-" + s
	}
	return s
}

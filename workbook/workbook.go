// Package workbook models the spreadsheet-like document the reconcile run
// writes into: named sheets of sparsely populated cells, each cell holding a
// text or numeric value together with a number format code and an optional
// background color.
package workbook

import (
	"fmt"
	"sort"
)

// Workbook is a collection of named sheets.
type Workbook struct {
	sheets map[string]*Sheet
}

// New returns a new empty workbook.
func New() *Workbook {
	return &Workbook{sheets: make(map[string]*Sheet)}
}

// Sheet returns the sheet with the given name, creating it if needed.
func (w *Workbook) Sheet(name string) *Sheet {
	s, ok := w.sheets[name]
	if !ok {
		s = newSheet(name)
		w.sheets[name] = s
	}
	return s
}

// Lookup returns the sheet with the given name if it exists.
func (w *Workbook) Lookup(name string) (*Sheet, bool) {
	s, ok := w.sheets[name]
	return s, ok
}

// Names returns the sheet names in alphabetical order.
func (w *Workbook) Names() []string {
	names := make([]string, 0, len(w.sheets))
	for name := range w.sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CellAt resolves a "Sheet:B2" reference into its cell, creating sheet and
// cell as needed. It is how the configuration surface (token, log, extra
// equities) is addressed.
func (w *Workbook) CellAt(ref string) (*Cell, error) {
	sheet, col, row, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if sheet == "" {
		return nil, fmt.Errorf("reference %q has no sheet name", ref)
	}
	return w.Sheet(sheet).Cell(col, row), nil
}

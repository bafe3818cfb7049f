package reconcile

import (
	"time"

	"github.com/izlotnik/questrade-reconcile/workbook"
)

// Field is one column of a table schema: a field name and the kind directing
// its serialization.
type Field struct {
	Name string
	Kind Kind
}

// Table is the write sink for one output table. Constructing it clears all
// prior content and formatting of the target sheet; the header row is
// written together with the first record so an empty table stays fully
// blank, like the original document.
type Table struct {
	fields []Field
	sheet  *workbook.Sheet
	log    *RunLog
	today  time.Time
	rows   int
}

// NewTable creates the sink over the given sheet, clearing it.
func NewTable(sheet *workbook.Sheet, fields []Field, log *RunLog) *Table {
	sheet.Clear()
	return &Table{
		fields: fields,
		sheet:  sheet,
		log:    log,
		today:  time.Now(),
	}
}

// Name returns the table (sheet) name.
func (t *Table) Name() string { return t.sheet.Name() }

// Rows returns the number of records appended so far.
func (t *Table) Rows() int { return t.rows }

// AddRow appends one record. Only fields present in the record produce a
// cell write; a field serialization failure is logged with its full context
// and never aborts the row. The row counter increments unconditionally so
// records and row positions stay in 1:1 correspondence.
func (t *Table) AddRow(record Record) {
	for column, field := range t.fields {
		if t.rows == 0 {
			header := t.sheet.Cell(column, 0)
			header.SetText(field.Name)
			header.SetBackground(HeaderBackground)
		}
		value, present := record[field.Name]
		if !present {
			continue
		}
		cell := t.sheet.Cell(column, t.rows+1)
		if err := field.Kind.write(cell, value, t.today); err != nil {
			t.log.Printf("%s: n=%s t=%s r=%d c=%d v=%v: %v",
				t.Name(), field.Name, field.Kind, t.rows, column, value, err)
		}
	}
	t.rows++
}

// Sort performs a stable multi-key sort of the data rows (the header stays
// in place) on the given zero-based column indices.
func (t *Table) Sort(columns []int, ascending bool) {
	t.sheet.SortRows(1, columns, ascending)
}

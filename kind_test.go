package reconcile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/izlotnik/questrade-reconcile/workbook"
	"github.com/shopspring/decimal"
)

// A fixed "today" far from any test date, so no highlight triggers by accident.
var testToday = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Text, "s"},
		{Date, "d"},
		{Bool, "b"},
		{Num, "n"},
		{NumP(0), "n0"},
		{NumP(2), "n2"},
		{NumP(6), "n6"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("kind code = %q, want %q", got, tt.want)
		}
	}
}

func TestNumPRange(t *testing.T) {
	for _, p := range []int{-1, 7} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NumP(%d) did not panic", p)
				}
			}()
			NumP(p)
		}()
	}
}

func TestWriteText(t *testing.T) {
	var c workbook.Cell
	if err := Text.write(&c, "TFSA", testToday); err != nil {
		t.Fatal(err)
	}
	if c.Text() != "TFSA" || c.Format() != "@" {
		t.Fatalf("cell = %q %q", c.Text(), c.Format())
	}

	// Nil writes an empty text cell whatever the kind.
	for _, k := range []Kind{Text, Date, Bool, NumP(2)} {
		var c workbook.Cell
		if err := k.write(&c, nil, testToday); err != nil {
			t.Fatal(err)
		}
		if _, isNum := c.Number(); isNum || c.Text() != "" || c.Format() != "@" {
			t.Fatalf("nil as %s: cell = %q %q", k, c.Text(), c.Format())
		}
	}
}

func TestWriteBool(t *testing.T) {
	tests := []struct {
		value any
		want  int64
	}{
		{true, 1},
		{false, 0},
		// tradeUnit arrives as a plain number
		{json.Number("100"), 100},
	}
	for _, tt := range tests {
		var c workbook.Cell
		if err := Bool.write(&c, tt.value, testToday); err != nil {
			t.Fatal(err)
		}
		n, ok := c.Number()
		if !ok || !n.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("bool %v: cell = %v, want %d", tt.value, n, tt.want)
		}
		if c.Format() != "BOOLEAN" {
			t.Errorf("bool %v: format = %q", tt.value, c.Format())
		}
	}
}

func TestWriteNumber(t *testing.T) {
	tests := []struct {
		kind   Kind
		value  any
		want   string
		format string
	}{
		{Num, json.Number("8049"), "8049", "General"},
		{NumP(0), json.Number("1234567"), "1234567", "#,##0;[RED]-#,##0"},
		{NumP(2), json.Number("1234.5"), "1234.5", "#,##0.00;[RED]-#,##0.00"},
		{NumP(2), json.Number("-98.76"), "-98.76", "#,##0.00;[RED]-#,##0.00"},
		{NumP(4), "0.0525", "0.0525", "#,##0.0000;[RED]-#,##0.0000"},
		{NumP(6), json.Number("0.177"), "0.177", "#,##0.000000;[RED]-#,##0.000000"},
	}
	for _, tt := range tests {
		var c workbook.Cell
		if err := tt.kind.write(&c, tt.value, testToday); err != nil {
			t.Fatal(err)
		}
		want, _ := decimal.NewFromString(tt.want)
		n, ok := c.Number()
		if !ok || !n.Equal(want) {
			t.Errorf("%s %v: number = %v, want %s", tt.kind, tt.value, n, tt.want)
		}
		if c.Format() != tt.format {
			t.Errorf("%s %v: format = %q, want %q", tt.kind, tt.value, c.Format(), tt.format)
		}
	}
}

func TestWriteNumberBadValue(t *testing.T) {
	var c workbook.Cell
	if err := NumP(2).write(&c, "not a number", testToday); err == nil {
		t.Fatal("expected an error")
	}
}

func TestWriteDate(t *testing.T) {
	// Both timestamps fall on the same civil date, so they must serialize to
	// the same date serial whatever the time of day says.
	const want = 43648 // 2019-07-02
	for _, value := range []string{
		"2019-07-02T00:00:00.000000-04:00",
		"2019-07-02T12:00:00.000000-04:00",
		"2019-07-02",
	} {
		var c workbook.Cell
		if err := Date.write(&c, value, testToday); err != nil {
			t.Fatal(err)
		}
		n, ok := c.Number()
		if !ok || !n.Equal(decimal.NewFromInt(want)) {
			t.Errorf("date %q: serial = %v, want %d", value, n, want)
		}
		if c.Format() != "MMM D, YYYY" {
			t.Errorf("date %q: format = %q", value, c.Format())
		}
		if c.Background() != 0 {
			t.Errorf("date %q: unexpected highlight", value)
		}
	}
}

func TestWriteDateEpoch(t *testing.T) {
	var c workbook.Cell
	if err := Date.write(&c, "1899-12-31", testToday); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.Number(); !n.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("serial of the day after the epoch = %v, want 1", n)
	}
}

func TestWriteDateCurrentMonthHighlight(t *testing.T) {
	var c workbook.Cell
	if err := Date.write(&c, "2026-09-15T00:00:00.000000-04:00", testToday); err != nil {
		t.Fatal(err)
	}
	if c.Background() != CurrentMonthHighlight {
		t.Fatalf("background = #%06x, want #%06x", uint32(c.Background()), uint32(CurrentMonthHighlight))
	}

	// Same month in another year stays plain.
	var c2 workbook.Cell
	if err := Date.write(&c2, "2025-09-15", testToday); err != nil {
		t.Fatal(err)
	}
	if c2.Background() != 0 {
		t.Fatal("highlighted a date from another year")
	}
}

func TestWriteDateNonString(t *testing.T) {
	// A non-string date value degrades to text rather than failing the cell.
	var c workbook.Cell
	if err := Date.write(&c, json.Number("43648"), testToday); err != nil {
		t.Fatal(err)
	}
	if c.Text() != "43648" || c.Format() != "@" {
		t.Fatalf("cell = %q %q", c.Text(), c.Format())
	}
}

func TestWriteDateInvalid(t *testing.T) {
	for _, value := range []string{"", "2019", "yyyy-mm-ddT00:00:00"} {
		var c workbook.Cell
		if err := Date.write(&c, value, testToday); err == nil {
			t.Errorf("date %q: expected an error", value)
		}
	}
}

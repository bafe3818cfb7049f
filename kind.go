package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/izlotnik/questrade-reconcile/workbook"
	"github.com/shopspring/decimal"
)

// Cell background colors, the same RGB values as the original document.
const (
	// HeaderBackground is the light blue/grey background of header cells.
	HeaderBackground workbook.Color = 0xb4c7dc
	// CurrentMonthHighlight is the light green marking on dates that fall in
	// the current calendar month.
	CurrentMonthHighlight workbook.Color = 0xccffcc
)

// Number format codes written into cells. The renderer interprets them for
// display; any spreadsheet application importing the workbook understands
// them natively.
const (
	formatText    = "@"
	formatDate    = "MMM D, YYYY"
	formatBoolean = "BOOLEAN"
	formatGeneral = "General"
)

// serialEpoch is the day-zero of the spreadsheet date-serial representation.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

type kindTag int

const (
	kindText kindTag = iota
	kindDate
	kindBool
	kindNumber
)

// Kind is the closed set of value kinds a table field can declare: text,
// date, boolean, or number with an optional display precision. It directs
// how a raw record value is serialized into a cell.
type Kind struct {
	tag       kindTag
	precision int // decimal places for numbers; -1 means the General format
}

var (
	// Text writes the raw string with plain-text format.
	Text = Kind{tag: kindText}
	// Date parses an ISO-8601-like string into a date serial.
	Date = Kind{tag: kindDate}
	// Bool writes 0 or 1 with the BOOLEAN display format.
	Bool = Kind{tag: kindBool}
	// Num writes a number with the General display format.
	Num = Kind{tag: kindNumber, precision: -1}
)

// NumP returns the number kind displayed with grouped digits and the given
// decimal precision (0 to 6), negatives marked in red.
func NumP(precision int) Kind {
	if precision < 0 || precision > 6 {
		panic(fmt.Sprintf("number precision %d out of range", precision))
	}
	return Kind{tag: kindNumber, precision: precision}
}

// String returns the short code of the kind, used in failure log lines:
// "s", "d", "b", "n", and "n0" to "n6".
func (k Kind) String() string {
	switch k.tag {
	case kindText:
		return "s"
	case kindDate:
		return "d"
	case kindBool:
		return "b"
	}
	if k.precision < 0 {
		return "n"
	}
	return "n" + strconv.Itoa(k.precision)
}

// write serializes value into the cell according to the kind. A nil value is
// uniformly written as empty text. today decides the current-month highlight
// for dates.
func (k Kind) write(c *workbook.Cell, value any, today time.Time) error {
	if value == nil {
		writeText(c, "")
		return nil
	}
	switch k.tag {
	case kindText:
		writeText(c, str(value))
		return nil
	case kindBool:
		// The API reports most flags as booleans but a few (tradeUnit) as
		// plain numbers; both coerce to a numeric value.
		var n decimal.Decimal
		if b, ok := value.(bool); ok {
			if b {
				n = decimal.NewFromInt(1)
			}
		} else {
			var err error
			if n, err = toDecimal(value); err != nil {
				return err
			}
		}
		c.SetNumber(n)
		c.SetFormat(formatBoolean)
		return nil
	case kindNumber:
		n, err := toDecimal(value)
		if err != nil {
			return err
		}
		c.SetNumber(n)
		c.SetFormat(k.numberFormat())
		return nil
	case kindDate:
		s, ok := value.(string)
		if !ok {
			// Already a native value: fall back to plain-text coercion.
			writeText(c, str(value))
			return nil
		}
		serial, y, m, err := serialDate(s)
		if err != nil {
			return err
		}
		c.SetNumber(serial)
		c.SetFormat(formatDate)
		if y == today.Year() && m == today.Month() {
			c.SetBackground(CurrentMonthHighlight)
		}
		return nil
	}
	return fmt.Errorf("unknown kind %q", k)
}

func writeText(c *workbook.Cell, s string) {
	c.SetText(s)
	c.SetFormat(formatText)
}

// numberFormat returns the display format code for a number kind, e.g.
// "#,##0.00;[RED]-#,##0.00" for precision 2.
func (k Kind) numberFormat() string {
	if k.precision < 0 {
		return formatGeneral
	}
	digits := "#,##0"
	if k.precision > 0 {
		digits += "." + strings.Repeat("0", k.precision)
	}
	return digits + ";[RED]-" + digits
}

// serialDate converts an ISO-8601-like string such as
// "2019-07-02T00:00:00.000000-04:00" into its date-serial value: whole days
// since the 1899-12-30 epoch. Only the first 10 characters are read, so the
// time of day never shifts the serial. It also returns the year and month
// for the current-month check.
func serialDate(value string) (decimal.Decimal, int, time.Month, error) {
	if len(value) < 10 {
		return decimal.Decimal{}, 0, 0, fmt.Errorf("date %q too short", value)
	}
	year, err := strconv.Atoi(value[0:4])
	if err != nil {
		return decimal.Decimal{}, 0, 0, fmt.Errorf("invalid date %q: %w", value, err)
	}
	month, err := strconv.Atoi(value[5:7])
	if err != nil {
		return decimal.Decimal{}, 0, 0, fmt.Errorf("invalid date %q: %w", value, err)
	}
	day, err := strconv.Atoi(value[8:10])
	if err != nil {
		return decimal.Decimal{}, 0, 0, fmt.Errorf("invalid date %q: %w", value, err)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	days := int64(d.Sub(serialEpoch) / (24 * time.Hour))
	return decimal.NewFromInt(days), d.Year(), d.Month(), nil
}

// toDecimal coerces the numeric value kinds JSON decoding can produce.
func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case decimal.Decimal:
		return n, nil
	}
	return decimal.Decimal{}, fmt.Errorf("not a number: %v (%T)", v, v)
}

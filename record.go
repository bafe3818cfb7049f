// Package reconcile implements the Questrade reconcile pipeline: a sequence
// of dependent remote lookups (accounts, balances, positions, equities,
// activities, dividend history) normalized into flat records and materialized
// into the tables of a workbook document.
package reconcile

import "fmt"

// Record is one flat entity record: field name to raw value. Values come
// straight from JSON decoding (string, bool, json.Number, nil) or from the
// tags a fetcher adds. A missing key means the field is absent from this
// record; a nil value means the field is present but empty.
type Record map[string]any

// str renders a record value for use as a lookup key or URL fragment.
// json.Number prints as its literal digits.
func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Str returns the record field rendered as a string, empty when absent.
func (r Record) Str(field string) string { return str(r[field]) }

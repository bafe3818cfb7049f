package workbook

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRef parses a cell reference in "Sheet:B2" or "B2" notation into its
// sheet name (possibly empty) and zero-based column and row.
func ParseRef(ref string) (sheet string, col, row int, err error) {
	addr := ref
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		sheet, addr = ref[:i], ref[i+1:]
	}

	letters := 0
	for letters < len(addr) && addr[letters] >= 'A' && addr[letters] <= 'Z' {
		letters++
	}
	if letters == 0 || letters == len(addr) {
		return "", 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}

	for _, r := range addr[:letters] {
		col = col*26 + int(r-'A') + 1
	}
	col-- // back to zero-based

	n, err := strconv.Atoi(addr[letters:])
	if err != nil || n < 1 {
		return "", 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return sheet, col, n - 1, nil
}

// FormatRef renders a zero-based (col, row) as an A1-style address.
func FormatRef(col, row int) string {
	var b strings.Builder
	name := columnName(col)
	b.WriteString(name)
	b.WriteString(strconv.Itoa(row + 1))
	return b.String()
}

// columnName returns the spreadsheet column letters for a zero-based index:
// 0 -> "A", 25 -> "Z", 26 -> "AA".
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

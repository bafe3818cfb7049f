// Package dividendhistory scrapes the public per-symbol payout pages of
// dividendhistory.org. The page markup is matched with two fixed structural
// patterns; no other page format is supported.
package dividendhistory

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	reconcile "github.com/izlotnik/questrade-reconcile"
)

var frequencyPattern = regexp.MustCompile(`<p>Frequency:\s*([^<]*)</p>`)

// One payout table row: declaration date, payout date, optional $amount with
// an optional "**" note marker, and an ignored trailing cell. Dates may be
// wrapped in <i> for scheduled payments.
var rowPattern = regexp.MustCompile(`(?s)<tr>\s*` +
	`<td>\s*(?:<i>)?\s*(\d{4}-\d{2}-\d{2})\s*(?:</i>)?\s*</td>\s*` +
	`<td>\s*(?:<i>)?\s*(\d{4}-\d{2}-\d{2})\s*(?:</i>)?\s*</td>\s*` +
	`<td>\s*(?:<i>)?\s*\$(\d+\.\d+)?(\*\*)?\s*(?:</i>)?\s*</td>\s*` +
	`<td>.*?</td>\s*` +
	`</tr>`)

// Source fetches payout pages over HTTP. The zero value is ready to use
// against the live site.
type Source struct {
	// BaseURL overrides the live site, for tests.
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Fetch retrieves and parses the payout page for one TSX lookup symbol.
func (s Source) Fetch(symbol string) (reconcile.DividendPage, error) {
	base := s.BaseURL
	if base == "" {
		base = "https://dividendhistory.org"
	}
	addr := fmt.Sprintf("%s/payout/tsx/%s/", strings.TrimSuffix(base, "/"), symbol)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(addr)
	if err != nil {
		return reconcile.DividendPage{}, fmt.Errorf("cannot fetch %q: %w", addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return reconcile.DividendPage{}, fmt.Errorf("cannot fetch %q: %v", addr, resp.Status)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return reconcile.DividendPage{}, fmt.Errorf("cannot read %q: %w", addr, err)
	}
	return Parse(buf.String()), nil
}

// Parse extracts the payment frequency and the payout rows from page markup.
// A page without a frequency paragraph or without payout rows is not an
// error: the corresponding parts are simply absent.
func Parse(html string) reconcile.DividendPage {
	var page reconcile.DividendPage

	if m := frequencyPattern.FindStringSubmatch(html); m != nil {
		page.Frequency = m[1]
		page.HasFrequency = true
	}

	for _, m := range rowPattern.FindAllStringSubmatch(html, -1) {
		page.Rows = append(page.Rows, reconcile.DividendRow{
			Declared: m[1],
			Payout:   m[2],
			Amount:   m[3],
			Note:     m[4] != "",
		})
	}
	return page
}

package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/izlotnik/questrade-reconcile/questrade"
)

// Each fetcher wraps one remote lookup and normalizes its payload into flat
// records. Fetchers return the error instead of handling it: the
// orchestrator logs a failed fetch and carries on with zero records, so a
// single failing lookup never aborts the batch.

// Accounts fetches every brokerage account under the session.
type Accounts struct {
	Session *questrade.Session
}

func (f Accounts) Fetch() ([]Record, error) {
	payload, err := f.Session.Accounts()
	if err != nil {
		return nil, err
	}
	return records(payload, "accounts")
}

// Balances fetches the balances of one account: the 2 balance kinds
// (combined, per-currency) by 2 currencies (CAD, USD) grid, each tagged with
// its kind and owning account.
type Balances struct {
	Session *questrade.Session
}

// The fixed grid of balance sub-objects within the payload.
var (
	balanceKinds      = []string{"combinedBalances", "perCurrencyBalances"}
	balanceCurrencies = []int{0, 1} // CAD, USD
)

func (f Balances) Fetch(account, accountType string) ([]Record, error) {
	payload, err := f.Session.Balances(account)
	if err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(balanceKinds)*len(balanceCurrencies))
	for _, kind := range balanceKinds {
		for _, currency := range balanceCurrencies {
			path := fmt.Sprintf("$.%s[%d]", kind, currency)
			jval, err := jsonpath.Get(path, any(payload))
			if err != nil {
				return nil, fmt.Errorf("balances payload of account %s has no %s: %w", account, path, err)
			}
			obj, ok := jval.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("balances payload of account %s: %s is not an object", account, path)
			}
			rec := Record(obj)
			rec["balanceType"] = kind
			rec["account"] = account
			rec["accountType"] = accountType
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// Positions fetches the open and closed positions of one account, tagged
// with the owning account.
type Positions struct {
	Session *questrade.Session
}

func (f Positions) Fetch(account, accountType string) ([]Record, error) {
	payload, err := f.Session.Positions(account)
	if err != nil {
		return nil, err
	}
	recs, err := records(payload, "positions")
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		rec["account"] = account
		rec["accountType"] = accountType
	}
	return recs, nil
}

// Activities fetches one account's transactions within a fixed trailing
// 30-day window.
type Activities struct {
	Session    *questrade.Session
	start, end string
}

// NewActivities computes the window once, at construction: today minus 30
// days through today, both at midnight in the fixed Toronto offset. A run
// crossing midnight keeps the window it started with.
func NewActivities(s *questrade.Session) Activities {
	const midnight = "T00:00:00-04:00"
	today := time.Now()
	return Activities{
		Session: s,
		start:   today.AddDate(0, 0, -30).Format("2006-01-02") + midnight,
		end:     today.Format("2006-01-02") + midnight,
	}
}

func (f Activities) Fetch(account, accountType string) ([]Record, error) {
	payload, err := f.Session.Activities(account, f.start, f.end)
	if err != nil {
		return nil, err
	}
	recs, err := records(payload, "activities")
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		rec["account"] = account
		rec["accountType"] = accountType
	}
	return recs, nil
}

// Equities resolves symbol reference data, either in bulk by names or one at
// a time by symbol identifier.
type Equities struct {
	Session *questrade.Session
}

// Fetch resolves a comma-separated list of symbol names. The records carry
// no account tag.
func (f Equities) Fetch(names string) ([]Record, error) {
	payload, err := f.Session.Symbols(names)
	if err != nil {
		return nil, err
	}
	return records(payload, "symbols")
}

// FetchOne resolves a single symbol identifier and tags the record with its
// owning account.
func (f Equities) FetchOne(account, accountType string, symbolID any) (Record, error) {
	payload, err := f.Session.Symbol(str(symbolID))
	if err != nil {
		return nil, err
	}
	recs, err := records(payload, "symbols")
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("symbol %v not found", symbolID)
	}
	rec := recs[0]
	rec["account"] = account
	rec["accountType"] = accountType
	return rec, nil
}

// records extracts the list under key from a payload into flat records.
func records(payload map[string]any, key string) ([]Record, error) {
	jval, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("payload has no %q list", key)
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("payload %q is not a list", key)
	}
	recs := make([]Record, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("payload %q holds a non-object entry", key)
		}
		recs = append(recs, Record(obj))
	}
	return recs, nil
}

// DividendRow is one payment event extracted from a dividend-history page.
type DividendRow struct {
	Declared string // declaration date, YYYY-MM-DD
	Payout   string // payout date, YYYY-MM-DD
	Amount   string // empty when the page omits the amount
	Note     bool   // the trailing "**" marker
}

// DividendPage is the parsed content of one dividend-history page.
type DividendPage struct {
	Frequency    string
	HasFrequency bool
	Rows         []DividendRow
}

// DividendSource fetches and parses the public dividend-history page of one
// lookup symbol. It is a narrow interface so the scraping strategy can be
// swapped without touching the orchestrator.
type DividendSource interface {
	Fetch(symbol string) (DividendPage, error)
}

// Dividends derives dividend payment records for a resolved equity. Only
// TSX-listed equities have a history page; the lookup symbol is the equity
// symbol with any ".TO" suffix stripped.
type Dividends struct {
	Source DividendSource
}

func (f Dividends) Fetch(equity Record) ([]Record, error) {
	if equity.Str("listingExchange") != "TSX" {
		return nil, nil
	}
	symbol := strings.ReplaceAll(equity.Str("symbol"), ".TO", "")

	page, err := f.Source.Fetch(symbol)
	if err != nil {
		return nil, err
	}

	// The page keys are always present; a missed capture stays nil and is
	// rendered as a blank cell.
	var frequency any
	if page.HasFrequency {
		frequency = page.Frequency
	}

	recs := make([]Record, 0, len(page.Rows))
	for _, row := range page.Rows {
		rec := Record{
			"account":     equity["account"],
			"accountType": equity["accountType"],
			"symbol":      equity["symbol"],
			"symbolId":    equity["symbolId"],
			"currency":    equity["currency"],
			"frequency":   frequency,
			"dividend":    row.Declared,
			"payout":      row.Payout,
		}
		rec["amount"] = nil
		if row.Amount != "" {
			rec["amount"] = row.Amount
		}
		rec["note"] = nil
		if row.Note {
			rec["note"] = "**"
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

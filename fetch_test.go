package reconcile

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/izlotnik/questrade-reconcile/questrade"
)

// newFakeAPI starts a fake Questrade API serving the given JSON body per
// "/v1/..." path, and returns a session bound to it.
func newFakeAPI(t *testing.T, payloads map[string]string) *questrade.Session {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-access-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return &questrade.Session{
		AccessToken: "test-access-token",
		APIServer:   server.URL,
	}
}

const balancesPayload = `{
	"combinedBalances": [
		{"currency": "CAD", "cash": 100.50, "totalEquity": 5000},
		{"currency": "USD", "cash": 20, "totalEquity": 800}
	],
	"perCurrencyBalances": [
		{"currency": "CAD", "cash": 90.50, "totalEquity": 4000},
		{"currency": "USD", "cash": 30, "totalEquity": 1800}
	]
}`

func TestAccountsFetch(t *testing.T) {
	s := newFakeAPI(t, map[string]string{
		"/v1/accounts": `{"accounts": [
			{"number": "123456", "type": "TFSA", "isPrimary": true},
			{"number": "654321", "type": "Margin", "isPrimary": false}
		]}`,
	})

	recs, err := Accounts{s}.Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Str("number") != "123456" || recs[1].Str("type") != "Margin" {
		t.Fatalf("records = %v", recs)
	}
}

func TestBalancesFetchGrid(t *testing.T) {
	s := newFakeAPI(t, map[string]string{
		"/v1/accounts/123456/balances": balancesPayload,
	})

	recs, err := Balances{s}.Fetch("123456", "TFSA")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("got %d records, want the 2x2 grid", len(recs))
	}

	// Order is combined CAD, combined USD, per-currency CAD, per-currency USD.
	wantKinds := []string{"combinedBalances", "combinedBalances", "perCurrencyBalances", "perCurrencyBalances"}
	wantCurrencies := []string{"CAD", "USD", "CAD", "USD"}
	for i, rec := range recs {
		if rec.Str("balanceType") != wantKinds[i] || rec.Str("currency") != wantCurrencies[i] {
			t.Errorf("record %d: %s/%s, want %s/%s", i,
				rec.Str("balanceType"), rec.Str("currency"), wantKinds[i], wantCurrencies[i])
		}
		if rec.Str("account") != "123456" || rec.Str("accountType") != "TFSA" {
			t.Errorf("record %d not tagged: %v", i, rec)
		}
	}
	if recs[2].Str("cash") != "90.50" && recs[2].Str("cash") != "90.5" {
		t.Errorf("per-currency CAD cash = %q", recs[2].Str("cash"))
	}
}

func TestBalancesFetchMissingGridEntry(t *testing.T) {
	s := newFakeAPI(t, map[string]string{
		"/v1/accounts/123456/balances": `{"combinedBalances": [{"currency": "CAD"}]}`,
	})
	if _, err := (Balances{s}).Fetch("123456", "TFSA"); err == nil {
		t.Fatal("expected an error on a truncated balances payload")
	}
}

func TestPositionsFetchTagsAccount(t *testing.T) {
	s := newFakeAPI(t, map[string]string{
		"/v1/accounts/123456/positions": `{"positions": [
			{"symbol": "XIU.TO", "symbolId": 8049, "openQuantity": 100}
		]}`,
	})

	recs, err := Positions{s}.Fetch("123456", "TFSA")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Str("account") != "123456" || recs[0].Str("accountType") != "TFSA" {
		t.Fatalf("record not tagged: %v", recs[0])
	}
}

func TestEquitiesFetchOne(t *testing.T) {
	s := newFakeAPI(t, map[string]string{
		"/v1/symbols/8049": `{"symbols": [
			{"symbol": "XIU.TO", "symbolId": 8049, "currency": "CAD", "listingExchange": "TSX"}
		]}`,
	})

	rec, err := Equities{s}.FetchOne("123456", "TFSA", "8049")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Str("symbol") != "XIU.TO" || rec.Str("account") != "123456" || rec.Str("accountType") != "TFSA" {
		t.Fatalf("record = %v", rec)
	}
}

func TestEquitiesFetchOneEmpty(t *testing.T) {
	s := newFakeAPI(t, map[string]string{
		"/v1/symbols/9999": `{"symbols": []}`,
	})
	if _, err := (Equities{s}).FetchOne("123456", "TFSA", "9999"); err == nil {
		t.Fatal("expected an error on an empty symbol lookup")
	}
}

func TestFetchErrorPropagates(t *testing.T) {
	s := newFakeAPI(t, nil) // every path is a 404
	if _, err := (Accounts{s}).Fetch(); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := (Balances{s}).Fetch("1", "t"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := (Positions{s}).Fetch("1", "t"); err == nil {
		t.Fatal("expected an error")
	}
}

// recordingSource is a DividendSource that records the requested symbol.
type recordingSource struct {
	symbol string
	page   DividendPage
	err    error
}

func (s *recordingSource) Fetch(symbol string) (DividendPage, error) {
	s.symbol = symbol
	return s.page, s.err
}

func TestDividendsFetchSkipsNonTSX(t *testing.T) {
	source := &recordingSource{}
	recs, err := Dividends{source}.Fetch(Record{
		"symbol": "AAPL", "listingExchange": "NASDAQ",
	})
	if err != nil || len(recs) != 0 {
		t.Fatalf("got %v, %v; want no records and no error", recs, err)
	}
	if source.symbol != "" {
		t.Fatal("the source was consulted for a non-TSX equity")
	}
}

func TestDividendsFetchStripsSuffix(t *testing.T) {
	source := &recordingSource{page: DividendPage{
		Frequency:    "Quarterly",
		HasFrequency: true,
		Rows: []DividendRow{
			{Declared: "2026-05-20", Payout: "2026-06-05", Amount: "0.177"},
			{Declared: "2026-08-19", Payout: "2026-09-04", Note: true},
		},
	}}

	equity := Record{
		"symbol": "XIU.TO", "listingExchange": "TSX", "symbolId": "8049",
		"account": "123456", "accountType": "TFSA", "currency": "CAD",
	}
	recs, err := Dividends{source}.Fetch(equity)
	if err != nil {
		t.Fatal(err)
	}
	if source.symbol != "XIU" {
		t.Fatalf("looked up %q, want the symbol without its .TO suffix", source.symbol)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	first := recs[0]
	if first.Str("symbol") != "XIU.TO" || first.Str("account") != "123456" || first.Str("frequency") != "Quarterly" {
		t.Fatalf("record = %v", first)
	}
	if first.Str("amount") != "0.177" || first["note"] != nil {
		t.Fatalf("record = %v", first)
	}

	second := recs[1]
	if second["amount"] != nil {
		t.Fatalf("missing amount should stay nil, got %v", second["amount"])
	}
	if second.Str("note") != "**" {
		t.Fatalf("note marker = %v", second["note"])
	}
}

func TestDividendsFetchNoFrequency(t *testing.T) {
	source := &recordingSource{page: DividendPage{
		Rows: []DividendRow{{Declared: "2026-05-20", Payout: "2026-06-05"}},
	}}
	recs, err := Dividends{source}.Fetch(Record{
		"symbol": "ENB", "listingExchange": "TSX",
	})
	if err != nil {
		t.Fatal(err)
	}
	if recs[0]["frequency"] != nil {
		t.Fatalf("frequency = %v, want nil", recs[0]["frequency"])
	}
}

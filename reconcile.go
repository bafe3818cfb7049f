package reconcile

import (
	"strings"

	"github.com/izlotnik/questrade-reconcile/questrade"
	"github.com/izlotnik/questrade-reconcile/workbook"
)

// Reconciler drives one full refresh of the output tables: a single
// synchronous, dependency-ordered pass with no retries. Every failure below
// the fatal-auth boundary downgrades to a run-log message and the next
// independent unit of work proceeds.
type Reconciler struct {
	Session   *questrade.Session
	Dividends DividendSource
	Workbook  *workbook.Workbook
	Log       *RunLog
}

// Run rebuilds the six tables from live account state and applies each
// table's default sort. Constructing the tables clears them first, so a run
// that fetches nothing leaves every table empty rather than stale.
func (r *Reconciler) Run() {
	accountsTable := newAccountsTable(r.Workbook, r.Log)
	balancesTable := newBalancesTable(r.Workbook, r.Log)
	activitiesTable := newActivitiesTable(r.Workbook, r.Log)
	positionsTable := newPositionsTable(r.Workbook, r.Log)
	equitiesTable := newEquitiesTable(r.Workbook, r.Log)
	dividendsTable := newDividendsTable(r.Workbook, r.Log)

	accounts := Accounts{r.Session}
	balances := Balances{r.Session}
	activities := NewActivities(r.Session)
	positions := Positions{r.Session}
	equities := Equities{r.Session}
	dividends := Dividends{r.Dividends}

	accountRecords, err := accounts.Fetch()
	if err != nil {
		r.Log.Printf("Accounts fetch failed: %v", err)
	}
	for _, account := range accountRecords {
		accountsTable.AddRow(account)
		number, accountType := account.Str("number"), account.Str("type")

		recs, err := balances.Fetch(number, accountType)
		if err != nil {
			r.Log.Printf("Balances fetch(%s, %s) failed: %v", number, accountType, err)
		}
		for _, rec := range recs {
			balancesTable.AddRow(rec)
		}

		recs, err = activities.Fetch(number, accountType)
		if err != nil {
			r.Log.Printf("Activities fetch(%s, %s) failed: %v", number, accountType, err)
		}
		for _, rec := range recs {
			activitiesTable.AddRow(rec)
		}

		positionRecords, err := positions.Fetch(number, accountType)
		if err != nil {
			r.Log.Printf("Positions fetch(%s, %s) failed: %v", number, accountType, err)
		}
		for _, position := range positionRecords {
			// Resolve the owning equity first: the position's currency is
			// back-filled from it, and the dividend history depends on it.
			// The position is appended either way.
			equity, err := equities.FetchOne(number, accountType, position["symbolId"])
			if err != nil {
				r.Log.Printf("Equities fetch(%s, %s, %v) failed: %v", number, accountType, position["symbolId"], err)
			} else {
				position["currency"] = equity["currency"]
				equitiesTable.AddRow(equity)

				divRecords, err := dividends.Fetch(equity)
				if err != nil {
					r.Log.Printf("Dividends fetch(%s) failed: %v", equity.Str("symbol"), err)
				}
				for _, rec := range divRecords {
					dividendsTable.AddRow(rec)
				}
			}
			positionsTable.AddRow(position)
		}
	}

	// Extra user-configured equities, untagged and not deduplicated against
	// the ones positions already resolved.
	if extra := r.extraEquities(); strings.TrimSpace(extra) != "" {
		recs, err := equities.Fetch(extra)
		if err != nil {
			r.Log.Printf("Equities fetch(%s) failed: %v", extra, err)
		}
		for _, rec := range recs {
			equitiesTable.AddRow(rec)
		}
	}

	activitiesTable.Sort(activitiesSortKeys, true)
	balancesTable.Sort(balancesSortKeys, true)
	positionsTable.Sort(positionsSortKeys, true)
	equitiesTable.Sort(equitiesSortKeys, true)
	dividendsTable.Sort(dividendsSortKeys, false)
}

// extraEquities reads the comma-separated extra symbol list from its
// configuration cell.
func (r *Reconciler) extraEquities() string {
	cell, err := r.Workbook.CellAt(ConfigEquities)
	if err != nil {
		return ""
	}
	return cell.Text()
}

package reconcile

import "github.com/izlotnik/questrade-reconcile/workbook"

// The six output tables, one sheet each. Field order is column order.
const (
	AccountsTable   = "Accounts"
	PositionsTable  = "Positions"
	BalancesTable   = "Balances"
	EquitiesTable   = "Equities"
	ActivitiesTable = "Activities"
	DividendsTable  = "Dividends"
)

// TableNames lists every table a run rebuilds.
var TableNames = []string{
	AccountsTable, PositionsTable, BalancesTable,
	EquitiesTable, ActivitiesTable, DividendsTable,
}

func newAccountsTable(wb *workbook.Workbook, log *RunLog) *Table {
	return NewTable(wb.Sheet(AccountsTable), []Field{
		{"number", Num},
		{"type", Text},
		{"clientAccountType", Text},
		{"status", Text},
		{"isPrimary", Bool},
		{"isBilling", Bool},
	}, log)
}

func newBalancesTable(wb *workbook.Workbook, log *RunLog) *Table {
	return NewTable(wb.Sheet(BalancesTable), []Field{
		{"balanceType", Text},
		{"account", Num},
		{"accountType", Text},
		{"currency", Text},
		{"cash", NumP(2)},
		{"marketValue", NumP(2)},
		{"totalEquity", NumP(2)},
		{"buyingPower", NumP(2)},
		{"maintenanceExcess", NumP(2)},
		{"isRealTime", Bool},
	}, log)
}

// balancesSortKeys groups rows by balance kind, then account, then currency.
var balancesSortKeys = []int{0, 1, 3}

func newPositionsTable(wb *workbook.Workbook, log *RunLog) *Table {
	return NewTable(wb.Sheet(PositionsTable), []Field{
		{"account", Num},
		{"accountType", Text},
		{"currency", Text},
		{"symbol", Text},
		{"symbolId", Num},
		{"openQuantity", NumP(3)},
		{"currentPrice", NumP(2)},
		{"currentMarketValue", NumP(2)},
		{"averageEntryPrice", NumP(3)},
		{"totalCost", NumP(2)},
		{"openPnl", NumP(2)},
		{"dayPnl", NumP(2)},
		{"closedQuantity", NumP(3)},
		{"closedPnl", NumP(2)},
		{"isUnderReorg", Bool},
		{"isRealTime", Bool},
	}, log)
}

var positionsSortKeys = []int{0, 2, 3}

func newEquitiesTable(wb *workbook.Workbook, log *RunLog) *Table {
	return NewTable(wb.Sheet(EquitiesTable), []Field{
		{"account", Num},
		{"accountType", Text},
		{"currency", Text},
		{"symbol", Text},
		{"symbolId", Num},
		{"description", Text},
		{"listingExchange", Text},
		{"securityType", Text},
		{"prevDayClosePrice", NumP(2)},
		{"yield", NumP(4)},
		{"pe", NumP(4)},
		{"eps", NumP(4)},
		{"outstandingShares", NumP(0)},
		{"marketCap", NumP(0)},
		{"averageVol20Days", NumP(0)},
		{"averageVol3Months", NumP(0)},
		{"dividend", NumP(4)},
		{"dividendDate", Date},
		{"exDate", Date},
		{"lowPrice52", NumP(2)},
		{"highPrice52", NumP(2)},
		{"tradeUnit", Bool},
	}, log)
}

var equitiesSortKeys = []int{0, 2, 3}

func newActivitiesTable(wb *workbook.Workbook, log *RunLog) *Table {
	return NewTable(wb.Sheet(ActivitiesTable), []Field{
		{"account", Num},
		{"accountType", Text},
		{"currency", Text},
		{"transactionDate", Date},
		{"symbol", Text},
		{"symbolId", Num},
		{"type", Text},
		{"action", Text},
		{"quantity", NumP(3)},
		{"price", NumP(4)},
		{"grossAmount", NumP(2)},
		{"commission", NumP(2)},
		{"netAmount", NumP(2)},
		{"tradeDate", Date},
		{"settlementDate", Date},
		{"description", Text},
	}, log)
}

var activitiesSortKeys = []int{0, 2, 3, 4}

func newDividendsTable(wb *workbook.Workbook, log *RunLog) *Table {
	return NewTable(wb.Sheet(DividendsTable), []Field{
		{"account", Num},
		{"accountType", Text},
		{"symbol", Text},
		{"symbolId", Num},
		{"currency", Text},
		{"frequency", Text},
		{"dividend", Date},
		{"payout", Date},
		{"amount", NumP(6)},
		{"note", Text},
	}, log)
}

// dividendsSortKeys orders by declaration then payout date; the sort is
// descending so the most recent payment comes first.
var dividendsSortKeys = []int{6, 7}

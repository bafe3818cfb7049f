package reconcile

import (
	"fmt"
	"log"
	"time"

	"github.com/izlotnik/questrade-reconcile/workbook"
)

// Addresses of the configuration surface on the Summary sheet. The Summary
// sheet is never cleared by a run.
const (
	// ConfigToken holds the Questrade API refresh token.
	ConfigToken = "Summary:B2"
	// ConfigLog is the free-text status cell the run log accumulates into.
	ConfigLog = "Summary:P40"
	// ConfigEquities holds a comma-separated list of extra symbols to add to
	// the Equities table beyond those referenced by positions.
	ConfigEquities = "Summary:P47"
)

const stampFormat = "2006.01.02-15:04:05"

// RunLog is the cumulative, timestamped, user-facing log of one run, bound
// to the status cell of the workbook. Every message is also teed to the
// standard logger for operator diagnostics. The log is the sole audit trail
// of a run.
type RunLog struct {
	cell *workbook.Cell
}

// NewRunLog binds a run log to its status cell.
func NewRunLog(cell *workbook.Cell) *RunLog {
	return &RunLog{cell: cell}
}

// Reset discards any previous content and starts the log with message.
func (l *RunLog) Reset(message string) {
	l.cell.SetText(time.Now().Format(stampFormat) + " : " + message)
	l.cell.SetFormat("@")
}

// Printf appends one timestamped line to the log.
func (l *RunLog) Printf(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Print(message)
	l.cell.SetText(l.cell.Text() + "\n" + time.Now().Format(stampFormat) + " : " + message)
}

// String returns the accumulated log, as shown to the user at the end of a
// run.
func (l *RunLog) String() string { return l.cell.Text() }

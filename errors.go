package cell

import "github.com/AnatoleLucet/cell/internal"

// ErrorKind mirrors spec §7's error taxonomy. Errors that are absorbed
// into a cell's Errored state are surfaced through ReadError;
// WriteRejected instead panics at the call site (SetComputed on a cell
// with a setter). No constructor in this package raises
// TypeErrorAtConstruction: every constructor takes a value of T.
type ErrorKind = internal.ErrorKind

const (
	ComputationThrew         = internal.ComputationThrew
	ComputationReturnedError = internal.ComputationReturnedError
	PromiseRejected          = internal.PromiseRejected
	CircularDependency       = internal.CircularDependency
	WriteRejected            = internal.WriteRejected
	SetterThrew              = internal.SetterThrew
	ListenerThrew            = internal.ListenerThrew
	TypeErrorAtConstruction  = internal.TypeErrorAtConstruction
)

// CellError wraps an underlying cause with the §7 category that produced
// it. It implements Unwrap so callers can errors.Is/errors.As against the
// wrapped cause, e.g. a cell.ReadError() that surfaced a
// ComputationThrew can still be matched against the original panic value
// if that value was an error.
type CellError = internal.CellError

// SetSink replaces the package-level diagnostic sink a ListenerThrew
// error is reported to (spec §6 Diagnostics, §4.4/§7). The default sink
// logs via the standard log package and keeps flushing.
func SetSink(fn func(CellError)) {
	internal.SetSink(fn)
}

package run

import "github.com/sage-lang/sage/pkg/diag"

// OutcomeKind is the terminal state of a run.
type OutcomeKind uint8

// Possible values of OutcomeKind.
const (
	Finished OutcomeKind = iota
	Errored
	Cancelled
)

// String returns the label of the kind, also used for metrics.
func (k OutcomeKind) String() string {
	switch k {
	case Finished:
		return "finished"
	case Errored:
		return "error"
	default:
		return "cancelled"
	}
}

// Outcome is the terminal result of a run: exactly one per run. Value is
// meaningful only for Finished outcomes; Diags holds every diagnostic the
// run recorded, warnings included.
type Outcome struct {
	Kind  OutcomeKind
	Value any
	Diags []*diag.Diag
}

package eval

import "github.com/sage-lang/sage/pkg/diag"

// Abort is the error type that unwinds a run to the scheduler. It carries
// the diagnostic that aborted the run; the diagnostic has already been
// appended to the run's list when an Abort is created.
type Abort struct {
	Diag *diag.Diag
}

// Error implements the error interface.
func (a *Abort) Error() string { return a.Diag.Error() }

// returnError unwinds a function body to its application site. It never
// escapes a run: the gate rejects return statements outside functions.
type returnError struct {
	value any
}

func (returnError) Error() string { return "return outside function body" }

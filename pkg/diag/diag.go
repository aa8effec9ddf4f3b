// Package diag defines the closed taxonomy of diagnostics produced by the
// syntax gate and the evaluator, and renders them as human-facing text.
package diag

import (
	"fmt"
	"strings"
)

// Kind enumerates the kinds of diagnostics. The set is closed; explanation
// and elaboration are derived from the kind by total functions.
type Kind uint8

// Possible values of Kind. The first four arise while gating syntax, the
// rest at runtime.
const (
	SyntaxFatal Kind = iota
	MissingTerminator
	DanglingSeparator
	DisallowedConstruct
	ConstReassignment
	InfiniteRecursion
	Timeout
	Cancelled
	RuntimeFault
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case SyntaxFatal:
		return "syntax-fatal"
	case MissingTerminator:
		return "missing-terminator"
	case DanglingSeparator:
		return "dangling-separator"
	case DisallowedConstruct:
		return "disallowed-construct"
	case ConstReassignment:
		return "const-reassignment"
	case InfiniteRecursion:
		return "infinite-recursion"
	case Timeout:
		return "timeout"
	case Cancelled:
		return "cancelled"
	case RuntimeFault:
		return "runtime-fault"
	default:
		return fmt.Sprintf("bad kind %d", uint8(k))
	}
}

// Severity of a diagnostic. Warnings never block execution; a single Error
// forces the run outcome to be an error.
type Severity uint8

// Possible values of Severity.
const (
	Error Severity = iota
	Warning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Severity returns the severity of diagnostics of this kind. Only
// DanglingSeparator is a warning.
func (k Kind) Severity() Severity {
	if k == DanglingSeparator {
		return Warning
	}
	return Error
}

// Diag is a single diagnostic. It is immutable once created; the fields
// beyond Kind and Context carry kind-specific payload and are only consulted
// by the kinds that define them.
type Diag struct {
	Kind    Kind
	Context Context

	// Construct is the humanized name of the construct a DisallowedConstruct
	// diagnostic is about.
	Construct string
	// Name is the name of the immutable binding a ConstReassignment
	// diagnostic is about.
	Name string
	// Calls is the recent-call trace of an InfiniteRecursion diagnostic.
	Calls []string
	// Message carries collaborator-supplied detail for SyntaxFatal and
	// RuntimeFault diagnostics.
	Message string
	// Hint optionally overrides the kind's stock elaboration.
	Hint string
}

// New creates a diagnostic of the given kind pointing at the range r within
// the named source code.
func New(k Kind, name, source string, r Ranger) *Diag {
	return &Diag{Kind: k, Context: NewContext(name, source, r)}
}

// Severity returns the severity of the diagnostic.
func (d *Diag) Severity() Severity { return d.Kind.Severity() }

// Range returns the source range of the diagnostic.
func (d *Diag) Range() Ranging { return d.Context.Range() }

// Error implements the error interface, making a *Diag usable as an error
// value directly.
func (d *Diag) Error() string {
	return fmt.Sprintf("%s, %s: %s", d.Kind, d.Context.describe(), d.Explain())
}

// Explain returns a short, self-contained explanation of the diagnostic.
// It is total over the kind.
func (d *Diag) Explain() string {
	switch d.Kind {
	case SyntaxFatal:
		return d.Message
	case MissingTerminator:
		return "Missing semicolon at the end of this statement."
	case DanglingSeparator:
		return "Trailing comma."
	case DisallowedConstruct:
		return title(d.Construct) + " are not allowed."
	case ConstReassignment:
		return fmt.Sprintf("Cannot assign new value to constant %s.", d.Name)
	case InfiniteRecursion:
		return fmt.Sprintf("Potential infinite recursion detected: %s.",
			strings.Join(d.Calls, " ... "))
	case Timeout:
		if d.Message != "" {
			return d.Message
		}
		return "Execution exceeded its time budget."
	case Cancelled:
		return "Execution was cancelled by the host."
	case RuntimeFault:
		return d.Message
	default:
		return fmt.Sprintf("bad diagnostic kind %d", uint8(d.Kind))
	}
}

// Elaborate returns a longer explanation suitable for learners. It is total
// over the kind; a non-empty Hint takes precedence over the stock text.
func (d *Diag) Elaborate() string {
	if d.Hint != "" {
		return d.Hint
	}
	switch d.Kind {
	case SyntaxFatal:
		return "The program could not be parsed at all. Fix the reported syntax error and try again."
	case MissingTerminator:
		return "Every statement must be terminated with a semicolon; the parser inserted one for you, but the program is not accepted without it."
	case DanglingSeparator:
		return "A trailing comma before the closing bracket has no effect and can be removed."
	case DisallowedConstruct:
		return title(d.Construct) + " are introduced in a later chapter of the course."
	case ConstReassignment:
		return "A name declared with const refers to the same value for its entire lifetime. Declare it with let if you need to reassign it."
	case InfiniteRecursion:
		return "The function kept calling itself without making progress towards a base case, so execution was aborted."
	case Timeout:
		return "The program did not finish within the configured step or time budget."
	case Cancelled:
		return "The host asked for this run to stop; nothing is wrong with the program itself."
	case RuntimeFault:
		return "A runtime operation was applied to a value it does not support."
	default:
		return ""
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

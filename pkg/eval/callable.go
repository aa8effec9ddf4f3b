package eval

import (
	"github.com/sage-lang/sage/pkg/diag"
)

// Callable is implemented by all applicable values: closures and
// host-supplied functions.
type Callable interface {
	// Call applies the callable to args. r is the source range of the
	// application, used for diagnostics.
	Call(ev *Evaler, args []any, r diag.Ranging) (any, error)
}

// GoFn wraps a Go function as a callable value. Host bindings and the
// builtin primitives are GoFns. A GoFn is value-comparable by identity, and
// identity is preserved when a GoFn round-trips through evaluated code.
type GoFn struct {
	name string
	impl func(ev *Evaler, args []any) (any, error)
}

// NewGoFn creates a new GoFn.
func NewGoFn(name string, impl func(ev *Evaler, args []any) (any, error)) *GoFn {
	return &GoFn{name, impl}
}

// Kind returns "function".
func (*GoFn) Kind() string { return "function" }

// Equal compares by identity.
func (f *GoFn) Equal(rhs any) bool { return f == rhs }

// Repr renders the GoFn by its name.
func (f *GoFn) Repr() string { return "<builtin " + f.name + ">" }

// Call applies the function. A non-nil error from the implementation is
// reported as a runtime fault at the application site.
func (f *GoFn) Call(ev *Evaler, args []any, r diag.Ranging) (any, error) {
	v, err := f.impl(ev, args)
	if err != nil {
		if _, ok := err.(*Abort); ok {
			return nil, err
		}
		return nil, ev.faultf(r, "%s: %s", f.name, err.Error())
	}
	return v, nil
}

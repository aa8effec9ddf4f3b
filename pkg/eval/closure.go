package eval

import (
	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval/vals"
	"github.com/sage-lang/sage/pkg/parse"
)

// Closure is a function defined in evaluated code. Each Closure has its
// unique identity, which is preserved across round trips through host
// primitives.
type Closure struct {
	// Name is the declared name, or, for anonymous closures first bound by a
	// declaration or assignment, the inferred one. Used in diagnostics.
	Name   string
	Params []string
	// Body is a *parse.Block, or an expression node for expression-bodied
	// arrows.
	Body parse.Node
	// Captured is the defining environment.
	Captured *Ns
	// def is the declared signature text with the body elided.
	def      string
	exprBody bool
}

// Kind returns "function".
func (*Closure) Kind() string { return "function" }

// Equal compares by identity.
func (c *Closure) Equal(rhs any) bool { return c == rhs }

// Repr renders the closure as its declared signature.
func (c *Closure) Repr() string { return c.def }

// Call applies the closure: a fresh frame is chained to the captured
// environment, parameters are bound as mutable bindings, and the body runs
// until an explicit return or, for an expression-bodied arrow, the
// expression's value.
func (c *Closure) Call(ev *Evaler, args []any, r diag.Ranging) (any, error) {
	if err := ev.pushCall(c, args, r); err != nil {
		return nil, err
	}
	defer ev.popCall()

	if len(args) != len(c.Params) {
		return nil, ev.faultf(r, "Expected %d arguments, but got %d.",
			len(c.Params), len(args))
	}
	frame := NewNs(c.Captured)
	for i, p := range c.Params {
		frame.slots[p] = &slot{val: args[i], mutable: true}
	}
	if c.exprBody {
		return ev.evalExpr(c.Body, frame)
	}
	err := ev.execBlock(c.Body.(*parse.Block), frame)
	if err != nil {
		if ret, ok := err.(returnError); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return vals.Undefined, nil
}

package eval

import (
	"errors"
	"fmt"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval/vals"
)

// makeBuiltinNs builds the frame of builtin primitives shared by every
// program. Only the primitives essential to the core contracts live here;
// the general library surface is layered on by hosts through host bindings.
func makeBuiltinNs() *Ns {
	ns := NewNs(nil)
	for _, b := range builtins {
		ns.define(b.name, b, false)
	}
	return ns
}

var builtins = []*GoFn{
	NewGoFn("list", func(_ *Evaler, args []any) (any, error) {
		return vals.List(args...), nil
	}),
	NewGoFn("pair", func(_ *Evaler, args []any) (any, error) {
		if err := wantArgs("pair", args, 2); err != nil {
			return nil, err
		}
		return vals.Cons(args[0], args[1]), nil
	}),
	NewGoFn("head", func(_ *Evaler, args []any) (any, error) {
		p, err := wantPair("head", args)
		if err != nil {
			return nil, err
		}
		return p.Head, nil
	}),
	NewGoFn("tail", func(_ *Evaler, args []any) (any, error) {
		p, err := wantPair("tail", args)
		if err != nil {
			return nil, err
		}
		return p.Tail, nil
	}),
	NewGoFn("is_null", func(_ *Evaler, args []any) (any, error) {
		if err := wantArgs("is_null", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(vals.NullType)
		return ok, nil
	}),
	NewGoFn("is_pair", func(_ *Evaler, args []any) (any, error) {
		if err := wantArgs("is_pair", args, 1); err != nil {
			return nil, err
		}
		_, ok := args[0].(*vals.Pair)
		return ok, nil
	}),
	NewGoFn("equal", func(_ *Evaler, args []any) (any, error) {
		if err := wantArgs("equal", args, 2); err != nil {
			return nil, err
		}
		return vals.Equal(args[0], args[1]), nil
	}),
	// identity returns its argument unchanged. It exists to prove that
	// values, closures included, retain identity and behavior when exported
	// to and re-imported from outside the evaluator's control.
	NewGoFn("identity", func(_ *Evaler, args []any) (any, error) {
		if err := wantArgs("identity", args, 1); err != nil {
			return nil, err
		}
		return args[0], nil
	}),
	// apply_in_host unpacks a list into positional arguments and applies a
	// function to them, returning its result as a value.
	NewGoFn("apply_in_host", func(ev *Evaler, args []any) (any, error) {
		if err := wantArgs("apply_in_host", args, 2); err != nil {
			return nil, err
		}
		fn, ok := args[0].(Callable)
		if !ok {
			return nil, fmt.Errorf("expected a function, got %s", vals.Kind(args[0]))
		}
		elems, ok := vals.UnpackList(args[1])
		if !ok {
			return nil, fmt.Errorf("expected a list of arguments, got %s", vals.Kind(args[1]))
		}
		return fn.Call(ev, elems, diag.Ranging{From: -1, To: -1})
	}),
}

func wantArgs(name string, args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func wantPair(name string, args []any) (*vals.Pair, error) {
	if err := wantArgs(name, args, 1); err != nil {
		return nil, err
	}
	p, ok := args[0].(*vals.Pair)
	if !ok {
		return nil, errors.New("expected a pair, got " + vals.Kind(args[0]))
	}
	return p, nil
}

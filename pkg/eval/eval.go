// Package eval executes validated syntax trees of the taught language.
//
// The evaluator trusts only trees that passed the gate package. It enforces
// runtime semantics on its own: binding mutability is checked here even when
// the chapter admits assignment syntax, because the gate controls syntax
// availability while the evaluator controls binding mutability.
package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval/vals"
	"github.com/sage-lang/sage/pkg/logutil"
	"github.com/sage-lang/sage/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// Stepper is consulted at every suspension point: after the evaluator
// reaches each statement and before each application. A non-nil error
// aborts the run with that error; the scheduler uses this for preemption,
// cancellation, and budget enforcement.
type Stepper interface {
	Step(r diag.Ranging) error
}

type noopStepper struct{}

func (noopStepper) Step(diag.Ranging) error { return nil }

// HostFn is an externally-registered function exposed to evaluated programs.
type HostFn func(args ...any) (any, error)

// Evaler evaluates one program. It owns the run's environment chain and
// recursion detector and is never shared across concurrent runs.
type Evaler struct {
	src    parse.Source
	diags  *diag.List
	step   Stepper
	det    *detector
	global *Ns
}

// New creates an Evaler for one run. step may be nil, in which case the
// run is never suspended.
func New(src parse.Source, diags *diag.List, step Stepper) *Evaler {
	if step == nil {
		step = noopStepper{}
	}
	return &Evaler{
		src:    src,
		diags:  diags,
		step:   step,
		det:    newDetector(),
		global: NewNs(makeBuiltinNs()),
	}
}

// RegisterHost exposes an external function to evaluated programs under the
// given name, as an immutable binding.
func (ev *Evaler) RegisterHost(name string, fn HostFn) {
	ev.global.define(name, NewGoFn(name, func(_ *Evaler, args []any) (any, error) {
		return fn(args...)
	}), false)
}

// Eval executes the tree. The result is the value of the final top-level
// expression statement, or Undefined if none executed. The returned error,
// if not nil, is an *Abort carrying the diagnostic that ended the run, or
// an error the Stepper injected at a suspension point.
func (ev *Evaler) Eval(tree *parse.Tree) (any, error) {
	ns := NewNs(ev.global)
	if err := ev.hoist(tree.Root.Body, ns); err != nil {
		return nil, err
	}
	last := any(vals.Undefined)
	for _, stmt := range tree.Root.Body {
		v, err := ev.execStatement(stmt, ns)
		if err != nil {
			if _, ok := err.(returnError); ok {
				return nil, ev.faultf(stmt, "Return statements are only allowed inside functions.")
			}
			return nil, err
		}
		if _, ok := stmt.(*parse.ExpressionStatement); ok {
			last = v
		}
	}
	logger.Printf("evaluated %q: %s", ev.src.Name, vals.Kind(last))
	return last, nil
}

// hoist makes function declarations visible to the whole enclosing block
// before any statement of the block runs.
func (ev *Evaler) hoist(body []parse.Node, ns *Ns) error {
	for _, stmt := range body {
		fd, ok := stmt.(*parse.FunctionDeclaration)
		if !ok {
			continue
		}
		c := ev.makeFunction(fd, ns)
		if !ns.define(fd.Name.Name, c, false) {
			return ev.faultf(fd.Name, "Name %s already declared.", fd.Name.Name)
		}
	}
	return nil
}

func (ev *Evaler) execBlock(b *parse.Block, parent *Ns) error {
	ns := NewNs(parent)
	if err := ev.hoist(b.Body, ns); err != nil {
		return err
	}
	for _, stmt := range b.Body {
		if _, err := ev.execStatement(stmt, ns); err != nil {
			return err
		}
	}
	return nil
}

// execStatement executes one statement. Expression statements evaluate to
// their expression's value; every other statement evaluates to Undefined.
func (ev *Evaler) execStatement(stmt parse.Node, ns *Ns) (any, error) {
	if err := ev.step.Step(stmt.Range()); err != nil {
		return nil, err
	}
	switch stmt := stmt.(type) {
	case *parse.ExpressionStatement:
		return ev.evalExpr(stmt.Expr, ns)
	case *parse.Declaration:
		v, err := ev.evalExpr(stmt.Init, ns)
		if err != nil {
			return nil, err
		}
		nameClosure(v, stmt.Name.Name)
		if !ns.define(stmt.Name.Name, v, stmt.Key == parse.Let) {
			return nil, ev.faultf(stmt.Name, "Name %s already declared.", stmt.Name.Name)
		}
		return vals.Undefined, nil
	case *parse.FunctionDeclaration:
		// Already defined by hoisting.
		return vals.Undefined, nil
	case *parse.Block:
		return vals.Undefined, ev.execBlock(stmt, ns)
	case *parse.IfStatement:
		test, err := ev.evalBool(stmt.Test, ns, "condition of an if statement")
		if err != nil {
			return nil, err
		}
		if test {
			return ev.execStatement(stmt.Cons, ns)
		}
		if stmt.Alt != nil {
			return ev.execStatement(stmt.Alt, ns)
		}
		return vals.Undefined, nil
	case *parse.WhileStatement:
		for {
			test, err := ev.evalBool(stmt.Test, ns, "condition of a while loop")
			if err != nil {
				return nil, err
			}
			if !test {
				return vals.Undefined, nil
			}
			if _, err := ev.execStatement(stmt.Body, ns); err != nil {
				return nil, err
			}
			if err := ev.step.Step(stmt.Range()); err != nil {
				return nil, err
			}
		}
	case *parse.ReturnStatement:
		v := any(vals.Undefined)
		if stmt.Value != nil {
			var err error
			v, err = ev.evalExpr(stmt.Value, ns)
			if err != nil {
				return nil, err
			}
		}
		return nil, returnError{v}
	default:
		return nil, ev.faultf(stmt, "Unsupported statement.")
	}
}

func (ev *Evaler) evalExpr(n parse.Node, ns *Ns) (any, error) {
	switch n := n.(type) {
	case *parse.Literal:
		if n.Value == nil {
			return vals.Null, nil
		}
		return n.Value, nil
	case *parse.Ident:
		s, ok := ns.lookup(n.Name)
		if !ok {
			return nil, ev.faultf(n, "Name %s not declared.", n.Name)
		}
		return s.val, nil
	case *parse.UnaryExpr:
		return ev.evalUnary(n, ns)
	case *parse.BinaryExpr:
		return ev.evalBinary(n, ns)
	case *parse.LogicalExpr:
		return ev.evalLogical(n, ns)
	case *parse.ConditionalExpr:
		test, err := ev.evalBool(n.Test, ns, "test of a conditional expression")
		if err != nil {
			return nil, err
		}
		if test {
			return ev.evalExpr(n.Cons, ns)
		}
		return ev.evalExpr(n.Alt, ns)
	case *parse.ArrowFunction:
		return ev.makeArrow(n, ns), nil
	case *parse.CallExpr:
		return ev.evalCall(n, ns)
	case *parse.Assignment:
		return ev.evalAssignment(n, ns)
	case *parse.ArrayLiteral:
		o := vals.NewObj()
		for i, elem := range n.Elems {
			v, err := ev.evalExpr(elem, ns)
			if err != nil {
				return nil, err
			}
			vals.Assoc(o, float64(i), v)
		}
		return o, nil
	case *parse.IndexAccess:
		o, key, err := ev.evalIndex(n, ns)
		if err != nil {
			return nil, err
		}
		return vals.Index(o, key), nil
	case *parse.PropertyAccess:
		obj, err := ev.evalExpr(n.Obj, ns)
		if err != nil {
			return nil, err
		}
		o, ok := obj.(vals.Obj)
		if !ok {
			return nil, ev.faultf(n, "Cannot read property %s of %s.", n.Name, vals.Kind(obj))
		}
		return vals.Index(o, n.Name), nil
	case *parse.ThisExpr:
		return nil, ev.faultf(n, "Keyword this is not supported.")
	default:
		return nil, ev.faultf(n, "Unsupported expression.")
	}
}

func (ev *Evaler) evalUnary(n *parse.UnaryExpr, ns *Ns) (any, error) {
	v, err := ev.evalExpr(n.Operand, ns)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		b, ok := v.(bool)
		if !ok {
			return nil, ev.faultf(n, "Expected boolean operand for !, got %s.", vals.Kind(v))
		}
		return !b, nil
	case "-":
		f, ok := v.(float64)
		if !ok {
			return nil, ev.faultf(n, "Expected number operand for -, got %s.", vals.Kind(v))
		}
		return -f, nil
	default:
		return nil, ev.faultf(n, "Unsupported operator %s.", n.Op)
	}
}

func (ev *Evaler) evalBinary(n *parse.BinaryExpr, ns *Ns) (any, error) {
	left, err := ev.evalExpr(n.Left, ns)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalExpr(n.Right, ns)
	if err != nil {
		return nil, err
	}
	lf, lIsNum := left.(float64)
	rf, rIsNum := right.(float64)
	switch n.Op {
	case "+":
		if lIsNum && rIsNum {
			return lf + rf, nil
		}
		v, err := vals.Concat(left, right)
		if err != nil {
			return nil, ev.faultf(n, "Expected two numbers or at least one string for +, got %s and %s.",
				vals.Kind(left), vals.Kind(right))
		}
		return v, nil
	case "-", "*", "/", "%":
		if !lIsNum || !rIsNum {
			return nil, ev.faultf(n, "Expected two numbers for %s, got %s and %s.",
				n.Op, vals.Kind(left), vals.Kind(right))
		}
		switch n.Op {
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "/":
			return lf / rf, nil
		default:
			return math.Mod(lf, rf), nil
		}
	case "===":
		return vals.Equal(left, right), nil
	case "!==":
		return !vals.Equal(left, right), nil
	case "<", "<=", ">", ">=":
		return ev.compare(n, left, right)
	default:
		return nil, ev.faultf(n, "Unsupported operator %s.", n.Op)
	}
}

func (ev *Evaler) compare(n *parse.BinaryExpr, left, right any) (any, error) {
	if lf, ok := left.(float64); ok {
		if rf, ok := right.(float64); ok {
			return compareOrdered(n.Op, lf, rf), nil
		}
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return compareOrdered(n.Op, ls, rs), nil
		}
	}
	return nil, ev.faultf(n, "Expected two numbers or two strings for %s, got %s and %s.",
		n.Op, vals.Kind(left), vals.Kind(right))
}

func compareOrdered[T float64 | string](op string, a, b T) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

func (ev *Evaler) evalLogical(n *parse.LogicalExpr, ns *Ns) (any, error) {
	left, err := ev.evalBool(n.Left, ns, "left operand of "+n.Op)
	if err != nil {
		return nil, err
	}
	// Short circuit.
	if n.Op == "&&" && !left {
		return false, nil
	}
	if n.Op == "||" && left {
		return true, nil
	}
	return ev.evalBool(n.Right, ns, "right operand of "+n.Op)
}

func (ev *Evaler) evalBool(n parse.Node, ns *Ns, what string) (bool, error) {
	v, err := ev.evalExpr(n, ns)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, ev.faultf(n, "Expected boolean as %s, got %s.", what, vals.Kind(v))
	}
	return b, nil
}

func (ev *Evaler) evalCall(n *parse.CallExpr, ns *Ns) (any, error) {
	callee, err := ev.evalExpr(n.Callee, ns)
	if err != nil {
		return nil, err
	}
	c, ok := callee.(Callable)
	if !ok {
		return nil, ev.faultf(n, "Calling non-function value %s.", vals.Repr(callee))
	}
	args := make([]any, len(n.Args))
	for i, argNode := range n.Args {
		if args[i], err = ev.evalExpr(argNode, ns); err != nil {
			return nil, err
		}
	}
	if err := ev.step.Step(n.Range()); err != nil {
		return nil, err
	}
	return c.Call(ev, args, n.Range())
}

func (ev *Evaler) evalAssignment(n *parse.Assignment, ns *Ns) (any, error) {
	v, err := ev.evalExpr(n.Value, ns)
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case *parse.Ident:
		s, ok := ns.lookup(target.Name)
		if !ok {
			return nil, ev.faultf(target, "Name %s not declared.", target.Name)
		}
		if !s.mutable {
			d := diag.New(diag.ConstReassignment, ev.src.Name, ev.src.Code, n)
			d.Name = target.Name
			return nil, ev.abort(d)
		}
		nameClosure(v, target.Name)
		s.val = v
		return v, nil
	case *parse.IndexAccess:
		o, key, err := ev.evalIndex(target, ns)
		if err != nil {
			return nil, err
		}
		vals.Assoc(o, key, v)
		return v, nil
	case *parse.PropertyAccess:
		obj, err := ev.evalExpr(target.Obj, ns)
		if err != nil {
			return nil, err
		}
		o, ok := obj.(vals.Obj)
		if !ok {
			return nil, ev.faultf(target, "Cannot assign property %s on %s.",
				target.Name, vals.Kind(obj))
		}
		vals.Assoc(o, target.Name, v)
		return v, nil
	default:
		return nil, ev.faultf(n, "Invalid assignment target.")
	}
}

func (ev *Evaler) evalIndex(n *parse.IndexAccess, ns *Ns) (vals.Obj, any, error) {
	obj, err := ev.evalExpr(n.Obj, ns)
	if err != nil {
		return nil, nil, err
	}
	o, ok := obj.(vals.Obj)
	if !ok {
		return nil, nil, ev.faultf(n, "Cannot index %s.", vals.Kind(obj))
	}
	key, err := ev.evalExpr(n.Index, ns)
	if err != nil {
		return nil, nil, err
	}
	return o, key, nil
}

func (ev *Evaler) makeFunction(fd *parse.FunctionDeclaration, ns *Ns) *Closure {
	params := paramNames(fd.Params)
	return &Closure{
		Name:     fd.Name.Name,
		Params:   params,
		Body:     fd.Body,
		Captured: ns,
		def:      "function " + fd.Name.Name + "(" + strings.Join(params, ", ") + ") {...}",
	}
}

func (ev *Evaler) makeArrow(n *parse.ArrowFunction, ns *Ns) *Closure {
	params := paramNames(n.Params)
	_, isBlock := n.Body.(*parse.Block)
	def := "(" + strings.Join(params, ", ") + ") => ..."
	if len(params) == 1 {
		def = params[0] + " => ..."
	}
	return &Closure{
		Params:   params,
		Body:     n.Body,
		Captured: ns,
		def:      def,
		exprBody: !isBlock,
	}
}

func paramNames(idents []*parse.Ident) []string {
	names := make([]string, len(idents))
	for i, ident := range idents {
		names[i] = ident.Name
	}
	return names
}

// nameClosure gives an anonymous closure the name it is first bound to, so
// that diagnostics can talk about it.
func nameClosure(v any, name string) {
	if c, ok := v.(*Closure); ok && c.Name == "" {
		c.Name = name
	}
}

// pushCall records an application with the recursion detector, aborting the
// run when a non-termination pattern fires or the call stack outgrows the
// depth cap.
func (ev *Evaler) pushCall(c Callable, args []any, r diag.Ranging) error {
	if ev.det.depth() >= maxCallDepth {
		return ev.faultf(r, "Maximum call depth exceeded.")
	}
	rendered, num, hasNum := renderCall(c, args)
	rec := &callRecord{callee: c, rendered: rendered, num: num, hasNum: hasNum, r: r}
	if trace := ev.det.push(rec); trace != nil {
		d := diag.New(diag.InfiniteRecursion, ev.src.Name, ev.src.Code, r)
		d.Calls = trace
		return ev.abort(d)
	}
	return nil
}

func (ev *Evaler) popCall() { ev.det.pop() }

// abort appends the diagnostic to the run's list and returns the Abort that
// unwinds to the scheduler. No diagnostic is ever dropped.
func (ev *Evaler) abort(d *diag.Diag) error {
	ev.diags.Add(d)
	return &Abort{d}
}

func (ev *Evaler) faultf(r diag.Ranger, format string, args ...any) error {
	d := diag.New(diag.RuntimeFault, ev.src.Name, ev.src.Code, r)
	d.Message = fmt.Sprintf(format, args...)
	return ev.abort(d)
}

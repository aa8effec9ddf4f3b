package eval

import (
	"errors"
	"strings"
	"testing"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/eval/vals"
	"github.com/sage-lang/sage/pkg/parse"
)

func evalCode(t *testing.T, code string) (any, error) {
	t.Helper()
	src := parse.SourceForTest(code)
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatalf("parse(%q) -> error %v", code, err)
	}
	return New(src, &diag.List{}, nil).Eval(tree)
}

func evalValue(t *testing.T, code string) any {
	t.Helper()
	v, err := evalCode(t, code)
	if err != nil {
		t.Fatalf("eval(%q) -> error %v", code, err)
	}
	return v
}

func TestEvalResults(t *testing.T) {
	tests := []struct {
		code string
		want any
	}{
		{"", vals.Undefined},
		{"42;", 42.0},
		{"true;", true},
		{"'42';", "42"},
		{"null;", vals.Null},
		{"const x = 1;", vals.Undefined},

		// Arithmetic and comparison.
		{"1 + 2 * 3;", 7.0},
		{"7 % 3;", 1.0},
		{"-2 + 1;", -1.0},
		{"!false;", true},
		{"1 < 2;", true},
		{"'a' < 'b';", true},
		{"1 === 1;", true},
		{"1 !== '1';", true},
		{"list(1, 2) === list(1, 2);", true},
		{"true ? 1 : 2;", 1.0},
		{"false && true;", false},
		{"true || false;", true},
		// Short circuit skips the unevaluated operand entirely.
		{"false && missing;", false},
		{"true || missing;", true},

		// Concatenation renders the non-string operand.
		{"'a' + 'b';", "ab"},
		{"'n = ' + 42;", "n = 42"},
		{"\"123\" + list(4, 5, 6);", "123[4, [5, [6, null]]]"},

		// Bindings and scope.
		{"const x = 1; x + 1;", 2.0},
		{"let x = 1; x = x + 2; x;", 3.0},
		{"const x = 1; { const x = 2; x; } x;", 1.0},

		// Arrays and indexing.
		{"const a = [1, 2]; a[0] + a[1];", 3.0},
		// A missing association reads as undefined.
		{"function u() {} const a = [1]; a[5] === u();", true},
		{"const a = [1]; a[0] = 9; a[0];", 9.0},

		// Functions.
		{"function add(a, b) { return a + b; } add(1, 2);", 3.0},
		{"const inc = x => x + 1; inc(41);", 42.0},
		{"function f() { return; } f() === list();", false},
		{"function f() {} equal(f(), head(pair(f(), 0)));", true},
		// Hoisting makes a later declaration callable.
		{"const r = f(); function f() { return 7; } r;", 7.0},
		// The last value comes from expression statements only.
		{"1; const x = 2;", 1.0},

		// Closures capture their defining frame.
		{
			"function counter() { let n = 0; return () => { n = n + 1; return n; }; }" +
				" const c = counter(); c(); c();",
			2.0,
		},

		// Loops.
		{"let i = 0; while (i < 5) { i = i + 1; } i;", 5.0},
		{"let i = 0; let s = 0; while (i < 4) { i = i + 1; s = s + i; } s;", 10.0},

		// Builtins.
		{"head(pair(1, 2));", 1.0},
		{"equal(tail(list(1, 2)), list(2));", true},
		{"is_null(tail(list(1)));", true},
		{"is_pair(list(1));", true},
		{"is_pair(null);", false},
		{"equal(list(1, 2), pair(1, pair(2, null)));", true},
		{"equal(pair(1, 2), list(1, 2));", false},
		{"function add(a, b) { return a + b; } apply_in_host(add, list(1, 2));", 3.0},
	}
	for _, test := range tests {
		got := evalValue(t, test.code)
		if !vals.Equal(got, test.want) {
			t.Errorf("eval(%q) = %s, want %s", test.code, vals.Repr(got), vals.Repr(test.want))
		}
	}
}

func TestDeepTerminatingRecursion(t *testing.T) {
	// Monotonic but bounded recursion stays below the detection threshold.
	got := evalValue(t, "function down(i) { return i === 0 ? 0 : down(i - 1); } down(200);")
	if got != 0.0 {
		t.Errorf("down(200) = %v, want 0", got)
	}
}

func wantAbort(t *testing.T, code string, kind diag.Kind, msgSubstr string) *diag.Diag {
	t.Helper()
	_, err := evalCode(t, code)
	if err == nil {
		t.Fatalf("eval(%q) -> no error", code)
	}
	var abort *Abort
	if !errors.As(err, &abort) {
		t.Fatalf("eval(%q) -> error of type %T, want *Abort", code, err)
	}
	d := abort.Diag
	if d.Kind != kind {
		t.Errorf("eval(%q) -> diagnostic kind %v, want %v", code, d.Kind, kind)
	}
	if msgSubstr != "" && !strings.Contains(d.Explain(), msgSubstr) {
		t.Errorf("eval(%q) -> %q, want message containing %q",
			code, d.Explain(), msgSubstr)
	}
	return d
}

func TestEvalFaults(t *testing.T) {
	tests := []struct {
		code string
		msg  string
	}{
		{"x;", "Name x not declared."},
		{"const x = 1; const x = 2;", "Name x already declared."},
		{"1 + true;", "Expected two numbers or at least one string for +"},
		{"1 - 'a';", "Expected two numbers for -"},
		{"1 < 'a';", "Expected two numbers or two strings for <"},
		{"!1;", "Expected boolean operand for !"},
		{"if (1) { 2; }", "Expected boolean as condition of an if statement"},
		{"while (1) { 2; }", "Expected boolean as condition of a while loop"},
		{"1 && true;", "Expected boolean as left operand of &&"},
		{"5();", "Calling non-function value 5."},
		{"function f(a) { return a; } f();", "Expected 1 arguments, but got 0."},
		{"return 1;", "Return statements are only allowed inside functions."},
		{"this;", "Keyword this is not supported."},
		{"const n = 1; n[0];", "Cannot index number."},
		{"const n = 1; n.length;", "Cannot read property length of number."},
		{"head(1);", "expected a pair, got number"},
		{"pair(1);", "expected 2 arguments, got 1"},
	}
	for _, test := range tests {
		wantAbort(t, test.code, diag.RuntimeFault, test.msg)
	}
}

func TestConstReassignment(t *testing.T) {
	d := wantAbort(t, "const x = 1; x = 2;", diag.ConstReassignment, "")
	if d.Name != "x" {
		t.Errorf("diagnostic Name = %q, want x", d.Name)
	}
	// Parameters and let bindings stay assignable.
	if got := evalValue(t, "function f(a) { a = a + 1; return a; } f(1);"); got != 2.0 {
		t.Errorf("parameter assignment -> %v, want 2", got)
	}
}

func TestAbortAppendsDiagnostic(t *testing.T) {
	src := parse.SourceForTest("missing;")
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	diags := &diag.List{}
	if _, err := New(src, diags, nil).Eval(tree); err == nil {
		t.Fatal("Eval -> no error")
	}
	if !diags.HasError() {
		t.Errorf("aborting run left no diagnostic on the list")
	}
}

func TestClosureIdentity(t *testing.T) {
	tests := []struct {
		code string
		want any
	}{
		// A closure is equal to itself, also after a host round trip.
		{"function f() { return 1; } equal(f, f);", true},
		{"function f() { return 1; } equal(f, identity(f));", true},
		{"function f() { return 1; } f === identity(f);", true},
		// Each evaluation of a function expression mints a new identity.
		{"equal(x => x, x => x);", false},
		{"function make() { return x => x; } equal(make(), make());", false},
		{"const f = x => x; equal(f, f);", true},
	}
	for _, test := range tests {
		if got := evalValue(t, test.code); got != test.want {
			t.Errorf("eval(%q) = %v, want %v", test.code, got, test.want)
		}
	}
}

func TestClosureRepr(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"function g(a, b) { return a; } g;", "function g(a, b) {...}"},
		{"const f = x => x; f;", "x => ..."},
		{"const f = (x, y) => x; f;", "(x, y) => ..."},
	}
	for _, test := range tests {
		v := evalValue(t, test.code)
		if got := vals.Repr(v); got != test.want {
			t.Errorf("eval(%q) renders as %q, want %q", test.code, got, test.want)
		}
	}
}

func TestNameInference(t *testing.T) {
	v := evalValue(t, "const f = x => x; f;")
	c, ok := v.(*Closure)
	if !ok {
		t.Fatalf("got %T, want *Closure", v)
	}
	if c.Name != "f" {
		t.Errorf("inferred name %q, want f", c.Name)
	}
}

func TestRegisterHost(t *testing.T) {
	src := parse.SourceForTest("function f() { return 3; } keep(f); equal(f, keep(f));")
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	ev := New(src, &diag.List{}, nil)
	var kept []any
	ev.RegisterHost("keep", func(args ...any) (any, error) {
		kept = append(kept, args[0])
		return args[0], nil
	})
	v, err := ev.Eval(tree)
	if err != nil {
		t.Fatalf("Eval -> error %v", err)
	}
	if v != true {
		t.Errorf("closure lost identity through host round trip")
	}
	if len(kept) != 2 {
		t.Fatalf("host binding called %d times, want 2", len(kept))
	}
	c, ok := kept[0].(*Closure)
	if !ok || c.Name != "f" {
		t.Errorf("host received %v, want the closure named f", kept[0])
	}
	if kept[0] != kept[1] {
		t.Errorf("host received two different identities for the same closure")
	}
}

func TestHostBindingIsImmutable(t *testing.T) {
	src := parse.SourceForTest("probe = 1;")
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	ev := New(src, &diag.List{}, nil)
	ev.RegisterHost("probe", func(...any) (any, error) { return vals.Undefined, nil })
	_, err = ev.Eval(tree)
	var abort *Abort
	if !errors.As(err, &abort) || abort.Diag.Kind != diag.ConstReassignment {
		t.Errorf("assigning a host binding -> %v, want ConstReassignment", err)
	}
}

func TestHostErrorBecomesFault(t *testing.T) {
	src := parse.SourceForTest("fail();")
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	ev := New(src, &diag.List{}, nil)
	ev.RegisterHost("fail", func(...any) (any, error) {
		return nil, errors.New("host exploded")
	})
	_, err = ev.Eval(tree)
	var abort *Abort
	if !errors.As(err, &abort) {
		t.Fatalf("Eval -> %v, want *Abort", err)
	}
	if abort.Diag.Kind != diag.RuntimeFault ||
		!strings.Contains(abort.Diag.Explain(), "host exploded") {
		t.Errorf("host error surfaced as %v %q", abort.Diag.Kind, abort.Diag.Explain())
	}
}

func TestInfiniteRecursionDetection(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{
			"identical arguments",
			"function g(x) { return g(x); } g(7);",
		},
		{
			"monotonic argument drift",
			"function f(i) { return f(i + 1) - 1; } f(0);",
		},
		{
			"anonymous closure",
			"const f = i => f(i + 1) - 1; f(0);",
		},
		{
			"self-application through a parameter",
			"const apply = (f, x) => f(f, x); apply((g, x) => g(g, x), 0);",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := wantAbort(t, test.code, diag.InfiniteRecursion, "")
			if len(d.Calls) == 0 || len(d.Calls) > 3 {
				t.Errorf("trace has %d calls, want 1 to 3", len(d.Calls))
			}
		})
	}
}

func TestRecursionTraceText(t *testing.T) {
	d := wantAbort(t, "function g(x) { return g(x); } g(7);", diag.InfiniteRecursion, "")
	want := []string{"g(7)", "g(7)", "g(7)"}
	if len(d.Calls) != len(want) {
		t.Fatalf("trace %v, want %v", d.Calls, want)
	}
	for i := range want {
		if d.Calls[i] != want[i] {
			t.Fatalf("trace %v, want %v", d.Calls, want)
		}
	}
	if got := d.Explain(); !strings.Contains(got, "g(7) ... g(7) ... g(7)") {
		t.Errorf("Explain() = %q, want the quoted call chain", got)
	}
}

func TestMonotonicTraceNamesInferredClosure(t *testing.T) {
	d := wantAbort(t, "const f = i => f(i + 1) - 1; f(0);", diag.InfiniteRecursion, "")
	for _, call := range d.Calls {
		if !strings.HasPrefix(call, "f(") {
			t.Errorf("trace call %q does not use the inferred name", call)
		}
	}
}

// errStepper injects an error at the nth suspension point.
type errStepper struct {
	n     int
	seen  int
	fired error
}

func (s *errStepper) Step(diag.Ranging) error {
	s.seen++
	if s.seen == s.n {
		s.fired = errors.New("suspended")
		return s.fired
	}
	return nil
}

func TestStepperSuspensionPoints(t *testing.T) {
	src := parse.SourceForTest("1; 2; 3;")
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	step := &errStepper{n: 2}
	_, err = New(src, &diag.List{}, step).Eval(tree)
	if err == nil || !errors.Is(err, step.fired) {
		t.Errorf("Eval -> %v, want the stepper's error unchanged", err)
	}
	if step.seen != 2 {
		t.Errorf("stepper consulted %d times before aborting, want 2", step.seen)
	}
}

func TestStepperSeesApplications(t *testing.T) {
	src := parse.SourceForTest("function f() { return 1; } f();")
	tree, err := parse.Parse(src, parse.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	step := &errStepper{n: 1 << 30}
	if _, err := New(src, &diag.List{}, step).Eval(tree); err != nil {
		t.Fatal(err)
	}
	// One checkpoint per top-level statement, one before the application,
	// one for the return statement inside the body.
	if step.seen != 4 {
		t.Errorf("stepper consulted %d times, want 4", step.seen)
	}
}

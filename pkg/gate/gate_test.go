package gate

import (
	"testing"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/parse"
)

func mustParse(t *testing.T, code string) *parse.Tree {
	t.Helper()
	tree, err := parse.Parse(parse.SourceForTest(code), parse.Hooks{})
	if err != nil {
		t.Fatalf("parse(%q) -> error %v", code, err)
	}
	return tree
}

func checkCode(t *testing.T, code string, chapter int) (*parse.Tree, *diag.List) {
	t.Helper()
	diags := &diag.List{}
	tree, _ := Check(mustParse(t, code), chapter, diags)
	return tree, diags
}

func TestChapterGating(t *testing.T) {
	tests := []struct {
		code    string
		chapter int
		allowed bool
	}{
		{"const x = 1;", 1, true},
		{"let x = 1;", 1, false},
		{"let x = 1;", 3, true},
		{"while (true) { 1; }", 1, false},
		{"while (true) { 1; }", 3, true},
		{"const a = [1]; a[0];", 2, false},
		{"const a = [1]; a[0];", 3, true},
		{"const o = 1; o.length;", 5, false},
		{"this;", 5, false},
	}
	for _, test := range tests {
		tree, diags := checkCode(t, test.code, test.chapter)
		if test.allowed {
			if tree == nil {
				t.Errorf("Check(%q, %d) rejected: %v",
					test.code, test.chapter, diags.Items())
			}
		} else {
			if tree != nil {
				t.Errorf("Check(%q, %d) passed, want rejection",
					test.code, test.chapter)
				continue
			}
			found := false
			for _, d := range diags.Items() {
				if d.Kind == diag.DisallowedConstruct {
					found = true
				}
			}
			if !found {
				t.Errorf("Check(%q, %d): no DisallowedConstruct diagnostic",
					test.code, test.chapter)
			}
		}
	}
}

func TestDisallowedConstructNamesConstruct(t *testing.T) {
	_, diags := checkCode(t, "let x = 1;", 1)
	if len(diags.Items()) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags.Items()))
	}
	if got, want := diags.Items()[0].Construct, "let declarations"; got != want {
		t.Errorf("Construct = %q, want %q", got, want)
	}
}

func TestStrictEqualityRule(t *testing.T) {
	// The rule holds at every chapter.
	for _, chapter := range []int{1, 4, 100} {
		tree, diags := checkCode(t, "1 == 2;", chapter)
		if tree != nil {
			t.Fatalf("Check(chapter %d) passed '=='", chapter)
		}
		d := diags.Items()[0]
		if got, want := d.Construct, "'==' operators"; got != want {
			t.Errorf("Construct = %q, want %q", got, want)
		}
		if got, want := d.Hint, "Use '===' instead of '=='."; got != want {
			t.Errorf("Hint = %q, want %q", got, want)
		}
	}
	if tree, _ := checkCode(t, "1 !== 2;", 1); tree == nil {
		t.Errorf("Check rejected '!=='")
	}
}

func TestBracesAroundIfElseRule(t *testing.T) {
	tests := []struct {
		code      string
		chapter   int
		wantDiags int
	}{
		{"if (true) 1;", 1, 1},
		{"if (true) 1; else 2;", 1, 2},
		{"if (true) { 1; } else { 2; }", 1, 0},
		{"if (true) { 1; } else if (false) { 2; }", 1, 0},
		// Chapter 4 lifts the restriction.
		{"if (true) 1; else 2;", 4, 0},
	}
	for _, test := range tests {
		_, diags := checkCode(t, test.code, test.chapter)
		if got := len(diags.Items()); got != test.wantDiags {
			t.Errorf("Check(%q, %d) -> %d diagnostics, want %d",
				test.code, test.chapter, got, test.wantDiags)
		}
	}
}

func TestReturnOutsideFunctionRule(t *testing.T) {
	tests := []struct {
		code    string
		allowed bool
	}{
		{"return 1;", false},
		{"{ return 1; }", false},
		{"function f() { return 1; }", true},
		{"const f = x => { return x; };", true},
		{"function f() { if (true) { return 1; } }", true},
	}
	for _, test := range tests {
		tree, _ := checkCode(t, test.code, 1)
		if (tree != nil) != test.allowed {
			t.Errorf("Check(%q) allowed=%v, want %v",
				test.code, tree != nil, test.allowed)
		}
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	tree := mustParse(t, "let x = 1; x == 2;")
	first := &diag.List{}
	Check(tree, 1, first)
	second := &diag.List{}
	Check(tree, 1, second)
	if len(first.Items()) != len(second.Items()) {
		t.Errorf("repeated Check: %d then %d diagnostics",
			len(first.Items()), len(second.Items()))
	}
}

func TestRegistryIdentity(t *testing.T) {
	tree := mustParse(t, "const x = 1; x;")
	_, reg := Check(tree, 1, &diag.List{})
	if reg.Len() == 0 {
		t.Fatalf("registry is empty")
	}
	seen := make(map[int]bool)
	for _, n := range collect(tree.Root) {
		rec, ok := reg.Record(n)
		if !ok {
			t.Fatalf("node %v has no record", n.Kind())
		}
		if seen[rec.ID] {
			t.Errorf("identity %d assigned twice", rec.ID)
		}
		seen[rec.ID] = true
	}
	// Ensure is idempotent: re-presenting a node keeps its identity.
	n := tree.Root.Body[0]
	before := reg.Len()
	rec1 := reg.Ensure(n)
	rec2 := reg.Ensure(n)
	if rec1 != rec2 || reg.Len() != before {
		t.Errorf("Ensure minted a fresh identity for a known node")
	}
}

func TestRegistryTracksUsages(t *testing.T) {
	tree := mustParse(t, "const x = 1; x; x;")
	_, reg := Check(tree, 1, &diag.List{})
	decl := tree.Root.Body[0].(*parse.Declaration)
	rec, ok := reg.Record(parse.Node(decl.Name))
	if !ok {
		t.Fatalf("declared name has no record")
	}
	if !rec.Resolved {
		t.Errorf("declared name not marked resolved")
	}
	if len(rec.Usages) != 2 {
		t.Errorf("got %d usages, want 2", len(rec.Usages))
	}
}

func TestParserHooks(t *testing.T) {
	src := parse.SourceForTest("f(1, 2,)")
	diags := &diag.List{}
	_, err := parse.Parse(src, ParserHooks(src, diags))
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	var kinds []diag.Kind
	for _, d := range diags.Items() {
		kinds = append(kinds, d.Kind)
	}
	if len(kinds) != 2 || kinds[0] != diag.DanglingSeparator ||
		kinds[1] != diag.MissingTerminator {
		t.Errorf("got diagnostics %v, want [DanglingSeparator MissingTerminator]", kinds)
	}
}

func TestReportFatal(t *testing.T) {
	src := parse.SourceForTest("const = 3;")
	_, err := parse.Parse(src, parse.Hooks{})
	if err == nil {
		t.Fatalf("Parse unexpectedly succeeded")
	}
	diags := &diag.List{}
	ReportFatal(src, err, diags)
	d := diags.Items()[0]
	if d.Kind != diag.SyntaxFatal {
		t.Errorf("Kind = %v, want SyntaxFatal", d.Kind)
	}
	if d.Context.From < 0 {
		t.Errorf("parse errors should carry a range, got %d", d.Context.From)
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		kind parse.NodeKind
		want string
	}{
		{parse.KindWhileStatement, "while statements"},
		{parse.KindLetDeclaration, "let declarations"},
		{parse.KindThisExpr, "this keywords"},
		{parse.KindPropertyAccess, "object property accesses"},
		{parse.KindIndexAccess, "computed property accesses"},
	}
	for _, test := range tests {
		if got := humanize(test.kind); got != test.want {
			t.Errorf("humanize(%v) = %q, want %q", test.kind, got, test.want)
		}
	}
}

// collect flattens the tree into a node slice, in traversal order.
func collect(n parse.Node) []parse.Node {
	nodes := []parse.Node{n}
	for _, c := range n.Children() {
		nodes = append(nodes, collect(c)...)
	}
	return nodes
}

// Package gate validates a parsed tree against a chapter-indexed allow-list
// and a catalog of pluggable rules, reporting violations as diagnostics.
//
// The gate is the only component that decides syntax availability; the
// evaluator trusts trees the gate has passed and enforces runtime semantics
// independently.
package gate

import (
	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/logutil"
	"github.com/sage-lang/sage/pkg/parse"
)

var logger = logutil.GetLogger("[gate] ")

// Check validates the tree for the given chapter, appending any diagnostics
// to diags. If no Error-severity diagnostic was recorded, it returns the
// validated tree and the node registry; otherwise it returns a nil tree.
// The registry exists for analyses layered on top of the gate and may be
// discarded freely.
func Check(tree *parse.Tree, chapter int, diags *diag.List) (*parse.Tree, *Registry) {
	reg := NewRegistry()
	w := &walker{
		src:     tree.Source,
		chapter: chapter,
		diags:   diags,
		reg:     reg,
		decls:   make(map[string]*NodeRecord),
	}
	w.walk(tree.Root, nil)
	logger.Printf("gated %q at chapter %d: %d nodes, %d diagnostics",
		tree.Source.Name, chapter, reg.Len(), len(diags.Items()))
	if diags.HasError() {
		return nil, reg
	}
	return tree, reg
}

// ParserHooks returns parser hooks that convert terminator and separator
// notifications into diagnostics on diags.
func ParserHooks(src parse.Source, diags *diag.List) parse.Hooks {
	return parse.Hooks{
		InsertedTerminator: func(r diag.Ranging) {
			diags.Add(diag.New(diag.MissingTerminator, src.Name, src.Code, r))
		},
		TrailingSeparator: func(r diag.Ranging) {
			diags.Add(diag.New(diag.DanglingSeparator, src.Name, src.Code, r))
		},
	}
}

// ReportFatal records a SyntaxFatal diagnostic for a hard parse failure,
// carrying the failure's location when the error provides one.
func ReportFatal(src parse.Source, err error, diags *diag.List) {
	r := diag.Ranging{From: -1, To: -1}
	msg := "The program could not be parsed."
	if pe, ok := err.(*parse.Error); ok {
		r = pe.Ranging
		msg = "Syntax error: " + pe.Msg + "."
	}
	d := diag.New(diag.SyntaxFatal, src.Name, src.Code, r)
	d.Message = msg
	diags.Add(d)
}

type walker struct {
	src     parse.Source
	chapter int
	diags   *diag.List
	reg     *Registry
	// decls maps names to the record of their declaring identifier, for the
	// registry's light scope bookkeeping. Shadowing is not tracked; the
	// registry's only contract is identity assignment.
	decls map[string]*NodeRecord
}

// walk performs the single ancestor-aware traversal: identity assignment,
// chapter check, then rules, for every node.
func (w *walker) walk(n parse.Node, ancestors []parse.Node) {
	rec := w.reg.Ensure(n)
	w.trackScope(n, rec, ancestors)

	if w.chapter < MinChapter(n.Kind()) {
		d := diag.New(diag.DisallowedConstruct, w.src.Name, w.src.Code, n)
		d.Construct = humanize(n.Kind())
		w.diags.Add(d)
	}

	for _, rule := range rulesByKind[n.Kind()] {
		if rule.DisabledFrom > 0 && w.chapter >= rule.DisabledFrom {
			continue
		}
		for _, d := range rule.Check(n, ancestors, w.src) {
			w.diags.Add(d)
		}
	}

	ancestors = append(ancestors, n)
	for _, child := range n.Children() {
		w.walk(child, ancestors)
	}
}

// trackScope connects identifier usages to the record of their declaring
// identifier. This is bookkeeping for future analyses, not a resolver; the
// evaluator does its own lexical lookup.
func (w *walker) trackScope(n parse.Node, rec *NodeRecord, ancestors []parse.Node) {
	switch n := n.(type) {
	case *parse.Declaration:
		declRec := w.reg.Ensure(parse.Node(n.Name))
		declRec.Resolved = true
		w.decls[n.Name.Name] = declRec
	case *parse.FunctionDeclaration:
		declRec := w.reg.Ensure(parse.Node(n.Name))
		declRec.Resolved = true
		w.decls[n.Name.Name] = declRec
	case *parse.Ident:
		if rec.Resolved {
			return
		}
		if declRec, ok := w.decls[n.Name]; ok {
			declRec.Usages = append(declRec.Usages, n)
			rec.Resolved = true
		}
	}
}

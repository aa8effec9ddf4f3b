package gate

import (
	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/parse"
)

// catalog lists the shipped rules. The catalog is fixed at init; runs never
// mutate it.
var catalog = []*Rule{
	strictEquality,
	bracesAroundIfElse,
	returnOutsideFunction,
}

// strictEquality forbids the loose == and != operators at every chapter.
var strictEquality = &Rule{
	Name:  "strict-equality",
	Kinds: []parse.NodeKind{parse.KindBinaryExpr},
	Check: func(n parse.Node, _ []parse.Node, src parse.Source) []*diag.Diag {
		b := n.(*parse.BinaryExpr)
		if b.Op != "==" && b.Op != "!=" {
			return nil
		}
		d := diag.New(diag.DisallowedConstruct, src.Name, src.Code, b)
		d.Construct = "'" + b.Op + "' operators"
		strict := "==="
		if b.Op == "!=" {
			strict = "!=="
		}
		d.Hint = "Use '" + strict + "' instead of '" + b.Op + "'."
		return []*diag.Diag{d}
	},
}

// bracesAroundIfElse requires the branches of an if statement to be blocks.
// Later chapters lift the restriction.
var bracesAroundIfElse = &Rule{
	Name:         "braces-around-if-else",
	Kinds:        []parse.NodeKind{parse.KindIfStatement},
	DisabledFrom: 4,
	Check: func(n parse.Node, _ []parse.Node, src parse.Source) []*diag.Diag {
		stmt := n.(*parse.IfStatement)
		var ds []*diag.Diag
		bare := func(branch parse.Node) bool {
			switch branch.(type) {
			case nil, *parse.Block, *parse.IfStatement:
				return false
			}
			return true
		}
		if bare(stmt.Cons) {
			ds = append(ds, bareBranchDiag(stmt.Cons, src))
		}
		if stmt.Alt != nil && bare(stmt.Alt) {
			ds = append(ds, bareBranchDiag(stmt.Alt, src))
		}
		return ds
	},
}

func bareBranchDiag(branch parse.Node, src parse.Source) *diag.Diag {
	d := diag.New(diag.DisallowedConstruct, src.Name, src.Code, branch)
	d.Construct = "if and else branches without curly braces"
	d.Hint = "Wrap the branch in a block: { ... }."
	return d
}

// returnOutsideFunction rejects return statements with no enclosing function
// or arrow body.
var returnOutsideFunction = &Rule{
	Name:  "return-outside-function",
	Kinds: []parse.NodeKind{parse.KindReturnStatement},
	Check: func(n parse.Node, ancestors []parse.Node, src parse.Source) []*diag.Diag {
		for _, a := range ancestors {
			switch a.Kind() {
			case parse.KindFunctionDeclaration, parse.KindArrowFunction:
				return nil
			}
		}
		d := diag.New(diag.DisallowedConstruct, src.Name, src.Code, n)
		d.Construct = "return statements outside function bodies"
		d.Hint = "A return statement only makes sense inside a function."
		return []*diag.Diag{d}
	},
}

package parse

import (
	"fmt"

	"github.com/sage-lang/sage/pkg/diag"
)

// NodeKind identifies the grammatical kind of a node. The set is closed;
// the syntax gate dispatches on it.
type NodeKind uint8

// Possible values of NodeKind.
const (
	KindProgram NodeKind = iota
	KindLiteral
	KindIdent
	KindUnaryExpr
	KindBinaryExpr
	KindLogicalExpr
	KindConditionalExpr
	KindIfStatement
	KindWhileStatement
	KindBlock
	KindFunctionDeclaration
	KindArrowFunction
	KindReturnStatement
	KindConstDeclaration
	KindLetDeclaration
	KindAssignment
	KindCallExpr
	KindArrayLiteral
	KindIndexAccess
	KindPropertyAccess
	KindThisExpr
	KindExpressionStatement

	// KindCount is the number of node kinds; it is not a kind itself.
	KindCount
)

var kindNames = [...]string{
	KindProgram:             "program",
	KindLiteral:             "literal",
	KindIdent:               "identifier",
	KindUnaryExpr:           "unary-expression",
	KindBinaryExpr:          "binary-expression",
	KindLogicalExpr:         "logical-expression",
	KindConditionalExpr:     "conditional-expression",
	KindIfStatement:         "if-statement",
	KindWhileStatement:      "while-statement",
	KindBlock:               "block",
	KindFunctionDeclaration: "function-declaration",
	KindArrowFunction:       "arrow-function",
	KindReturnStatement:     "return-statement",
	KindConstDeclaration:    "const-declaration",
	KindLetDeclaration:      "let-declaration",
	KindAssignment:          "assignment",
	KindCallExpr:            "call-expression",
	KindArrayLiteral:        "array-literal",
	KindIndexAccess:         "index-access",
	KindPropertyAccess:      "property-access",
	KindThisExpr:            "this-expression",
	KindExpressionStatement: "expression-statement",
}

// String returns a stable kebab-case name for the kind. The syntax gate keys
// its chapter table by these names.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("bad node kind %d", uint8(k))
}

// Node is implemented by all syntax tree nodes.
type Node interface {
	diag.Ranger
	Kind() NodeKind
	// Children returns the child nodes in source order. The returned slice
	// must not be modified.
	Children() []Node
}

// node is embedded by all concrete node types.
type node struct {
	diag.Ranging
}

// Program is the root of a parsed tree.
type Program struct {
	node
	Body []Node
}

// Literal is a number, string, boolean or null literal. Value is float64,
// string, bool, or nil for the null literal.
type Literal struct {
	node
	Value any
}

// Ident is a reference to a name.
type Ident struct {
	node
	Name string
}

// UnaryExpr is the application of a prefix operator.
type UnaryExpr struct {
	node
	Op      string
	Operand Node
}

// BinaryExpr is the application of an arithmetic, comparison or equality
// operator.
type BinaryExpr struct {
	node
	Op          string
	Left, Right Node
}

// LogicalExpr is a short-circuiting && or || expression.
type LogicalExpr struct {
	node
	Op          string
	Left, Right Node
}

// ConditionalExpr is a ternary test ? cons : alt expression.
type ConditionalExpr struct {
	node
	Test, Cons, Alt Node
}

// IfStatement is an if statement with an optional else branch. Alt is nil,
// a Block, or another IfStatement (else-if).
type IfStatement struct {
	node
	Test Node
	Cons Node
	Alt  Node
}

// WhileStatement is a while loop.
type WhileStatement struct {
	node
	Test Node
	Body Node
}

// Block is a braced statement list.
type Block struct {
	node
	Body []Node
}

// FunctionDeclaration declares a named function.
type FunctionDeclaration struct {
	node
	Name   *Ident
	Params []*Ident
	Body   *Block
}

// ArrowFunction is an anonymous arrow function. Body is an expression node
// for expression-bodied arrows, or a *Block.
type ArrowFunction struct {
	node
	Params []*Ident
	Body   Node
}

// ReturnStatement returns from the enclosing function. Value is nil for a
// bare return.
type ReturnStatement struct {
	node
	Value Node
}

// DeclKey distinguishes const from let declarations.
type DeclKey uint8

// Possible values of DeclKey.
const (
	Const DeclKey = iota
	Let
)

// Declaration is a const or let declaration with an initializer.
type Declaration struct {
	node
	Key  DeclKey
	Name *Ident
	Init Node
}

// Assignment assigns to a name or to a computed index.
type Assignment struct {
	node
	Target Node
	Value  Node
}

// CallExpr applies a callee to arguments.
type CallExpr struct {
	node
	Callee Node
	Args   []Node
}

// ArrayLiteral is a bracketed element list.
type ArrayLiteral struct {
	node
	Elems []Node
}

// IndexAccess is a computed member access expr[index].
type IndexAccess struct {
	node
	Obj   Node
	Index Node
}

// PropertyAccess is a dot member access expr.name.
type PropertyAccess struct {
	node
	Obj  Node
	Name string
}

// ThisExpr is the this keyword. It parses but is never enabled by any
// chapter.
type ThisExpr struct {
	node
}

// ExpressionStatement is an expression in statement position.
type ExpressionStatement struct {
	node
	Expr Node
}

// Kind implementations.

func (*Program) Kind() NodeKind             { return KindProgram }
func (*Literal) Kind() NodeKind             { return KindLiteral }
func (*Ident) Kind() NodeKind               { return KindIdent }
func (*UnaryExpr) Kind() NodeKind           { return KindUnaryExpr }
func (*BinaryExpr) Kind() NodeKind          { return KindBinaryExpr }
func (*LogicalExpr) Kind() NodeKind         { return KindLogicalExpr }
func (*ConditionalExpr) Kind() NodeKind     { return KindConditionalExpr }
func (*IfStatement) Kind() NodeKind         { return KindIfStatement }
func (*WhileStatement) Kind() NodeKind      { return KindWhileStatement }
func (*Block) Kind() NodeKind               { return KindBlock }
func (*FunctionDeclaration) Kind() NodeKind { return KindFunctionDeclaration }
func (*ArrowFunction) Kind() NodeKind       { return KindArrowFunction }
func (*ReturnStatement) Kind() NodeKind     { return KindReturnStatement }
func (d *Declaration) Kind() NodeKind {
	if d.Key == Const {
		return KindConstDeclaration
	}
	return KindLetDeclaration
}
func (*Assignment) Kind() NodeKind          { return KindAssignment }
func (*CallExpr) Kind() NodeKind            { return KindCallExpr }
func (*ArrayLiteral) Kind() NodeKind        { return KindArrayLiteral }
func (*IndexAccess) Kind() NodeKind         { return KindIndexAccess }
func (*PropertyAccess) Kind() NodeKind      { return KindPropertyAccess }
func (*ThisExpr) Kind() NodeKind            { return KindThisExpr }
func (*ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }

// Children implementations.

func (n *Program) Children() []Node { return n.Body }
func (n *Literal) Children() []Node { return nil }
func (n *Ident) Children() []Node   { return nil }
func (n *UnaryExpr) Children() []Node {
	return []Node{n.Operand}
}
func (n *BinaryExpr) Children() []Node {
	return []Node{n.Left, n.Right}
}
func (n *LogicalExpr) Children() []Node {
	return []Node{n.Left, n.Right}
}
func (n *ConditionalExpr) Children() []Node {
	return []Node{n.Test, n.Cons, n.Alt}
}
func (n *IfStatement) Children() []Node {
	if n.Alt == nil {
		return []Node{n.Test, n.Cons}
	}
	return []Node{n.Test, n.Cons, n.Alt}
}
func (n *WhileStatement) Children() []Node {
	return []Node{n.Test, n.Body}
}
func (n *Block) Children() []Node { return n.Body }
func (n *FunctionDeclaration) Children() []Node {
	children := make([]Node, 0, len(n.Params)+2)
	children = append(children, n.Name)
	for _, p := range n.Params {
		children = append(children, p)
	}
	return append(children, n.Body)
}
func (n *ArrowFunction) Children() []Node {
	children := make([]Node, 0, len(n.Params)+1)
	for _, p := range n.Params {
		children = append(children, p)
	}
	return append(children, n.Body)
}
func (n *ReturnStatement) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}
func (n *Declaration) Children() []Node {
	return []Node{n.Name, n.Init}
}
func (n *Assignment) Children() []Node {
	return []Node{n.Target, n.Value}
}
func (n *CallExpr) Children() []Node {
	children := make([]Node, 0, len(n.Args)+1)
	children = append(children, n.Callee)
	return append(children, n.Args...)
}
func (n *ArrayLiteral) Children() []Node { return n.Elems }
func (n *IndexAccess) Children() []Node {
	return []Node{n.Obj, n.Index}
}
func (n *PropertyAccess) Children() []Node {
	return []Node{n.Obj}
}
func (n *ThisExpr) Children() []Node             { return nil }
func (n *ExpressionStatement) Children() []Node  { return []Node{n.Expr} }

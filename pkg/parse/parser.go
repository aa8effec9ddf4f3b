package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sage-lang/sage/pkg/diag"
)

// parser is a recursive-descent parser over the token slice. Fatal errors
// abort parsing via panic with a *Error, recovered in parseProgram.
type parser struct {
	src   Source
	toks  []token
	pos   int
	hooks Hooks
}

type bailout struct{ err *Error }

func (p *parser) fatalf(r diag.Ranging, format string, args ...any) {
	panic(bailout{&Error{Msg: fmt.Sprintf(format, args...), Ranging: r}})
}

// eof is returned by cur past the end of the token stream.
func (p *parser) eofToken() token {
	return token{typ: -1, Ranging: diag.PointRanging(len(p.src.Code))}
}

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return p.eofToken()
	}
	return p.toks[p.pos]
}

func (p *parser) peek(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.eofToken()
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.cur()
	p.pos++
	return t
}

// at reports whether the current token is the given operator or keyword.
func (p *parser) at(text string) bool {
	t := p.cur()
	return (t.typ == tokOp || t.typ == tokKeyword) && t.text == text
}

func (p *parser) eat(text string) bool {
	if p.at(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if !p.at(text) {
		t := p.cur()
		p.fatalf(t.Ranging, "expected %q", text)
	}
	return p.next()
}

// prevEnd returns the end offset of the last consumed token.
func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].To
}

func (p *parser) atEOF() bool { return p.pos >= len(p.toks) }

func (p *parser) parseProgram() (root *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(bailout); ok {
				root, err = nil, b.err
				return
			}
			panic(r)
		}
	}()
	root = &Program{}
	root.Ranging = diag.Ranging{From: 0, To: len(p.src.Code)}
	for !p.atEOF() {
		root.Body = append(root.Body, p.parseStatement())
	}
	return root, nil
}

// terminator consumes a statement-terminating semicolon, or reports an
// inferred one through the hook.
func (p *parser) terminator() {
	if p.eat(";") {
		return
	}
	p.hooks.InsertedTerminator(diag.PointRanging(p.prevEnd()))
}

func (p *parser) parseStatement() Node {
	switch {
	case p.at("{"):
		return p.parseBlock()
	case p.at("function"):
		return p.parseFunctionDeclaration()
	case p.at("const"), p.at("let"):
		return p.parseDeclaration()
	case p.at("return"):
		return p.parseReturn()
	case p.at("if"):
		return p.parseIf()
	case p.at("while"):
		return p.parseWhile()
	default:
		start := p.cur().From
		expr := p.parseExpr()
		p.terminator()
		stmt := &ExpressionStatement{Expr: expr}
		stmt.Ranging = diag.Ranging{From: start, To: p.prevEnd()}
		return stmt
	}
}

func (p *parser) parseBlock() *Block {
	start := p.expect("{").From
	block := &Block{}
	for !p.at("}") {
		if p.atEOF() {
			p.fatalf(diag.PointRanging(p.prevEnd()), "unterminated block")
		}
		block.Body = append(block.Body, p.parseStatement())
	}
	p.expect("}")
	block.Ranging = diag.Ranging{From: start, To: p.prevEnd()}
	return block
}

func (p *parser) parseIdent() *Ident {
	t := p.cur()
	if t.typ != tokIdent {
		p.fatalf(t.Ranging, "expected a name")
	}
	p.next()
	return &Ident{node: node{t.Ranging}, Name: t.text}
}

func (p *parser) parseFunctionDeclaration() Node {
	start := p.expect("function").From
	name := p.parseIdent()
	params := p.parseParams()
	body := p.parseBlock()
	fd := &FunctionDeclaration{Name: name, Params: params, Body: body}
	fd.Ranging = diag.Ranging{From: start, To: p.prevEnd()}
	return fd
}

func (p *parser) parseParams() []*Ident {
	p.expect("(")
	var params []*Ident
	for !p.at(")") {
		params = append(params, p.parseIdent())
		if !p.at(")") {
			comma := p.expect(",")
			if p.at(")") {
				p.hooks.TrailingSeparator(comma.Ranging)
			}
		}
	}
	p.expect(")")
	return params
}

func (p *parser) parseDeclaration() Node {
	kw := p.next()
	key := Const
	if kw.text == "let" {
		key = Let
	}
	name := p.parseIdent()
	p.expect("=")
	init := p.parseExpr()
	p.terminator()
	decl := &Declaration{Key: key, Name: name, Init: init}
	decl.Ranging = diag.Ranging{From: kw.From, To: p.prevEnd()}
	return decl
}

func (p *parser) parseReturn() Node {
	kw := p.expect("return")
	ret := &ReturnStatement{}
	if !p.at(";") && !p.at("}") && !p.atEOF() {
		ret.Value = p.parseExpr()
	}
	p.terminator()
	ret.Ranging = diag.Ranging{From: kw.From, To: p.prevEnd()}
	return ret
}

func (p *parser) parseIf() Node {
	kw := p.expect("if")
	p.expect("(")
	test := p.parseExpr()
	p.expect(")")
	cons := p.parseStatement()
	var alt Node
	if p.eat("else") {
		alt = p.parseStatement()
	}
	stmt := &IfStatement{Test: test, Cons: cons, Alt: alt}
	stmt.Ranging = diag.Ranging{From: kw.From, To: p.prevEnd()}
	return stmt
}

func (p *parser) parseWhile() Node {
	kw := p.expect("while")
	p.expect("(")
	test := p.parseExpr()
	p.expect(")")
	body := p.parseStatement()
	stmt := &WhileStatement{Test: test, Body: body}
	stmt.Ranging = diag.Ranging{From: kw.From, To: p.prevEnd()}
	return stmt
}

// Expressions, by descending precedence.

func (p *parser) parseExpr() Node { return p.parseAssignment() }

func (p *parser) parseAssignment() Node {
	target := p.parseConditional()
	if !p.at("=") {
		return target
	}
	switch target.(type) {
	case *Ident, *IndexAccess, *PropertyAccess:
	default:
		p.fatalf(target.Range(), "invalid assignment target")
	}
	p.expect("=")
	value := p.parseAssignment()
	a := &Assignment{Target: target, Value: value}
	a.Ranging = diag.MixedRanging(target, value)
	return a
}

func (p *parser) parseConditional() Node {
	test := p.parseBinary(0)
	if !p.eat("?") {
		return test
	}
	cons := p.parseAssignment()
	p.expect(":")
	alt := p.parseAssignment()
	c := &ConditionalExpr{Test: test, Cons: cons, Alt: alt}
	c.Ranging = diag.MixedRanging(test, alt)
	return c
}

// binaryLevels lists binary operators from loosest to tightest. The first
// two levels are short-circuiting.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"===", "!==", "==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseBinary(level int) Node {
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for {
		op := ""
		for _, candidate := range binaryLevels[level] {
			if p.at(candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			return left
		}
		p.next()
		right := p.parseBinary(level + 1)
		if level < 2 {
			l := &LogicalExpr{Op: op, Left: left, Right: right}
			l.Ranging = diag.MixedRanging(left, right)
			left = l
		} else {
			b := &BinaryExpr{Op: op, Left: left, Right: right}
			b.Ranging = diag.MixedRanging(left, right)
			left = b
		}
	}
}

func (p *parser) parseUnary() Node {
	if p.at("!") || p.at("-") {
		op := p.next()
		operand := p.parseUnary()
		u := &UnaryExpr{Op: op.text, Operand: operand}
		u.Ranging = diag.Ranging{From: op.From, To: operand.Range().To}
		return u
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at("("):
			args := p.parseArgs()
			call := &CallExpr{Callee: expr, Args: args}
			call.Ranging = diag.Ranging{From: expr.Range().From, To: p.prevEnd()}
			expr = call
		case p.at("["):
			p.expect("[")
			index := p.parseExpr()
			p.expect("]")
			ia := &IndexAccess{Obj: expr, Index: index}
			ia.Ranging = diag.Ranging{From: expr.Range().From, To: p.prevEnd()}
			expr = ia
		case p.at("."):
			p.expect(".")
			name := p.parseIdent()
			pa := &PropertyAccess{Obj: expr, Name: name.Name}
			pa.Ranging = diag.Ranging{From: expr.Range().From, To: name.To}
			expr = pa
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() []Node {
	p.expect("(")
	var args []Node
	for !p.at(")") {
		args = append(args, p.parseExpr())
		if !p.at(")") {
			comma := p.expect(",")
			if p.at(")") {
				p.hooks.TrailingSeparator(comma.Ranging)
			}
		}
	}
	p.expect(")")
	return args
}

func (p *parser) parsePrimary() Node {
	t := p.cur()
	switch {
	case t.typ == tokNumber:
		p.next()
		value, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			p.fatalf(t.Ranging, "bad number literal %q", t.text)
		}
		return &Literal{node: node{t.Ranging}, Value: value}
	case t.typ == tokString:
		p.next()
		return &Literal{node: node{t.Ranging}, Value: unquote(t.text)}
	case p.at("true"), p.at("false"):
		p.next()
		return &Literal{node: node{t.Ranging}, Value: t.text == "true"}
	case p.at("null"):
		p.next()
		return &Literal{node: node{t.Ranging}, Value: nil}
	case p.at("this"):
		p.next()
		return &ThisExpr{node: node{t.Ranging}}
	case t.typ == tokIdent:
		if p.peek(1).typ == tokOp && p.peek(1).text == "=>" {
			return p.parseArrow()
		}
		return p.parseIdent()
	case p.at("("):
		if p.arrowAhead() {
			return p.parseArrow()
		}
		p.expect("(")
		expr := p.parseExpr()
		p.expect(")")
		return expr
	case p.at("["):
		return p.parseArrayLiteral()
	default:
		p.fatalf(t.Ranging, "unexpected token")
		panic("unreachable")
	}
}

// arrowAhead reports whether the parenthesis at the current position opens
// an arrow function parameter list.
func (p *parser) arrowAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.typ != tokOp {
			continue
		}
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				after := p.peek(i - p.pos + 1)
				return after.typ == tokOp && after.text == "=>"
			}
		}
	}
	return false
}

func (p *parser) parseArrow() Node {
	start := p.cur().From
	var params []*Ident
	if p.at("(") {
		params = p.parseParams()
	} else {
		params = []*Ident{p.parseIdent()}
	}
	p.expect("=>")
	var body Node
	if p.at("{") {
		body = p.parseBlock()
	} else {
		body = p.parseAssignment()
	}
	arrow := &ArrowFunction{Params: params, Body: body}
	arrow.Ranging = diag.Ranging{From: start, To: p.prevEnd()}
	return arrow
}

func (p *parser) parseArrayLiteral() Node {
	start := p.expect("[").From
	lit := &ArrayLiteral{}
	for !p.at("]") {
		lit.Elems = append(lit.Elems, p.parseExpr())
		if !p.at("]") {
			comma := p.expect(",")
			if p.at("]") {
				p.hooks.TrailingSeparator(comma.Ranging)
			}
		}
	}
	p.expect("]")
	lit.Ranging = diag.Ranging{From: start, To: p.prevEnd()}
	return lit
}

// unquote strips the quotes of a string literal and processes the common
// escape sequences. Unknown escapes keep the escaped character.
func unquote(lit string) string {
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}

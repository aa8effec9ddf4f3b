package parse

import (
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/must"
)

// Token types produced by the lexer.
const (
	tokNumber = iota
	tokString
	tokIdent
	tokKeyword
	tokOp
)

// token is a single lexeme with its source range.
type token struct {
	typ  int
	text string
	diag.Ranging
	line int
}

var keywords = map[string]bool{
	"const": true, "let": true, "function": true, "return": true,
	"if": true, "else": true, "while": true,
	"true": true, "false": true, "null": true, "this": true,
}

// Operators and punctuation, longest first so that the lexer table stays
// readable; lexmachine itself picks the longest match.
var operators = []string{
	"===", "!==", "==", "!=", "<=", ">=", "=>", "&&", "||",
	"+", "-", "*", "/", "%", "!", "<", ">", "=",
	"(", ")", "{", "}", "[", "]", ",", ";", "?", ":", ".",
}

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
)

func makeToken(typ int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (any, error) {
		return s.Token(typ, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (any, error) {
	return nil, nil
}

// escape escapes every character of a literal so that it is matched verbatim
// by the lexmachine regex engine.
func escape(lit string) string {
	return "\\" + strings.Join(strings.Split(lit, ""), "\\")
}

func buildLexer() *lexmachine.Lexer {
	l := lexmachine.NewLexer()
	l.Add([]byte(`( |\t|\n|\r)+`), skip)
	l.Add([]byte(`//[^\n]*`), skip)
	l.Add([]byte(`/\*([^*]|\*+[^*/])*\*+/`), skip)
	l.Add([]byte(`[0-9]+(\.[0-9]+)?`), makeToken(tokNumber))
	l.Add([]byte(`"([^"\\]|\\.)*"`), makeToken(tokString))
	l.Add([]byte(`'([^'\\]|\\.)*'`), makeToken(tokString))
	l.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), makeToken(tokIdent))
	for _, op := range operators {
		l.Add([]byte(escape(op)), makeToken(tokOp))
	}
	// The patterns are fixed, so compiling cannot fail.
	must.OK(l.Compile())
	return l
}

// lex tokenizes the source code. The returned error, if not nil, has type
// *Error.
func lex(src Source) ([]token, error) {
	lexerOnce.Do(func() { lexer = buildLexer() })
	s, err := lexer.Scanner([]byte(src.Code))
	if err != nil {
		return nil, &Error{Msg: err.Error(), Ranging: diag.PointRanging(0)}
	}
	var tokens []token
	for tok, err, eof := s.Next(); !eof; tok, err, eof = s.Next() {
		if err != nil {
			r := diag.PointRanging(0)
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				r = diag.Ranging{From: ui.StartTC, To: ui.FailTC}
			}
			return nil, &Error{Msg: "unrecognized character in program", Ranging: r}
		}
		t := tok.(*lexmachine.Token)
		typ := t.Type
		text := string(t.Lexeme)
		if typ == tokIdent && keywords[text] {
			typ = tokKeyword
		}
		tokens = append(tokens, token{
			typ:     typ,
			text:    text,
			Ranging: diag.Ranging{From: t.TC, To: t.TC + len(t.Lexeme)},
			line:    t.StartLine,
		})
	}
	return tokens, nil
}

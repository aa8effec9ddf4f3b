// Package parse implements the lexer and parser for the taught language, a
// progressively-restricted language with ECMAScript grammar.
//
// The parser builds an AST of the node types in this package. It accepts the
// full grammar; deciding which constructs are actually permitted at a given
// chapter is the job of the gate package. Two classes of sloppiness are
// tolerated during parsing and reported through hooks instead of errors:
// statement terminators that had to be inferred, and redundant trailing
// separators.
package parse

import (
	"fmt"

	"github.com/sage-lang/sage/pkg/diag"
)

// Tree is a parsed program.
type Tree struct {
	Root   *Program
	Source Source
}

// Hooks are callbacks invoked during parsing for recoverable sloppiness.
// Either callback may be nil.
type Hooks struct {
	// InsertedTerminator is called when a statement terminator was inferred
	// rather than written, with the position where it was inserted.
	InsertedTerminator func(r diag.Ranging)
	// TrailingSeparator is called when a separator was followed by an
	// unnecessary trailing instance, with the range of the trailing
	// separator.
	TrailingSeparator func(r diag.Ranging)
}

// Error is a fatal parse error: the grammar could not be recovered and no
// tree is available.
type Error struct {
	Msg string
	diag.Ranging
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d-%d: %s", e.From, e.To, e.Msg)
}

// Parse parses the given source. On a hard grammar failure it returns a nil
// tree and an error of type *Error; the caller owns converting that into a
// diagnostic.
func Parse(src Source, hooks Hooks) (*Tree, error) {
	if hooks.InsertedTerminator == nil {
		hooks.InsertedTerminator = func(diag.Ranging) {}
	}
	if hooks.TrailingSeparator == nil {
		hooks.TrailingSeparator = func(diag.Ranging) {}
	}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: tokens, hooks: hooks}
	root, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root, Source: src}, nil
}

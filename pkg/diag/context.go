package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a piece of source code. Diagnostics carry
// one to point at the construct they are about.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) Context {
	return Context{name, source, r.Range()}
}

// Pos is a 1-based line and column position in source code.
type Pos struct {
	Line int
	Col  int
}

// StartPos returns the position of the first byte of the range.
func (c *Context) StartPos() Pos {
	return posOf(c.Source, c.From)
}

// EndPos returns the position just past the last byte of the range.
func (c *Context) EndPos() Pos {
	return posOf(c.Source, c.To)
}

func posOf(source string, offset int) Pos {
	if offset < 0 {
		return Pos{0, 0}
	}
	if offset > len(source) {
		offset = len(source)
	}
	before := source[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')
	return Pos{line, col}
}

// describe returns a short textual description of the position of the range,
// like "line 2" or "line 2-4".
func (c *Context) describe() string {
	start, end := c.StartPos(), c.EndPos()
	if start.Line == 0 {
		return "unknown position"
	}
	if start.Line == end.Line {
		return fmt.Sprintf("line %d", start.Line)
	}
	return fmt.Sprintf("line %d-%d", start.Line, end.Line)
}

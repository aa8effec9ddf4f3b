package diag

import (
	"fmt"
	"strings"
)

// Render produces the human-facing text for a list of diagnostics by
// concatenating the explanation of each, in the order they were recorded.
// It is pure and has no evaluation side effects.
func Render(diags []*Diag) string {
	return render(diags, false)
}

// RenderVerbose is like Render, but follows each explanation with the
// elaboration of the diagnostic.
func RenderVerbose(diags []*Diag) string {
	return render(diags, true)
}

func render(diags []*Diag, verbose bool) string {
	var sb strings.Builder
	for _, d := range diags {
		pos := d.Context.StartPos()
		if pos.Line > 0 {
			fmt.Fprintf(&sb, "Line %d: ", pos.Line)
		}
		sb.WriteString(d.Explain())
		if verbose {
			if el := d.Elaborate(); el != "" {
				sb.WriteString(" " + el)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

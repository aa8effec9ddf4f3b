package gate

import (
	"strings"

	"github.com/sage-lang/sage/pkg/parse"
)

// irregularNames holds the construct names that do not follow the mechanical
// pluralization of the kind name.
var irregularNames = map[parse.NodeKind]string{
	parse.KindThisExpr:       "this keywords",
	parse.KindPropertyAccess: "object property accesses",
	parse.KindIndexAccess:    "computed property accesses",
}

// humanize renders a node kind as plural lower-case words, for use in
// diagnostics ("function declarations", "while statements").
func humanize(k parse.NodeKind) string {
	if name, ok := irregularNames[k]; ok {
		return name
	}
	return strings.ReplaceAll(k.String(), "-", " ") + "s"
}

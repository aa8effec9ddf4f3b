package gate

import (
	"github.com/sage-lang/sage/pkg/diag"
	"github.com/sage-lang/sage/pkg/parse"
)

// Rule is a named syntax check bound to one or more node kinds. Rules exist
// for guidance that the chapter table cannot express, like operator hygiene.
type Rule struct {
	Name  string
	Kinds []parse.NodeKind
	// DisabledFrom makes the rule early-learner-only: at or beyond this
	// chapter the rule is skipped entirely. Zero means the rule applies at
	// every chapter.
	DisabledFrom int
	// Check inspects a node together with its ancestor chain (innermost
	// last) and returns any diagnostics. src is the code being gated.
	Check func(n parse.Node, ancestors []parse.Node, src parse.Source) []*diag.Diag
}

// rulesByKind is the static dispatch table from node kind to the ordered
// rules bound to it. Built once at init; read-only afterwards.
var rulesByKind [parse.KindCount][]*Rule

func init() {
	for _, rule := range catalog {
		for _, k := range rule.Kinds {
			rulesByKind[k] = append(rulesByKind[k], rule)
		}
	}
}

package gate

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sage-lang/sage/pkg/parse"
)

//go:embed chapters.yaml
var chaptersYAML []byte

// allowedSyntax maps each node kind to the minimum chapter at which it is
// permitted. Built once at init from the embedded table; read-only
// afterwards and shared by all runs.
var allowedSyntax [parse.KindCount]int

func init() {
	byName := make(map[string]int)
	if err := yaml.Unmarshal(chaptersYAML, &byName); err != nil {
		panic(fmt.Sprintf("gate: parsing embedded chapter table: %v", err))
	}
	for k := parse.NodeKind(0); k < parse.KindCount; k++ {
		if ch, ok := byName[k.String()]; ok {
			allowedSyntax[k] = ch
			delete(byName, k.String())
		} else {
			allowedSyntax[k] = 1
		}
	}
	for name := range byName {
		panic(fmt.Sprintf("gate: chapter table names unknown construct %q", name))
	}
}

// MinChapter returns the minimum chapter at which the given construct is
// permitted.
func MinChapter(k parse.NodeKind) int {
	return allowedSyntax[k]
}

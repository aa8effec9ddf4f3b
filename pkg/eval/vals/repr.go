package vals

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Reprer wraps the Repr method, implemented by value types outside this
// package. Closures implement it with their declared signature text.
type Reprer interface {
	Repr() string
}

// Repr renders a value as text under the taught language's rendering rules:
// numbers, strings and booleans as their literal text, the sentinels as
// fixed literals, pairs recursively as [head, tail]. Coercing a value to
// text always goes through Repr, never through a generic stringification.
func Repr(v any) string {
	switch v := v.(type) {
	case float64:
		return formatNum(v)
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case UndefinedType:
		return "undefined"
	case NullType:
		return "null"
	case *Pair:
		return "[" + Repr(v.Head) + ", " + Repr(v.Tail) + "]"
	case Obj:
		return reprObj(v)
	case Reprer:
		return v.Repr()
	default:
		return fmt.Sprintf("<unknown %v>", v)
	}
}

// formatNum renders integer-valued numbers without a fractional part and
// everything else in the shortest round-trippable form.
func formatNum(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func reprObj(o Obj) string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k + ": " + Repr(o[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

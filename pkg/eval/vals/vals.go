// Package vals provides the runtime value model of the taught language.
//
// Values are Go values of a restricted set of types: float64 for numbers,
// string, bool, the distinguished Undefined and Null sentinels, *Pair for
// cons cells, Obj for associative values, and any type implementing the
// Equaler and Reprer interfaces (closures live in the eval package).
package vals

import "fmt"

// UndefinedType is the type of the Undefined sentinel.
type UndefinedType struct{}

// Undefined is the value of an expressionless program and of missing
// associations.
var Undefined = UndefinedType{}

// NullType is the type of the Null sentinel.
type NullType struct{}

// Null is the distinguished empty-list sentinel. It terminates every
// well-formed list and is never mutated after construction.
var Null = NullType{}

// Kind returns the kind of a value: "number", "string", "boolean",
// "undefined", "null", "pair", "object", or the value's own Kinder result.
func Kind(v any) string {
	switch v.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	case UndefinedType:
		return "undefined"
	case NullType:
		return "null"
	case *Pair:
		return "pair"
	case Obj:
		return "object"
	case Kinder:
		return v.(Kinder).Kind()
	default:
		return fmt.Sprintf("unknown (%T)", v)
	}
}

// Kinder wraps the Kind method, implemented by value types outside this
// package.
type Kinder interface {
	Kind() string
}

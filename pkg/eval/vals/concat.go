package vals

import "fmt"

type cannotConcat struct {
	lhsKind string
	rhsKind string
}

func (err cannotConcat) Error() string {
	return fmt.Sprintf("cannot concatenate %s and %s", err.lhsKind, err.rhsKind)
}

// Concat concatenates two values where at least one is a string, rendering
// the other operand with Repr. Concatenation of two non-strings is an error;
// numeric + is addition and handled by the evaluator.
func Concat(lhs, rhs any) (any, error) {
	_, lok := lhs.(string)
	_, rok := rhs.(string)
	if !lok && !rok {
		return nil, cannotConcat{Kind(lhs), Kind(rhs)}
	}
	return Repr(lhs) + Repr(rhs), nil
}

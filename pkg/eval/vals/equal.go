package vals

// Equaler wraps the Equal method, implemented by value types outside this
// package. Closures implement it with identity comparison.
type Equaler interface {
	Equal(other any) bool
}

// Equal returns whether two values are equal under the taught language's
// equality: primitives by value, pairs by recursive structural equality with
// strict sentinel-termination matching, everything else per its Equaler.
//
// Sentinel discipline makes a bare pair (1, 2) unequal to the one-element
// list (1, null): the tails differ in kind before they differ in content.
func Equal(x, y any) bool {
	switch x := x.(type) {
	case float64:
		return x == y
	case string:
		return x == y
	case bool:
		return x == y
	case UndefinedType:
		_, ok := y.(UndefinedType)
		return ok
	case NullType:
		_, ok := y.(NullType)
		return ok
	case *Pair:
		yy, ok := y.(*Pair)
		return ok && Equal(x.Head, yy.Head) && Equal(x.Tail, yy.Tail)
	case Obj:
		yy, ok := y.(Obj)
		return ok && equalObj(x, yy)
	case Equaler:
		return x.Equal(y)
	default:
		return false
	}
}

func equalObj(x, y Obj) bool {
	if len(x) != len(y) {
		return false
	}
	for k, vx := range x {
		vy, ok := y[k]
		if !ok || !Equal(vx, vy) {
			return false
		}
	}
	return true
}

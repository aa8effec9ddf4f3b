package vals

// Pair is a cons cell. Pairs are immutable once built, so sharing a pair
// between values never creates aliasing hazards.
type Pair struct {
	Head any
	Tail any
}

// Cons returns a new pair of the two values.
func Cons(head, tail any) *Pair {
	return &Pair{head, tail}
}

// List builds a sentinel-terminated list of the given elements.
func List(elems ...any) any {
	list := any(Null)
	for i := len(elems) - 1; i >= 0; i-- {
		list = Cons(elems[i], list)
	}
	return list
}

// UnpackList returns the elements of a sentinel-terminated list, or false if
// v is not one.
func UnpackList(v any) ([]any, bool) {
	var elems []any
	for {
		switch x := v.(type) {
		case NullType:
			return elems, true
		case *Pair:
			elems = append(elems, x.Head)
			v = x.Tail
		default:
			return nil, false
		}
	}
}

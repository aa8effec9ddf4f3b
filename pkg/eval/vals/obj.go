package vals

// Obj is a thin associative value backing property-indexed access. Keys are
// the Repr rendering of the index value, so o[1] and o["1"] address the same
// association.
type Obj map[string]any

// NewObj returns an empty associative value.
func NewObj() Obj { return Obj{} }

// Index returns the association for the given key, or Undefined if there is
// none.
func Index(o Obj, key any) any {
	if v, ok := o[Repr(key)]; ok {
		return v
	}
	return Undefined
}

// Assoc creates or replaces the association for the given key without
// disturbing sibling keys. Nested structures are built by repeated
// single-level creation.
func Assoc(o Obj, key, val any) {
	o[Repr(key)] = val
}

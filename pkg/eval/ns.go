package eval

// Ns is one lexical environment frame. Frames form a parent chain; a frame
// stays alive for as long as any closure that captured it is reachable.
type Ns struct {
	parent *Ns
	slots  map[string]*slot
}

// slot is a single binding. Bindings of const declarations are not mutable;
// bindings of let declarations and of parameters are.
type slot struct {
	val     any
	mutable bool
}

// NewNs creates an empty frame chained to the given parent.
func NewNs(parent *Ns) *Ns {
	return &Ns{parent: parent, slots: make(map[string]*slot)}
}

// define creates a binding in this frame. It reports whether the name was
// free in this frame; the caller turns a redeclaration into a fault.
func (ns *Ns) define(name string, val any, mutable bool) bool {
	if _, ok := ns.slots[name]; ok {
		return false
	}
	ns.slots[name] = &slot{val: val, mutable: mutable}
	return true
}

// lookup resolves a name through the parent chain, innermost frame first,
// giving normal lexical shadowing.
func (ns *Ns) lookup(name string) (*slot, bool) {
	for frame := ns; frame != nil; frame = frame.parent {
		if s, ok := frame.slots[name]; ok {
			return s, true
		}
	}
	return nil, false
}

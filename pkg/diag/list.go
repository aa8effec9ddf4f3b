package diag

// List is an append-only list of diagnostics, owned by a single run. It is
// not safe for concurrent use; a run never shares its list.
type List struct {
	diags []*Diag
}

// Add appends a diagnostic to the list.
func (l *List) Add(d *Diag) {
	l.diags = append(l.diags, d)
}

// Items returns the diagnostics in the order they were recorded. The caller
// must not modify the returned slice.
func (l *List) Items() []*Diag {
	return l.diags
}

// HasError reports whether any recorded diagnostic has severity Error.
func (l *List) HasError() bool {
	for _, d := range l.diags {
		if d.Severity() == Error {
			return true
		}
	}
	return false
}

package gate

import "github.com/sage-lang/sage/pkg/parse"

// NodeRecord is the registry's bookkeeping for one tree node. Identities are
// stable integer indices into the registry's arena, assigned by a per-run
// counter; the parsed tree itself is never modified.
type NodeRecord struct {
	ID   int
	Node parse.Node
	// Resolved is set once the node was connected to a declaration during
	// the traversal's light scope pass.
	Resolved bool
	// Usages are references to this record's declared name, in source order.
	Usages []parse.Node
}

// Registry assigns a stable identity to every distinct node of one parse.
// It lives for a single gating pass and is discarded afterwards; analyses
// layered on top of the gate may retain it.
type Registry struct {
	records []*NodeRecord
	byNode  map[parse.Node]*NodeRecord
}

// NewRegistry creates an empty registry with its identity counter at zero.
func NewRegistry() *Registry {
	return &Registry{byNode: make(map[parse.Node]*NodeRecord)}
}

// Ensure returns the record for the node, creating it on first sight. The
// grammar's node kinds have overlapping shapes, so the same physical node
// may be presented more than once; only the first call creates a record.
func (r *Registry) Ensure(n parse.Node) *NodeRecord {
	if rec, ok := r.byNode[n]; ok {
		return rec
	}
	rec := &NodeRecord{ID: len(r.records), Node: n}
	r.records = append(r.records, rec)
	r.byNode[n] = rec
	return rec
}

// Record returns the record for the node, if one exists.
func (r *Registry) Record(n parse.Node) (*NodeRecord, bool) {
	rec, ok := r.byNode[n]
	return rec, ok
}

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.records) }

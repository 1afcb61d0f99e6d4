package graph

// Edge is the uniform traversal contract every edge variant implements.
// Traverse returns the successor state, or nil when the edge cannot be
// used from s under the request bound into s — a normal outcome of
// constraint checking, not an error.
//
// The unexported methods keep the variant set closed: all edge kinds
// live in this package and serialize through one wire format.
type Edge interface {
	FromVertex() *Vertex
	ToVertex() *Vertex

	// ID is only meaningful immediately after Graph.RebuildIndices.
	ID() int32

	Traverse(s *State) *State

	// OptimisticTraverse is the admissible variant used by heuristic
	// search; it must never overestimate the true cost.
	OptimisticTraverse(s *State) *State

	String() string

	setID(id int32)
	detach()
	wire() wireEdgeRec
}

type baseEdge struct {
	from *Vertex
	to   *Vertex
	id   int32
}

func (e *baseEdge) FromVertex() *Vertex { return e.from }
func (e *baseEdge) ToVertex() *Vertex   { return e.to }
func (e *baseEdge) ID() int32           { return e.id }
func (e *baseEdge) setID(id int32)      { e.id = id }
func (e *baseEdge) detach()             { e.from, e.to = nil, nil }

// attach hooks the concrete edge into both endpoint edge lists. Every
// constructor calls it exactly once.
func attach(e Edge, from, to *Vertex) {
	from.addOutgoing(e)
	to.addIncoming(e)
}

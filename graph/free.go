package graph

import "fmt"

// FreeEdge is an unconditional zero-time transition with a token cost,
// used to glue vertex clusters together.
type FreeEdge struct {
	baseEdge
}

func NewFreeEdge(from, to *Vertex) *FreeEdge {
	e := &FreeEdge{baseEdge{from: from, to: to}}
	attach(e, from, to)
	return e
}

func (e *FreeEdge) Traverse(s *State) *State {
	s1 := s.Edit(e)
	s1.IncrementWeight(1)
	// a free transition does not change how the traveler is moving
	s1.SetBackMode(s.BackMode())
	return s1.MakeState()
}

func (e *FreeEdge) OptimisticTraverse(s *State) *State {
	return e.Traverse(s)
}

func (e *FreeEdge) wire() wireEdgeRec {
	return wireEdgeRec{Kind: edgeKindFree, From: vertexWire(e.from), To: vertexWire(e.to)}
}

func (e *FreeEdge) String() string {
	return fmt.Sprintf("free edge %v -> %v", e.from, e.to)
}

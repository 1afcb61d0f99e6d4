package graph

import (
	"fmt"
	"math"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

// StreetEdge is a directed street segment traversed at the request's
// walk speed. Traversal fails when the request's modes and the segment's
// permissions have no walkable intersection.
type StreetEdge struct {
	baseEdge
	name        string
	length      float64 // meters
	permissions core.TraverseModeSet
}

func NewStreetEdge(from, to *Vertex, name string, length float64, permissions core.TraverseModeSet) *StreetEdge {
	e := &StreetEdge{
		baseEdge:    baseEdge{from: from, to: to},
		name:        name,
		length:      length,
		permissions: permissions,
	}
	attach(e, from, to)
	return e
}

func (e *StreetEdge) Name() string    { return e.name }
func (e *StreetEdge) Length() float64 { return e.length }

func (e *StreetEdge) Traverse(s *State) *State {
	opts := s.Options()
	mode, ok := e.pickMode(opts.Modes)
	if !ok {
		return nil
	}
	speed := opts.WalkSpeed
	if speed <= 0 {
		speed = 1.33
	}
	t := int64(math.Ceil(e.length / speed))
	s1 := s.Edit(e)
	s1.IncrementTimeSeconds(t)
	s1.IncrementWeight(float64(t))
	s1.SetBackMode(mode)
	return s1.MakeState()
}

func (e *StreetEdge) OptimisticTraverse(s *State) *State {
	return e.Traverse(s)
}

func (e *StreetEdge) pickMode(requested core.TraverseModeSet) (core.TraverseMode, bool) {
	for _, m := range []core.TraverseMode{core.ModeWalk, core.ModeBicycle, core.ModeCar} {
		if requested.Contains(m) && e.permissions.Contains(m) {
			return m, true
		}
	}
	return "", false
}

func (e *StreetEdge) wire() wireEdgeRec {
	return wireEdgeRec{
		Kind:   edgeKindStreet,
		From:   vertexWire(e.from),
		To:     vertexWire(e.to),
		Name:   e.name,
		Length: e.length,
		Modes:  e.permissions.Modes(),
	}
}

func (e *StreetEdge) String() string {
	return fmt.Sprintf("street edge %q %v -> %v (%.0fm)", e.name, e.from, e.to, e.length)
}

package graph

import (
	"fmt"
	"sync/atomic"
)

// VertexKind tags the closed set of vertex variants.
type VertexKind uint8

const (
	StreetVertexKind VertexKind = iota
	TransitStopKind
	TransitStopArriveKind
	TransitStopDepartKind
)

// vertexIndex hands out construction-order indices. Process-wide, so
// indices stay unique even when several graphs coexist.
var vertexIndex atomic.Int32

// Vertex is a node in the routable network. The label is globally unique
// within a graph; the index is assigned at construction and used for the
// compact ID maps after RebuildIndices.
//
// Edge lists are mutated only during single-writer graph construction
// and are read without locking during search.
type Vertex struct {
	label  string
	index  int32
	lat    float64
	lon    float64
	name   string
	kind   VertexKind
	stopID string
	local  bool

	outgoing []Edge
	incoming []Edge
}

func newVertex(kind VertexKind, label, name string, lat, lon float64) *Vertex {
	return &Vertex{
		label: label,
		index: vertexIndex.Add(1),
		lat:   lat,
		lon:   lon,
		name:  name,
		kind:  kind,
	}
}

// NewStreetVertex creates a plain street-network vertex.
func NewStreetVertex(label string, lat, lon float64) *Vertex {
	return newVertex(StreetVertexKind, label, "", lat, lon)
}

// NewTransitStop creates a transit stop vertex. A local stop only serves
// locally-scoped trips, which restricts transfer paths through it.
func NewTransitStop(label, stopID, name string, lat, lon float64, local bool) *Vertex {
	v := newVertex(TransitStopKind, label, name, lat, lon)
	v.stopID = stopID
	v.local = local
	return v
}

// NewTransitStopArrive creates the arrival-side vertex of a stop.
func NewTransitStopArrive(label, stopID string, lat, lon float64) *Vertex {
	v := newVertex(TransitStopArriveKind, label, "", lat, lon)
	v.stopID = stopID
	return v
}

// NewTransitStopDepart creates the departure-side vertex of a stop.
func NewTransitStopDepart(label, stopID string, lat, lon float64) *Vertex {
	v := newVertex(TransitStopDepartKind, label, "", lat, lon)
	v.stopID = stopID
	return v
}

func (v *Vertex) Label() string    { return v.label }
func (v *Vertex) Index() int32     { return v.index }
func (v *Vertex) Kind() VertexKind { return v.kind }
func (v *Vertex) Name() string     { return v.name }
func (v *Vertex) StopID() string   { return v.stopID }
func (v *Vertex) Lat() float64     { return v.lat }
func (v *Vertex) Lon() float64     { return v.lon }

// IsLocal reports whether this is a local-only transit stop.
func (v *Vertex) IsLocal() bool { return v.local }

func (v *Vertex) Outgoing() []Edge { return v.outgoing }
func (v *Vertex) Incoming() []Edge { return v.incoming }
func (v *Vertex) DegreeOut() int   { return len(v.outgoing) }
func (v *Vertex) DegreeIn() int    { return len(v.incoming) }

func (v *Vertex) addOutgoing(e Edge) { v.outgoing = append(v.outgoing, e) }
func (v *Vertex) addIncoming(e Edge) { v.incoming = append(v.incoming, e) }

func (v *Vertex) removeOutgoing(e Edge) { v.outgoing = removeEdge(v.outgoing, e) }
func (v *Vertex) removeIncoming(e Edge) { v.incoming = removeEdge(v.incoming, e) }

func removeEdge(edges []Edge, e Edge) []Edge {
	for i, cur := range edges {
		if cur == e {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

// RemoveAllEdges detaches every incident edge from both endpoints. Must
// run before a vertex is permanently discarded, or its neighbors keep
// dangling incident edges.
func (v *Vertex) RemoveAllEdges() {
	for _, e := range v.outgoing {
		if to := e.ToVertex(); to != nil && to != v {
			to.removeIncoming(e)
		}
		e.detach()
	}
	for _, e := range v.incoming {
		if from := e.FromVertex(); from != nil && from != v {
			from.removeOutgoing(e)
		}
		e.detach()
	}
	v.outgoing = nil
	v.incoming = nil
}

// Compact trims edge list capacity after construction or deserialization.
func (v *Vertex) Compact() {
	if cap(v.outgoing) > len(v.outgoing) {
		v.outgoing = append([]Edge(nil), v.outgoing...)
	}
	if cap(v.incoming) > len(v.incoming) {
		v.incoming = append([]Edge(nil), v.incoming...)
	}
}

func (v *Vertex) String() string {
	return fmt.Sprintf("<%s (%.5f,%.5f)>", v.label, v.lat, v.lon)
}

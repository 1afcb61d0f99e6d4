package graph

import (
	"errors"
	"log"
	"math"
	"reflect"
	"sync"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

// ErrNotInGraph is returned when an operation names a vertex the graph
// does not hold.
var ErrNotInGraph = errors.New("vertex is not in graph")

// Agency identifies a transit operator contributing service to the graph.
type Agency struct {
	ID   string
	Name string
}

// Graph owns the vertex/edge population and the cross-cutting build
// products: transfer table, feed validity window, agencies, the typed
// service registry, and the builder annotation log.
//
// A graph is really just indexes into a set of vertices; the edge lists
// live on the vertices themselves.
type Graph struct {
	mu       sync.RWMutex
	vertices map[string]*Vertex

	vertexByID map[int32]*Vertex
	edgeByID   map[int32]Edge

	tempMu    sync.Mutex
	temporary map[Edge]struct{}

	svcMu    sync.RWMutex
	services map[reflect.Type]any

	transfers *core.TransferTable

	// feed validity window, seconds since epoch
	serviceStarts int64
	serviceEnds   int64

	agencies  []Agency
	agencyIDs map[string]struct{}

	// annotations is nil when diagnostics retention is disabled;
	// debugData records whether the graph was built with it on.
	annotations []Annotation
	debugData   bool

	version Version

	// StreetIndex is built at load time by the injected factory.
	StreetIndex StreetIndex

	stopsOnce sync.Once
	stops     []*Vertex

	tzOnce sync.Once
	tz     *timeZoneResult

	calOnce sync.Once
	cal     *calendarHolder
}

// New returns an empty graph with diagnostics retention enabled.
func New() *Graph {
	return &Graph{
		vertices:      map[string]*Vertex{},
		vertexByID:    map[int32]*Vertex{},
		edgeByID:      map[int32]Edge{},
		temporary:     map[Edge]struct{}{},
		services:      map[reflect.Type]any{},
		transfers:     core.NewTransferTable(),
		serviceStarts: math.MaxInt64,
		agencyIDs:     map[string]struct{}{},
		annotations:   []Annotation{},
		debugData:     true,
		version:       CurrentVersion(),
	}
}

// Version returns the build version this graph carries: the running
// build for a graph built in-process, the persisted one after a load.
func (g *Graph) Version() Version { return g.version }

// AddVertex inserts v by label. A distinct vertex already holding the
// label is a data-quality conflict: the insert still wins, but the
// conflict is logged rather than raised.
func (g *Graph) AddVertex(v *Vertex) {
	g.mu.Lock()
	old := g.vertices[v.Label()]
	g.vertices[v.Label()] = v
	g.mu.Unlock()
	if old != nil {
		if old == v {
			log.Printf("graph: repeatedly added the same vertex: %v", v)
		} else {
			log.Printf("graph: duplicate vertex label (added vertex to graph anyway): %v", v)
		}
	}
}

// Vertex returns the vertex with the given label, or nil.
func (g *Graph) Vertex(label string) *Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices[label]
}

// VertexByID returns the vertex with the given index. Only accurate
// immediately after RebuildIndices.
func (g *Graph) VertexByID(id int32) *Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertexByID[id]
}

// EdgeByID returns the edge with the given ID. Only accurate immediately
// after RebuildIndices.
func (g *Graph) EdgeByID(id int32) Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgeByID[id]
}

// Vertices returns a snapshot of all vertices.
func (g *Graph) Vertices() []*Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		out = append(out, v)
	}
	return out
}

// Edges returns all edges, deduplicated via outgoing-list traversal.
// Incoming lists are assumed to hold no edge that is absent from some
// outgoing list.
func (g *Graph) Edges() []Edge {
	seen := map[Edge]struct{}{}
	out := []Edge{}
	for _, v := range g.Vertices() {
		for _, e := range v.Outgoing() {
			if _, ok := seen[e]; !ok {
				seen[e] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out
}

// ContainsVertex reports whether v itself (not merely its label) is in
// the graph.
func (g *Graph) ContainsVertex(v *Vertex) bool {
	if v == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices[v.Label()] == v
}

// RemoveVertex drops v from the label index without touching its edges.
// Prefer RemoveVertexAndEdges for permanent removal.
func (g *Graph) RemoveVertex(v *Vertex) {
	g.mu.Lock()
	cur, ok := g.vertices[v.Label()]
	if ok && cur == v {
		delete(g.vertices, v.Label())
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	log.Printf("graph: attempt to remove vertex that is not in graph: %v", v)
}

// RemoveVertexAndEdges detaches all incident edges (including from the
// temporary set) and removes the vertex. Returns ErrNotInGraph when v is
// not a member.
func (g *Graph) RemoveVertexAndEdges(v *Vertex) error {
	if !g.ContainsVertex(v) {
		return ErrNotInGraph
	}
	g.tempMu.Lock()
	for _, e := range v.Incoming() {
		delete(g.temporary, e)
	}
	for _, e := range v.Outgoing() {
		delete(g.temporary, e)
	}
	g.tempMu.Unlock()
	v.RemoveAllEdges()
	g.mu.Lock()
	delete(g.vertices, v.Label())
	g.mu.Unlock()
	return nil
}

// RebuildIndices recomputes the ID maps from scratch and assigns fresh
// edge IDs via outgoing-list traversal. It must run after any change to
// the vertex or edge population before the ID maps are consulted; the
// graph does not invalidate them automatically.
func (g *Graph) RebuildIndices() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vertexByID = make(map[int32]*Vertex, len(g.vertices))
	g.edgeByID = map[int32]Edge{}
	var nextEdgeID int32
	for _, v := range g.vertices {
		g.vertexByID[v.Index()] = v
		for _, e := range v.Outgoing() {
			e.setID(nextEdgeID)
			g.edgeByID[nextEdgeID] = e
			nextEdgeID++
		}
	}
}

// RemoveEdgelessVertices deletes every vertex with zero combined degree
// and returns how many were removed. Candidates are collected first so
// the vertex map is not mutated mid-iteration.
func (g *Graph) RemoveEdgelessVertices() int {
	var toRemove []*Vertex
	for _, v := range g.Vertices() {
		if v.DegreeOut()+v.DegreeIn() == 0 {
			toRemove = append(toRemove, v)
		}
	}
	g.mu.Lock()
	for _, v := range toRemove {
		delete(g.vertices, v.Label())
	}
	g.mu.Unlock()
	return len(toRemove)
}

// CountVertices returns the number of vertices in the graph.
func (g *Graph) CountVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// CountEdges returns the number of outgoing edges in the graph.
func (g *Graph) CountEdges() int {
	n := 0
	for _, v := range g.Vertices() {
		n += v.DegreeOut()
	}
	return n
}

// TransferTable returns the graph's transfer rule table.
func (g *Graph) TransferTable() *core.TransferTable { return g.transfers }

// Envelope is a geographic bounding rectangle.
type Envelope struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
	set            bool
}

// ExpandToInclude grows the envelope to cover the point.
func (e *Envelope) ExpandToInclude(lat, lon float64) {
	if !e.set {
		e.MinLat, e.MaxLat = lat, lat
		e.MinLon, e.MaxLon = lon, lon
		e.set = true
		return
	}
	e.MinLat = math.Min(e.MinLat, lat)
	e.MaxLat = math.Max(e.MaxLat, lat)
	e.MinLon = math.Min(e.MinLon, lon)
	e.MaxLon = math.Max(e.MaxLon, lon)
}

// IsNil reports whether the envelope covers no points.
func (e Envelope) IsNil() bool { return !e.set }

// Extent returns the bounding rectangle over all vertex coordinates.
func (g *Graph) Extent() Envelope {
	var env Envelope
	for _, v := range g.Vertices() {
		env.ExpandToInclude(v.Lat(), v.Lon())
	}
	return env
}

// AddTemporaryEdge registers an ephemeral edge (a one-off origin or
// destination connector) so overlapping requests can tear it down safely.
func (g *Graph) AddTemporaryEdge(e Edge) {
	g.tempMu.Lock()
	g.temporary[e] = struct{}{}
	g.tempMu.Unlock()
}

// RemoveTemporaryEdge drops a temporary edge. Removal is a no-op when
// either endpoint is already detached: concurrent teardown races are
// expected here.
func (g *Graph) RemoveTemporaryEdge(e Edge) {
	if e.FromVertex() == nil || e.ToVertex() == nil {
		return
	}
	g.tempMu.Lock()
	delete(g.temporary, e)
	g.tempMu.Unlock()
}

// TemporaryEdges returns a snapshot of the temporary edge set.
func (g *Graph) TemporaryEdges() []Edge {
	g.tempMu.Lock()
	defer g.tempMu.Unlock()
	out := make([]Edge, 0, len(g.temporary))
	for e := range g.temporary {
		out = append(out, e)
	}
	return out
}

// AddAgency registers an agency and its ID.
func (g *Graph) AddAgency(a Agency) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.agencyIDs[a.ID]; !ok {
		g.agencyIDs[a.ID] = struct{}{}
		g.agencies = append(g.agencies, a)
	}
}

// Agencies returns all registered agencies.
func (g *Graph) Agencies() []Agency {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Agency(nil), g.agencies...)
}

// AgencyIDs returns the IDs of all registered agencies.
func (g *Graph) AgencyIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.agencies))
	for _, a := range g.agencies {
		out = append(out, a.ID)
	}
	return out
}

// PutService attaches a singleton service to the graph, keyed by its
// type. Returns the previous value for that type, if any.
func PutService[T any](g *Graph, svc T) (prev T, had bool) {
	key := reflect.TypeOf((*T)(nil)).Elem()
	g.svcMu.Lock()
	defer g.svcMu.Unlock()
	if old, ok := g.services[key]; ok {
		prev, had = old.(T), true
	}
	g.services[key] = svc
	return prev, had
}

// GetService retrieves the service registered under type T.
func GetService[T any](g *Graph) (T, bool) {
	key := reflect.TypeOf((*T)(nil)).Elem()
	g.svcMu.RLock()
	defer g.svcMu.RUnlock()
	if v, ok := g.services[key]; ok {
		return v.(T), true
	}
	var zero T
	return zero, false
}

// HasService reports whether a service of type T is registered.
func HasService[T any](g *Graph) bool {
	key := reflect.TypeOf((*T)(nil)).Elem()
	g.svcMu.RLock()
	defer g.svcMu.RUnlock()
	_, ok := g.services[key]
	return ok
}

// Stops returns all transit stop vertices, computed on first access.
func (g *Graph) Stops() []*Vertex {
	g.stopsOnce.Do(func() {
		for _, v := range g.Vertices() {
			if v.Kind() == TransitStopKind {
				g.stops = append(g.stops, v)
			}
		}
	})
	return g.stops
}

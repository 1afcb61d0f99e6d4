package graph

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

// Fatal load failures. Both mean the persisted graph cannot be used and
// must be rebuilt; no partial graph is ever returned.
var (
	ErrVersionMismatch   = errors.New("graph version mismatch, please rebuild the graph")
	ErrIncompatibleGraph = errors.New("stored graph is incompatible with this build, please rebuild the graph")
)

// LoadLevel selects how much of the persisted stream to materialize.
// Each level is a strict prefix of the next.
type LoadLevel int

const (
	// LoadBasic reads the header and runs the version check only — a
	// cheap existence/compatibility probe.
	LoadBasic LoadLevel = iota
	// LoadFull reconstructs the vertex/edge population, rebuilds ID
	// indices, and builds the street index.
	LoadFull
	// LoadDebug additionally reads the annotation log and the raw ID
	// maps from the stream instead of recomputing them.
	LoadDebug
)

// Persisted stream layout, order-sensitive:
//
//  1. wireHeader  — magic, build version, diagnostics flag
//  2. wireMeta    — validity window, agencies, transfer table
//  3. []wireEdgeRec — the deduplicated edge list; vertices are
//     reconstructed transitively from edge endpoints, since each record
//     self-describes both
//  4. only when built with diagnostics: annotation log, raw vertex-ID
//     map, raw edge-ID map
const wireMagic = "transit-graph-v1"

type wireHeader struct {
	Magic   string
	Version Version
	Debug   bool
}

type wireMeta struct {
	ServiceStarts int64
	ServiceEnds   int64
	Agencies      []Agency
	Transfers     *core.TransferTable
}

type wireVertex struct {
	Kind   VertexKind
	Label  string
	Name   string
	StopID string
	Lat    float64
	Lon    float64
	Index  int32
	Local  bool
}

type edgeKind uint8

const (
	edgeKindFree edgeKind = iota
	edgeKindStreet
	edgeKindPreBoard
	edgeKindPreAlight
)

type wireEdgeRec struct {
	Kind edgeKind
	From wireVertex
	To   wireVertex

	// street payload
	Name   string
	Length float64
	Modes  []core.TraverseMode
}

func vertexWire(v *Vertex) wireVertex {
	return wireVertex{
		Kind:   v.kind,
		Label:  v.label,
		Name:   v.name,
		StopID: v.stopID,
		Lat:    v.lat,
		Lon:    v.lon,
		Index:  v.index,
		Local:  v.local,
	}
}

// Save writes the graph to path. On any failure the half-written file is
// deleted before the error is returned, so a file that exists is always
// a complete graph.
func (g *Graph) Save(path string) error {
	log.Printf("graph: main graph size: |V|=%d |E|=%d", g.CountVertices(), g.CountEdges())
	log.Printf("graph: writing graph %s ...", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = g.write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// never leave a half-written graph behind
		_ = os.Remove(path)
		return err
	}
	log.Printf("graph: graph written")
	return nil
}

func (g *Graph) write(w io.Writer) error {
	// a vertex stays flagged once, however many times the graph is saved
	flagged := map[string]struct{}{}
	for _, a := range g.Annotations() {
		if ev, ok := a.(*EdgelessVertex); ok {
			flagged[ev.Label] = struct{}{}
		}
	}
	edges := []Edge{}
	for _, v := range g.Vertices() {
		// incoming lists are assumed to hold nothing absent from an
		// outgoing list
		edges = append(edges, v.Outgoing()...)
		if v.DegreeOut()+v.DegreeIn() == 0 {
			if _, ok := flagged[v.Label()]; !ok {
				log.Printf("%s", g.AddAnnotation(&EdgelessVertex{Label: v.Label()}))
			}
		}
	}
	g.RebuildIndices()

	enc := gob.NewEncoder(w)
	hdr := wireHeader{Magic: wireMagic, Version: g.version, Debug: g.debugData}
	if err := enc.Encode(hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	starts, ends := g.FeedValidity()
	meta := wireMeta{
		ServiceStarts: starts,
		ServiceEnds:   ends,
		Agencies:      g.Agencies(),
		Transfers:     g.transfers,
	}
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("write graph data: %w", err)
	}
	recs := make([]wireEdgeRec, 0, len(edges))
	for _, e := range edges {
		recs = append(recs, e.wire())
	}
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("write edges: %w", err)
	}

	if !g.debugData {
		return nil
	}
	if err := enc.Encode(g.Annotations()); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	vertexIDs := map[int32]string{}
	for _, v := range g.Vertices() {
		vertexIDs[v.Index()] = v.Label()
	}
	if err := enc.Encode(vertexIDs); err != nil {
		return fmt.Errorf("write vertex ids: %w", err)
	}
	edgeIDs := map[int32]int{}
	for i, e := range edges {
		edgeIDs[e.ID()] = i
	}
	if err := enc.Encode(edgeIDs); err != nil {
		return fmt.Errorf("write edge ids: %w", err)
	}
	return nil
}

// Load reads a persisted graph from path using the default street index
// factory.
func Load(path string, level LoadLevel) (*Graph, error) {
	return LoadWithIndexFactory(path, level, DefaultStreetIndexFactory{})
}

// LoadWithIndexFactory reads a persisted graph from path, constructing
// the street index with the injected factory on FULL and DEBUG loads.
func LoadWithIndexFactory(path string, level LoadLevel, factory StreetIndexFactory) (*Graph, error) {
	log.Printf("graph: reading graph %s ...", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFrom(bufio.NewReader(f), level, factory)
}

// LoadFrom reads a persisted graph from r. See LoadLevel for what each
// level materializes.
func LoadFrom(r io.Reader, level LoadLevel, factory StreetIndexFactory) (*Graph, error) {
	if factory == nil {
		factory = DefaultStreetIndexFactory{}
	}
	dec := gob.NewDecoder(r)

	var hdr wireHeader
	if err := dec.Decode(&hdr); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrIncompatibleGraph, err)
	}
	if hdr.Magic != wireMagic {
		return nil, fmt.Errorf("%w: not a transit-graph stream", ErrIncompatibleGraph)
	}
	if err := checkVersion(hdr.Version, CurrentVersion()); err != nil {
		return nil, err
	}

	g := New()
	g.version = hdr.Version
	g.debugData = hdr.Debug
	if level == LoadBasic {
		return g, nil
	}

	var meta wireMeta
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: reading graph data: %v", ErrIncompatibleGraph, err)
	}
	g.serviceStarts = meta.ServiceStarts
	g.serviceEnds = meta.ServiceEnds
	for _, a := range meta.Agencies {
		g.AddAgency(a)
	}
	if meta.Transfers != nil {
		g.transfers = meta.Transfers
	}

	log.Printf("graph: loading edges...")
	var recs []wireEdgeRec
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: reading edges: %v", ErrIncompatibleGraph, err)
	}
	edges, err := g.restoreEdges(recs)
	if err != nil {
		return nil, err
	}
	for _, v := range g.Vertices() {
		v.Compact()
	}
	log.Printf("graph: main graph read, |V|=%d |E|=%d", g.CountVertices(), g.CountEdges())

	g.StreetIndex = factory.NewIndex(g)
	g.RebuildIndices()
	if level == LoadFull {
		return g, nil
	}

	if !g.debugData {
		log.Printf("graph: graph file does not contain debug data")
		return g, nil
	}
	var annotations []Annotation
	if err := dec.Decode(&annotations); err != nil {
		return nil, fmt.Errorf("%w: reading annotations: %v", ErrIncompatibleGraph, err)
	}
	g.annotations = annotations
	var vertexIDs map[int32]string
	if err := dec.Decode(&vertexIDs); err != nil {
		return nil, fmt.Errorf("%w: reading vertex ids: %v", ErrIncompatibleGraph, err)
	}
	var edgeIDs map[int32]int
	if err := dec.Decode(&edgeIDs); err != nil {
		return nil, fmt.Errorf("%w: reading edge ids: %v", ErrIncompatibleGraph, err)
	}
	g.applyRawIndices(vertexIDs, edgeIDs, edges)
	return g, nil
}

// checkVersion enforces the compatibility policy: any difference in the
// version string is fatal; a commit mismatch is a warning on snapshot
// builds and fatal on release builds, where it implies a broken release
// process.
func checkVersion(stored, running Version) error {
	log.Printf("graph: graph version:   %v", stored)
	log.Printf("graph: running version: %v", running)
	if stored.Version != running.Version {
		log.Printf("graph: this graph was built with a different version, please rebuild it")
		return fmt.Errorf("%w: graph %s, running %s", ErrVersionMismatch, stored.Version, running.Version)
	}
	if stored.Commit != running.Commit {
		if running.Unstable() {
			log.Printf("graph: same snapshot version but different commit; rebuild the graph if you see incorrect behavior")
			return nil
		}
		log.Printf("graph: commit mismatch in non-snapshot version; this implies a problem with the build or release process")
		return fmt.Errorf("%w: commit %s vs %s on release build", ErrVersionMismatch, stored.Commit, running.Commit)
	}
	return nil
}

func (g *Graph) restoreEdges(recs []wireEdgeRec) ([]Edge, error) {
	byLabel := map[string]*Vertex{}
	restore := func(w wireVertex) *Vertex {
		if v, ok := byLabel[w.Label]; ok {
			return v
		}
		v := &Vertex{
			label:  w.Label,
			index:  w.Index,
			lat:    w.Lat,
			lon:    w.Lon,
			name:   w.Name,
			kind:   w.Kind,
			stopID: w.StopID,
			local:  w.Local,
		}
		bumpVertexIndex(w.Index)
		byLabel[w.Label] = v
		g.AddVertex(v)
		return v
	}
	edges := make([]Edge, 0, len(recs))
	for _, rec := range recs {
		from := restore(rec.From)
		to := restore(rec.To)
		var e Edge
		switch rec.Kind {
		case edgeKindFree:
			e = NewFreeEdge(from, to)
		case edgeKindStreet:
			e = NewStreetEdge(from, to, rec.Name, rec.Length, core.NewTraverseModeSet(rec.Modes...))
		case edgeKindPreBoard:
			e = NewPreBoardEdge(from, to)
		case edgeKindPreAlight:
			e = NewPreAlightEdge(from, to)
		default:
			return nil, fmt.Errorf("%w: unknown edge kind %d", ErrIncompatibleGraph, rec.Kind)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// applyRawIndices installs the ID maps exactly as persisted, replacing
// the recomputed ones.
func (g *Graph) applyRawIndices(vertexIDs map[int32]string, edgeIDs map[int32]int, edges []Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vertexByID = make(map[int32]*Vertex, len(vertexIDs))
	for id, label := range vertexIDs {
		if v, ok := g.vertices[label]; ok {
			g.vertexByID[id] = v
		}
	}
	g.edgeByID = make(map[int32]Edge, len(edgeIDs))
	for id, pos := range edgeIDs {
		if pos >= 0 && pos < len(edges) {
			edges[pos].setID(id)
			g.edgeByID[id] = edges[pos]
		}
	}
}

// bumpVertexIndex keeps the construction counter ahead of every restored
// index so vertices created after a load cannot collide.
func bumpVertexIndex(seen int32) {
	for {
		cur := vertexIndex.Load()
		if cur >= seen {
			return
		}
		if vertexIndex.CompareAndSwap(cur, seen) {
			return
		}
	}
}

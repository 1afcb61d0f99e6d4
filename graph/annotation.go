package graph

import (
	"encoding/gob"
	"fmt"
	"log"
)

// Annotation is an immutable record of a build-time diagnostic. The log
// is append-only and may be disabled entirely to save memory, in which
// case messages are still computable but not retained.
type Annotation interface {
	Message() string
}

// NoFutureDates flags an agency whose service dates are all in the past
// at build time.
type NoFutureDates struct {
	AgencyID string
}

func (a *NoFutureDates) Message() string {
	return fmt.Sprintf("Agency %s has no more dates of service in the future. It may be misconfigured or its feed expired.", a.AgencyID)
}

// EdgelessVertex flags a vertex without any incident edges at
// serialization time; such vertices do not survive a save/load cycle.
type EdgelessVertex struct {
	Label string
}

func (a *EdgelessVertex) Message() string {
	return fmt.Sprintf("Vertex %s has no edges and will not survive serialization.", a.Label)
}

func init() {
	// concrete annotation types travel inside the DEBUG section of the
	// persisted graph stream
	gob.Register(&NoFutureDates{})
	gob.Register(&EdgelessVertex{})
}

// AddAnnotation registers a builder annotation and returns its message,
// allowing the single-line idiom
//
//	log.Printf("%s", g.AddAnnotation(&NoFutureDates{AgencyID: id}))
//
// If annotation retention is disabled the message is still returned but
// nothing is stored.
func (g *Graph) AddAnnotation(a Annotation) string {
	msg := a.Message()
	g.mu.Lock()
	if g.annotations != nil {
		g.annotations = append(g.annotations, a)
	}
	g.mu.Unlock()
	return msg
}

// Annotations returns the collected builder annotations, or nil when
// retention is disabled.
func (g *Graph) Annotations() []Annotation {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.annotations
}

// DisableAnnotationRetention stops the graph from keeping annotations
// (and from writing the diagnostic section of the persisted stream).
func (g *Graph) DisableAnnotationRetention() {
	g.mu.Lock()
	g.annotations = nil
	g.debugData = false
	g.mu.Unlock()
}

// SummarizeAnnotations logs the number of annotations of each type.
func (g *Graph) SummarizeAnnotations() {
	counts := map[string]int{}
	for _, a := range g.Annotations() {
		counts[fmt.Sprintf("%T", a)] += 1
	}
	log.Printf("graph: annotation summary (number of each type):")
	for name, n := range counts {
		log.Printf("    %s - %d", name, n)
	}
}

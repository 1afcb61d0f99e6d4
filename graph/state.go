package graph

import (
	"fmt"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

// State is an immutable snapshot of a traveler's progress at a vertex.
// Each traversal produces a fresh State chained to its predecessor, so a
// finished search walks the chain from goal back to origin. The chain is
// private to one search and never shared.
//
// Time is signed seconds since the search's epoch and runs backward in
// arrive-by searches.
type State struct {
	vertex           *Vertex
	time             int64
	weight           float64
	numBoardings     int
	everBoarded      bool
	alightedLocal    bool
	lastAlightedTime int64
	previousStop     string
	backMode         core.TraverseMode

	backEdge  Edge
	backState *State

	opts      *core.RoutingRequest
	transfers *core.TransferTable
}

// NewState creates the initial state of a search at v. The routing
// request and the graph's transfer table are bound into the state so
// every subsequent traversal can read them.
func NewState(v *Vertex, startTime int64, opts *core.RoutingRequest, transfers *core.TransferTable) *State {
	if transfers == nil {
		transfers = core.NewTransferTable()
	}
	return &State{
		vertex:    v,
		time:      startTime,
		opts:      opts,
		transfers: transfers,
	}
}

func (s *State) Vertex() *Vertex                  { return s.vertex }
func (s *State) TimeSeconds() int64               { return s.time }
func (s *State) Weight() float64                  { return s.weight }
func (s *State) NumBoardings() int                { return s.numBoardings }
func (s *State) EverBoarded() bool                { return s.everBoarded }
func (s *State) AlightedLocal() bool              { return s.alightedLocal }
func (s *State) LastAlightedTime() int64          { return s.lastAlightedTime }
func (s *State) PreviousStop() string             { return s.previousStop }
func (s *State) BackMode() core.TraverseMode      { return s.backMode }
func (s *State) BackEdge() Edge                   { return s.backEdge }
func (s *State) BackState() *State                { return s.backState }
func (s *State) Options() *core.RoutingRequest    { return s.opts }
func (s *State) TransferTable() *core.TransferTable { return s.transfers }

// Edit opens a mutation scope for traversing e from this state. The
// child state starts as a copy positioned at the far endpoint of e in
// the search direction.
func (s *State) Edit(e Edge) *StateEditor {
	child := *s
	child.backState = s
	child.backEdge = e
	child.backMode = ""
	if s.opts.ArriveBy {
		child.vertex = e.FromVertex()
	} else {
		child.vertex = e.ToVertex()
	}
	return &StateEditor{child: &child}
}

func (s *State) String() string {
	return fmt.Sprintf("<State %v t=%d w=%.1f>", s.vertex, s.time, s.weight)
}

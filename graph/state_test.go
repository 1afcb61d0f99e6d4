package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

func TestState_EditChain(t *testing.T) {
	a := NewStreetVertex("a", 0, 0)
	b := NewStreetVertex("b", 0, 1)
	e := NewFreeEdge(a, b)

	opts := core.NewRoutingRequest()
	s0 := NewState(a, 100, opts, nil)
	require.NotNil(t, s0.TransferTable(), "nil table is replaced with an empty one")

	ed := s0.Edit(e)
	ed.IncrementTimeSeconds(60)
	ed.IncrementWeight(5)
	ed.SetBackMode(core.ModeWalk)
	s1 := ed.MakeState()

	assert.Same(t, b, s1.Vertex(), "forward search moves to the edge head")
	assert.Equal(t, int64(160), s1.TimeSeconds())
	assert.Equal(t, float64(5), s1.Weight())
	assert.Equal(t, core.ModeWalk, s1.BackMode())
	assert.Same(t, s0, s1.BackState())
	assert.Same(t, Edge(e), s1.BackEdge())

	// the predecessor is untouched
	assert.Equal(t, int64(100), s0.TimeSeconds())
	assert.Equal(t, float64(0), s0.Weight())
}

func TestState_EditArriveByMovesBackward(t *testing.T) {
	a := NewStreetVertex("a", 0, 0)
	b := NewStreetVertex("b", 0, 1)
	e := NewFreeEdge(a, b)

	opts := core.NewRoutingRequest()
	opts.ArriveBy = true
	s0 := NewState(b, 100, opts, nil)

	ed := s0.Edit(e)
	ed.IncrementTimeSeconds(60)
	s1 := ed.MakeState()

	assert.Same(t, a, s1.Vertex(), "arrive-by search moves to the edge tail")
	assert.Equal(t, int64(40), s1.TimeSeconds(), "time runs backward")
}

func TestStateEditor_NegativeWeightIgnored(t *testing.T) {
	a := NewStreetVertex("a", 0, 0)
	b := NewStreetVertex("b", 0, 1)
	e := NewFreeEdge(a, b)
	s0 := NewState(a, 0, core.NewRoutingRequest(), nil)

	ed := s0.Edit(e)
	ed.IncrementWeight(10)
	ed.IncrementWeight(-4)
	s1 := ed.MakeState()
	assert.Equal(t, float64(10), s1.Weight())
}

func TestStateEditor_UseAfterMakeStatePanics(t *testing.T) {
	a := NewStreetVertex("a", 0, 0)
	b := NewStreetVertex("b", 0, 1)
	e := NewFreeEdge(a, b)
	s0 := NewState(a, 0, core.NewRoutingRequest(), nil)

	ed := s0.Edit(e)
	ed.MakeState()
	assert.Panics(t, func() { ed.SetTimeSeconds(1) })
	assert.Panics(t, func() { ed.MakeState() })
}

func TestStateEditor_AlightTransit(t *testing.T) {
	stop := NewTransitStop("stop_A", "A", "Stop A", 0, 0, false)
	arrive := NewTransitStopArrive("arrive_A", "A", 0, 0)
	e := NewPreAlightEdge(arrive, stop)

	s0 := NewState(arrive, 500, core.NewRoutingRequest(), nil)
	ed := s0.Edit(e)
	ed.AlightTransit()
	s1 := ed.MakeState()

	assert.Equal(t, int64(500), s1.LastAlightedTime())
	assert.Equal(t, "A", s1.PreviousStop())
}

func TestStreetEdge_Traverse(t *testing.T) {
	a := NewStreetVertex("a", 0, 0)
	b := NewStreetVertex("b", 0, 1)
	walk := core.NewTraverseModeSet(core.ModeWalk)
	e := NewStreetEdge(a, b, "Vitosha Blvd", 133, walk)

	opts := core.NewRoutingRequest() // walk speed 1.33 m/s
	s0 := NewState(a, 0, opts, nil)
	s1 := e.Traverse(s0)
	require.NotNil(t, s1)
	assert.Equal(t, int64(100), s1.TimeSeconds())
	assert.Equal(t, float64(100), s1.Weight())
	assert.Equal(t, core.ModeWalk, s1.BackMode())

	// no permitted mode in common
	carOnly := core.NewRoutingRequest()
	carOnly.Modes = core.NewTraverseModeSet(core.ModeCar)
	assert.Nil(t, e.Traverse(NewState(a, 0, carOnly, nil)))
}

func TestFreeEdge_Traverse(t *testing.T) {
	a := NewStreetVertex("a", 0, 0)
	b := NewStreetVertex("b", 0, 1)
	e := NewFreeEdge(a, b)

	s0 := NewState(a, 10, core.NewRoutingRequest(), nil)
	s1 := e.Traverse(s0)
	require.NotNil(t, s1)
	assert.Equal(t, int64(10), s1.TimeSeconds())
	assert.Equal(t, float64(1), s1.Weight())
}

func TestFreeEdge_KeepsBackMode(t *testing.T) {
	corner := NewStreetVertex("corner", 0, 0)
	a := NewStreetVertex("a", 0, 1)
	b := NewStreetVertex("b", 0, 2)
	walk := NewStreetEdge(corner, a, "Graf Ignatiev", 10, core.NewTraverseModeSet(core.ModeWalk))
	free := NewFreeEdge(a, b)

	s0 := NewState(corner, 0, core.NewRoutingRequest(), nil)
	s1 := walk.Traverse(s0)
	require.NotNil(t, s1)
	s2 := free.Traverse(s1)
	require.NotNil(t, s2)
	assert.Equal(t, core.ModeWalk, s2.BackMode(),
		"a free transition keeps the mode of the step before it")
}

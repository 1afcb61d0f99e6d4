package graph

import "github.com/theoremus-urban-solutions/transit-graph/core"

// StateEditor is the scoped mutation builder for exactly one traversal.
// Obtain one from State.Edit, apply setters, then call MakeState to
// freeze the edits into the successor state. An editor must not be used
// after MakeState.
type StateEditor struct {
	child   *State
	spawned bool
}

func (e *StateEditor) mutating() *State {
	if e.spawned {
		panic("StateEditor used after MakeState")
	}
	return e.child
}

// SetTimeSeconds sets the child's absolute time.
func (e *StateEditor) SetTimeSeconds(t int64) {
	e.mutating().time = t
}

// IncrementTimeSeconds advances time in the direction of the search:
// forward searches add, arrive-by searches subtract.
func (e *StateEditor) IncrementTimeSeconds(sec int64) {
	c := e.mutating()
	if c.opts.ArriveBy {
		c.time -= sec
	} else {
		c.time += sec
	}
}

// IncrementWeight accumulates traversal cost. Negative increments are
// ignored; cost never decreases along a path.
func (e *StateEditor) IncrementWeight(w float64) {
	if w < 0 {
		return
	}
	e.mutating().weight += w
}

func (e *StateEditor) SetEverBoarded(b bool) {
	e.mutating().everBoarded = b
}

func (e *StateEditor) IncrementNumBoardings() {
	e.mutating().numBoardings++
}

func (e *StateEditor) SetAlightedLocal(b bool) {
	e.mutating().alightedLocal = b
}

func (e *StateEditor) SetLastAlightedTime(t int64) {
	e.mutating().lastAlightedTime = t
}

func (e *StateEditor) SetPreviousStop(stopID string) {
	e.mutating().previousStop = stopID
}

func (e *StateEditor) SetBackMode(m core.TraverseMode) {
	e.mutating().backMode = m
}

// AlightTransit records leaving a vehicle at the child's current vertex:
// the alighting time and the stop become the reference point for the
// next transfer-rule lookup.
func (e *StateEditor) AlightTransit() {
	c := e.mutating()
	c.lastAlightedTime = c.time
	if c.vertex != nil {
		c.previousStop = c.vertex.StopID()
	}
}

// MakeState freezes the edits and returns the successor state.
func (e *StateEditor) MakeState() *State {
	if e.spawned {
		panic("StateEditor used after MakeState")
	}
	e.spawned = true
	return e.child
}

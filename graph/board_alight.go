package graph

import (
	"fmt"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

// PreAlightEdge connects a stop's arrival vertex to the transit stop
// itself. It carries the station-specific costs and rules that would
// otherwise be re-applied on every vehicle-level alight edge: local-stop
// restrictions, the transfer limit, timed/preferred/forbidden transfer
// rules, and transfer penalties.
//
// In an arrive-by search this edge is traversed backward in time and is
// really deciding board eligibility: the latest feasible boarding that
// still reaches the later, already-fixed state. That is where all the
// rejection logic lives. The forward direction is bookkeeping only — see
// PreBoardEdge for the symmetric forward-direction rule enforcement.
type PreAlightEdge struct {
	baseEdge
}

// NewPreAlightEdge links a TransitStopArrive vertex to its TransitStop.
// Wiring any other vertex kinds is a builder bug.
func NewPreAlightEdge(from, to *Vertex) *PreAlightEdge {
	if from.Kind() != TransitStopArriveKind {
		panic(fmt.Sprintf("pre-alight edge must start at a stop arrival vertex, got %v", from))
	}
	if to.Kind() != TransitStopKind {
		panic(fmt.Sprintf("pre-alight edge must lead to a transit stop, got %v", to))
	}
	e := &PreAlightEdge{baseEdge{from: from, to: to}}
	attach(e, from, to)
	return e
}

func (e *PreAlightEdge) Traverse(s0 *State) *State {
	opts := s0.Options()
	if opts.ArriveBy {
		// Reject here rather than at the street-transit link so that
		// walk-only requests can still reach stops without boarding.
		if !opts.Modes.IsTransit() {
			return nil
		}
		// No boarding anywhere once the path has alighted at a local stop.
		if s0.AlightedLocal() {
			return nil
		}
		if e.to.IsLocal() && s0.EverBoarded() {
			return nil
		}
		if s0.NumBoardings() > opts.MaxTransfers {
			return nil
		}

		t0 := s0.TimeSeconds()
		var slack int64
		if s0.EverBoarded() {
			slack = opts.TransferSlack - opts.BoardSlack
		} else {
			slack = opts.AlightSlack
		}
		alightBefore := t0 - slack

		var transferPenalty int64
		if s0.LastAlightedTime() != 0 {
			// A genuine transfer: consult the rules from the previous
			// stop to this one.
			table := s0.TransferTable()
			if table.HasPreferredTransfers() {
				// only penalize transfers if some will be depenalized
				transferPenalty = opts.NonpreferredTransferPenalty
			}
			transferTime := table.TransferTime(e.from.StopID(), s0.PreviousStop())
			switch {
			case transferTime == core.UnknownTransfer:
				// no rule; the slack-derived deadline stands
			case transferTime >= 0:
				// minimum-duration (>0) and timed (0) rules count from
				// the alight time at the last stop
				tableAlightBefore := s0.LastAlightedTime() - int64(transferTime)
				// never let the rule relax the slack-derived deadline
				if tableAlightBefore < alightBefore {
					alightBefore = tableAlightBefore
				}
			case transferTime == core.ForbiddenTransfer:
				return nil
			case transferTime == core.PreferredTransfer:
				transferPenalty = 0
			default:
				panic(fmt.Sprintf("undefined value in transfer table: %d", transferTime))
			}
			if transferTime == core.TimedTransfer {
				// timed transfers are always penalty-free
				transferPenalty = 0
			}
		}

		if s0.EverBoarded() {
			// not the first boarding, so a transfer happened somewhere,
			// formal or on foot
			transferPenalty += opts.TransferPenalty
		}

		s1 := s0.Edit(e)
		s1.SetTimeSeconds(alightBefore)
		s1.SetEverBoarded(true)
		s1.IncrementNumBoardings()
		waitCost := t0 - alightBefore
		s1.IncrementWeight(float64(waitCost) + float64(transferPenalty))
		s1.SetBackMode(core.ModeAlighting)
		return s1.MakeState()
	}

	// Forward traversal: flag local alighting, apply the slack, done.
	s1 := s0.Edit(e)
	if e.to.IsLocal() {
		s1.SetAlightedLocal(true)
	}
	s1.AlightTransit()
	s1.IncrementTimeSeconds(opts.AlightSlack)
	s1.SetBackMode(core.ModeAlighting)
	return s1.MakeState()
}

// OptimisticTraverse omits the minimum transfer time: it is
// path-dependent and would break admissibility of a lower bound.
func (e *PreAlightEdge) OptimisticTraverse(s0 *State) *State {
	s1 := s0.Edit(e)
	s1.SetBackMode(core.ModeAlighting)
	return s1.MakeState()
}

func (e *PreAlightEdge) wire() wireEdgeRec {
	return wireEdgeRec{Kind: edgeKindPreAlight, From: vertexWire(e.from), To: vertexWire(e.to)}
}

func (e *PreAlightEdge) String() string {
	return fmt.Sprintf("prealight edge at stop %v", e.to)
}

// PreBoardEdge connects a transit stop to its departure vertex. It is
// the mirror of PreAlightEdge: the rejection and transfer-rule logic
// runs in the forward (depart-at) direction, where boarding is the
// decision being made, and the backward direction only does bookkeeping.
type PreBoardEdge struct {
	baseEdge
}

// NewPreBoardEdge links a TransitStop to its TransitStopDepart vertex.
func NewPreBoardEdge(from, to *Vertex) *PreBoardEdge {
	if from.Kind() != TransitStopKind {
		panic(fmt.Sprintf("pre-board edge must start at a transit stop, got %v", from))
	}
	if to.Kind() != TransitStopDepartKind {
		panic(fmt.Sprintf("pre-board edge must lead to a stop departure vertex, got %v", to))
	}
	e := &PreBoardEdge{baseEdge{from: from, to: to}}
	attach(e, from, to)
	return e
}

func (e *PreBoardEdge) Traverse(s0 *State) *State {
	opts := s0.Options()
	if opts.ArriveBy {
		// Backward traversal: leaving a vehicle in reverse time.
		s1 := s0.Edit(e)
		if e.from.IsLocal() {
			s1.SetAlightedLocal(true)
		}
		s1.AlightTransit()
		s1.IncrementTimeSeconds(opts.BoardSlack)
		s1.SetBackMode(core.ModeBoarding)
		return s1.MakeState()
	}

	if !opts.Modes.IsTransit() {
		return nil
	}
	if s0.AlightedLocal() {
		return nil
	}
	if e.from.IsLocal() && s0.EverBoarded() {
		return nil
	}
	if s0.NumBoardings() > opts.MaxTransfers {
		return nil
	}

	t0 := s0.TimeSeconds()
	var slack int64
	if s0.EverBoarded() {
		slack = opts.TransferSlack - opts.AlightSlack
	} else {
		slack = opts.BoardSlack
	}
	boardAfter := t0 + slack

	var transferPenalty int64
	if s0.LastAlightedTime() != 0 {
		table := s0.TransferTable()
		if table.HasPreferredTransfers() {
			transferPenalty = opts.NonpreferredTransferPenalty
		}
		transferTime := table.TransferTime(e.from.StopID(), s0.PreviousStop())
		switch {
		case transferTime == core.UnknownTransfer:
		case transferTime >= 0:
			tableBoardAfter := s0.LastAlightedTime() + int64(transferTime)
			// the rule may only make boarding later, never earlier
			if tableBoardAfter > boardAfter {
				boardAfter = tableBoardAfter
			}
		case transferTime == core.ForbiddenTransfer:
			return nil
		case transferTime == core.PreferredTransfer:
			transferPenalty = 0
		default:
			panic(fmt.Sprintf("undefined value in transfer table: %d", transferTime))
		}
		if transferTime == core.TimedTransfer {
			transferPenalty = 0
		}
	}

	if s0.EverBoarded() {
		transferPenalty += opts.TransferPenalty
	}

	s1 := s0.Edit(e)
	s1.SetTimeSeconds(boardAfter)
	s1.SetEverBoarded(true)
	s1.IncrementNumBoardings()
	waitCost := boardAfter - t0
	s1.IncrementWeight(float64(waitCost) + float64(transferPenalty))
	s1.SetBackMode(core.ModeBoarding)
	return s1.MakeState()
}

func (e *PreBoardEdge) OptimisticTraverse(s0 *State) *State {
	s1 := s0.Edit(e)
	s1.SetBackMode(core.ModeBoarding)
	return s1.MakeState()
}

func (e *PreBoardEdge) wire() wireEdgeRec {
	return wireEdgeRec{Kind: edgeKindPreBoard, From: vertexWire(e.from), To: vertexWire(e.to)}
}

func (e *PreBoardEdge) String() string {
	return fmt.Sprintf("preboard edge at stop %v", e.from)
}

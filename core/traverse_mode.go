package core

// TraverseMode identifies how an edge is (or was) traversed. Board and
// alight transitions get their own modes so a state chain records where
// vehicle boundaries were crossed.
type TraverseMode string

const (
	ModeWalk      TraverseMode = "WALK"
	ModeBicycle   TraverseMode = "BICYCLE"
	ModeCar       TraverseMode = "CAR"
	ModeBus       TraverseMode = "BUS"
	ModeTram      TraverseMode = "TRAM"
	ModeRail      TraverseMode = "RAIL"
	ModeSubway    TraverseMode = "SUBWAY"
	ModeFerry     TraverseMode = "FERRY"
	ModeTransit   TraverseMode = "TRANSIT"
	ModeBoarding  TraverseMode = "BOARDING"
	ModeAlighting TraverseMode = "ALIGHTING"
)

// IsTransit reports whether the mode rides a scheduled vehicle.
func (m TraverseMode) IsTransit() bool {
	switch m {
	case ModeBus, ModeTram, ModeRail, ModeSubway, ModeFerry, ModeTransit:
		return true
	}
	return false
}

// TraverseModeSet is the set of modes a routing request allows.
type TraverseModeSet struct {
	modes map[TraverseMode]bool
}

// NewTraverseModeSet builds a set from the given modes.
func NewTraverseModeSet(modes ...TraverseMode) TraverseModeSet {
	s := TraverseModeSet{modes: make(map[TraverseMode]bool, len(modes))}
	for _, m := range modes {
		s.modes[m] = true
	}
	return s
}

// Contains reports whether m is in the set.
func (s TraverseModeSet) Contains(m TraverseMode) bool {
	return s.modes[m]
}

// IsTransit reports whether any transit mode is selected.
func (s TraverseModeSet) IsTransit() bool {
	for m, ok := range s.modes {
		if ok && m.IsTransit() {
			return true
		}
	}
	return false
}

// Modes returns the selected modes in unspecified order.
func (s TraverseModeSet) Modes() []TraverseMode {
	out := make([]TraverseMode, 0, len(s.modes))
	for m, ok := range s.modes {
		if ok {
			out = append(out, m)
		}
	}
	return out
}

package core

// RoutingRequest is the immutable per-search configuration. The search
// layer builds one request, binds it into the initial state, and every
// edge traversal reads it from there. Times are in seconds, penalties in
// cost (weight) units.
type RoutingRequest struct {
	// ArriveBy selects time-reversed search: the traveler fixes the
	// arrival time and the search runs backward toward the origin.
	ArriveBy bool

	// MaxTransfers caps the number of boardings beyond the first.
	MaxTransfers int

	// BoardSlack and AlightSlack are buffers applied at every boarding
	// and alighting; TransferSlack is the total buffer required between
	// two vehicles.
	BoardSlack    int64
	AlightSlack   int64
	TransferSlack int64

	// TransferPenalty is a flat cost added on every boarding after the
	// first. NonpreferredTransferPenalty applies only when the transfer
	// table contains preferred pairs and the queried pair is not one.
	TransferPenalty             int64
	NonpreferredTransferPenalty int64

	Modes TraverseModeSet

	// WalkSpeed in m/s, used by street edges.
	WalkSpeed float64
}

// NewRoutingRequest returns a request with the defaults the original
// planner ships: walk+transit, two transfers, 2 min transfer slack.
func NewRoutingRequest() *RoutingRequest {
	return &RoutingRequest{
		MaxTransfers:  2,
		BoardSlack:    0,
		AlightSlack:   0,
		TransferSlack: 120,
		Modes:         NewTraverseModeSet(ModeWalk, ModeTransit),
		WalkSpeed:     1.33,
	}
}

package core

import (
	"bytes"
	"encoding/gob"
)

// Transfer classifications returned by TransferTable.TransferTime.
// Values >= 0 are minimum transfer durations in seconds; zero is a timed
// transfer and is always penalty-free. The negative values are rule
// markers, not durations.
const (
	TimedTransfer     = 0
	ForbiddenTransfer = -1
	PreferredTransfer = -2
	UnknownTransfer   = -999
)

// StopPair keys a directed transfer rule: boarding context stop first,
// previously alighted stop second.
type StopPair struct {
	From string
	To   string
}

// TransferTable stores per-stop-pair transfer policies. It is populated
// while the graph is built and read-only during search; all query paths
// are lock-free map reads.
type TransferTable struct {
	table map[StopPair]int
	// preferred counts PreferredTransfer and TimedTransfer entries, so
	// HasPreferredTransfers stays O(1) for the traversal hot path.
	preferred int
}

// NewTransferTable returns an empty table.
func NewTransferTable() *TransferTable {
	return &TransferTable{table: make(map[StopPair]int)}
}

// TransferTime returns the classification for boarding at fromStop after
// alighting at toStop: UnknownTransfer when no rule exists, a duration in
// seconds (>= 0), ForbiddenTransfer, or PreferredTransfer.
func (t *TransferTable) TransferTime(fromStop, toStop string) int {
	if v, ok := t.table[StopPair{From: fromStop, To: toStop}]; ok {
		return v
	}
	return UnknownTransfer
}

// SetTransferTime records a rule for the pair. Must only be called while
// the graph is being built.
func (t *TransferTable) SetTransferTime(fromStop, toStop string, transferTime int) {
	pair := StopPair{From: fromStop, To: toStop}
	if old, ok := t.table[pair]; ok && isPreferred(old) {
		t.preferred--
	}
	t.table[pair] = transferTime
	if isPreferred(transferTime) {
		t.preferred++
	}
}

// HasPreferredTransfers reports whether any preferred or timed rule
// exists anywhere in the table. When true, transfers over pairs without
// such a rule pick up the non-preferred penalty.
func (t *TransferTable) HasPreferredTransfers() bool {
	return t.preferred > 0
}

// Size returns the number of rules in the table.
func (t *TransferTable) Size() int {
	return len(t.table)
}

func isPreferred(transferTime int) bool {
	return transferTime == PreferredTransfer || transferTime == TimedTransfer
}

// GobEncode implements gob.GobEncoder so a table can travel inside the
// persisted graph stream without exposing its internals.
func (t *TransferTable) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t.table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (t *TransferTable) GobDecode(data []byte) error {
	table := make(map[StopPair]int)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&table); err != nil {
		return err
	}
	t.table = table
	t.preferred = 0
	for _, v := range table {
		if isPreferred(v) {
			t.preferred++
		}
	}
	return nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

func TestParse_Valid(t *testing.T) {
	yml := `
graph:
  path: /var/lib/transit/graph.obj
  retainDiagnostics: true
routing:
  maxTransfers: 4
  transferSlack: 300
  nonpreferredTransferPenalty: 180
  modes: [WALK, TRANSIT, BICYCLE]
realtime:
  tripUpdatesUrl: https://example.org/gtfs-rt/trip-updates
`
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/gtfs-rt/trip-updates", cfg.Realtime.TripUpdatesURL)
	assert.Equal(t, "/var/lib/transit/graph.obj", cfg.Graph.Path)
	assert.True(t, cfg.Graph.RetainDiagnostics)
	assert.Equal(t, 4, cfg.Routing.MaxTransfers)
	assert.Equal(t, int64(300), cfg.Routing.TransferSlack)
	assert.Equal(t, []string{"WALK", "TRANSIT", "BICYCLE"}, cfg.Routing.Modes)
	// untouched fields still get defaults
	assert.Equal(t, 1.33, cfg.Routing.WalkSpeed)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("graph:\n  path: graph.obj\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Routing.MaxTransfers)
	assert.Equal(t, int64(120), cfg.Routing.TransferSlack)
	assert.Equal(t, 1.33, cfg.Routing.WalkSpeed)
	assert.Equal(t, []string{"WALK", "TRANSIT"}, cfg.Routing.Modes)
}

func TestParse_MissingGraphPath(t *testing.T) {
	_, err := Parse([]byte("routing:\n  maxTransfers: 1\n"))
	assert.Error(t, err)
}

func TestParse_RejectsNegativeValues(t *testing.T) {
	yml := `
graph:
  path: graph.obj
routing:
  transferPenalty: -5
`
	_, err := Parse([]byte(yml))
	assert.Error(t, err)
}

func TestParse_RejectsBadTripUpdatesURL(t *testing.T) {
	yml := `
graph:
  path: graph.obj
realtime:
  tripUpdatesUrl: "not a url"
`
	_, err := Parse([]byte(yml))
	assert.Error(t, err)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("graph: [not: a mapping"))
	assert.Error(t, err)
}

func TestRoutingConfig_NewRoutingRequest(t *testing.T) {
	cfg, err := Parse([]byte(`
graph:
  path: graph.obj
routing:
  maxTransfers: 3
  boardSlack: 10
  alightSlack: 20
  transferSlack: 240
  transferPenalty: 60
  nonpreferredTransferPenalty: 300
  walkSpeed: 1.5
  modes: [WALK, TRANSIT]
`))
	require.NoError(t, err)

	req := cfg.Routing.NewRoutingRequest()
	assert.Equal(t, 3, req.MaxTransfers)
	assert.Equal(t, int64(10), req.BoardSlack)
	assert.Equal(t, int64(20), req.AlightSlack)
	assert.Equal(t, int64(240), req.TransferSlack)
	assert.Equal(t, int64(60), req.TransferPenalty)
	assert.Equal(t, int64(300), req.NonpreferredTransferPenalty)
	assert.Equal(t, 1.5, req.WalkSpeed)
	assert.True(t, req.Modes.Contains(core.ModeWalk))
	assert.True(t, req.Modes.IsTransit())
	assert.False(t, req.Modes.Contains(core.ModeCar))
}

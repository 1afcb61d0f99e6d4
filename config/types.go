package config

// GraphConfig locates the persisted graph and controls build diagnostics.
type GraphConfig struct {
	Path              string `yaml:"path" validate:"required"`
	RetainDiagnostics bool   `yaml:"retainDiagnostics"`
	GTFSZip           string `yaml:"gtfsZip" validate:"omitempty,file"`
}

// RoutingConfig carries the per-search defaults a caller can override
// request by request. Slack values are seconds, penalties cost units.
type RoutingConfig struct {
	MaxTransfers                int      `yaml:"maxTransfers" validate:"gte=0"`
	BoardSlack                  int64    `yaml:"boardSlack" validate:"gte=0"`
	AlightSlack                 int64    `yaml:"alightSlack" validate:"gte=0"`
	TransferSlack               int64    `yaml:"transferSlack" validate:"gte=0"`
	TransferPenalty             int64    `yaml:"transferPenalty" validate:"gte=0"`
	NonpreferredTransferPenalty int64    `yaml:"nonpreferredTransferPenalty" validate:"gte=0"`
	WalkSpeed                   float64  `yaml:"walkSpeed" validate:"gte=0"`
	Modes                       []string `yaml:"modes"`
}

// RealtimeConfig points at the GTFS-RT feeds layered on the static
// graph.
type RealtimeConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesUrl" validate:"omitempty,url"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Graph    GraphConfig    `yaml:"graph" validate:"required"`
	Routing  RoutingConfig  `yaml:"routing"`
	Realtime RealtimeConfig `yaml:"realtime"`
}

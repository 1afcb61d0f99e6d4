package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/transit-graph/core"
)

// Load reads and validates configuration. The search order is the
// TRANSIT_GRAPH_CONFIG environment variable, then config.yml in the
// working directory.
func Load() (AppConfig, error) {
	// fold .env into the environment; missing file is fine
	_ = godotenv.Load()

	paths := []string{"config.yml"}
	if p := os.Getenv("TRANSIT_GRAPH_CONFIG"); p != "" {
		paths = []string{p}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return AppConfig{}, err
	}
	return Parse(data)
}

// Parse unmarshals, validates, and applies defaults.
func Parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	r := &cfg.Routing
	if r.MaxTransfers == 0 {
		r.MaxTransfers = 2
	}
	if r.TransferSlack == 0 {
		r.TransferSlack = 120
	}
	if r.WalkSpeed == 0 {
		r.WalkSpeed = 1.33
	}
	if len(r.Modes) == 0 {
		r.Modes = []string{string(core.ModeWalk), string(core.ModeTransit)}
	}
}

// NewRoutingRequest builds a routing request from the configured
// defaults.
func (r RoutingConfig) NewRoutingRequest() *core.RoutingRequest {
	modes := make([]core.TraverseMode, 0, len(r.Modes))
	for _, m := range r.Modes {
		modes = append(modes, core.TraverseMode(m))
	}
	req := core.NewRoutingRequest()
	req.MaxTransfers = r.MaxTransfers
	req.BoardSlack = r.BoardSlack
	req.AlightSlack = r.AlightSlack
	req.TransferSlack = r.TransferSlack
	req.TransferPenalty = r.TransferPenalty
	req.NonpreferredTransferPenalty = r.NonpreferredTransferPenalty
	req.WalkSpeed = r.WalkSpeed
	req.Modes = core.NewTraverseModeSet(modes...)
	return req
}

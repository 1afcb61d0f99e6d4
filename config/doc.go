// Package config handles build and routing configuration loading and
// validation.
//
// Configuration is loaded from config.yml (path overridable via the
// TRANSIT_GRAPH_CONFIG environment variable) and validated using struct
// tags. A .env file, when present, is folded into the environment first.
package config

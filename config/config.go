package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Claudio-NG/FROTAS/core/projection"
	"github.com/Claudio-NG/FROTAS/infra/publish"
)

// Config is the full configuration of one engine invocation.
type Config struct {
	Sources          SourcesConfig     `json:"sources"`
	Engine           projection.Config `json:"engine"`
	ExcludedStatuses []string          `json:"excluded_statuses"`
	Metrics          MetricsConfig     `json:"metrics"`
	Publish          publish.Config    `json:"publish"`
	Export           ExportConfig      `json:"export"`
}

// SourcesConfig points at the four already-normalized record files. A
// missing path means the source is absent for the run; the engine degrades
// gracefully.
type SourcesConfig struct {
	Roster      string `json:"roster"`
	Maintenance string `json:"maintenance"`
	Intake      string `json:"intake"`
	Fuel        string `json:"fuel"`
}

// Load reads the configuration file (json or yaml by extension), applies
// FROTAS_ environment overrides and validates each section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides; keys are rewritten to the dotted form
	// before unflattening, so the provider splits on "."
	if err := k.Load(env.Provider("FROTAS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "frotas_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Publish.SetDefaults()
	cfg.Export.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Publish.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Export.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

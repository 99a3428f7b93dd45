package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config represents the complete dashboard configuration
type Config struct {
	Source         SourceConfig         `toml:"source"`
	Cache          CacheConfig          `toml:"cache"`
	Analysis       AnalysisConfig       `toml:"analysis"`
	Classification ClassificationConfig `toml:"classification"`
}

// SourceConfig locates the operational workbook
type SourceConfig struct {
	Kind   string `toml:"kind"` // "file" or "minio"
	Path   string `toml:"path"`
	Bucket string `toml:"bucket"`
	Object string `toml:"object"`
	Sheet  string `toml:"sheet"`
}

// CacheConfig controls snapshot memoization
type CacheConfig struct {
	TTLSeconds int    `toml:"ttl_seconds"`
	KeyPrefix  string `toml:"key_prefix"`
}

// AnalysisConfig controls the management-view aggregation windows
type AnalysisConfig struct {
	WindowDays int `toml:"window_days"`
	TopMovers  int `toml:"top_movers"`
}

// ClassificationConfig carries the ordered keyword tables. Rule order is
// meaningful: the first matching keyword wins.
type ClassificationConfig struct {
	FallbackLocation string     `toml:"fallback_location"`
	Items            []ItemRule `toml:"items"`
	Zones            []ZoneRule `toml:"zones"`
}

// ItemRule maps an insumo keyword to a supply category
type ItemRule struct {
	Keyword  string `toml:"keyword"`
	Category string `toml:"category"`
}

// ZoneRule maps a zona keyword to a location type
type ZoneRule struct {
	Keyword  string `toml:"keyword"`
	Location string `toml:"location"`
}

// Default returns the built-in configuration matching the plant's current
// workbook layout and vocabulary.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:  "file",
			Path:  "Balance_Insumos.xlsx",
			Sheet: "Base_Operacion",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
			KeyPrefix:  "sipor",
		},
		Analysis: AnalysisConfig{
			WindowDays: 30,
			TopMovers:  5,
		},
		Classification: ClassificationConfig{
			FallbackLocation: "Yard",
			Items: []ItemRule{
				{Keyword: "Estiba", Category: "Pallets"},
				{Keyword: "Carpa", Category: "Tarps"},
				{Keyword: "Plastico", Category: "Plastics"},
				{Keyword: "Plástico", Category: "Plastics"},
				{Keyword: "Espacio", Category: "Spaces"},
			},
			Zones: []ZoneRule{
				{Keyword: "Patio", Location: "Yard"},
				{Keyword: "Bodega", Location: "Warehouse"},
			},
		},
	}
}

// Load reads configuration from a TOML file. Sections left empty fall back
// to the defaults.
func Load(filename string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = def.Source.Kind
	}
	if cfg.Source.Path == "" && cfg.Source.Kind == "file" {
		cfg.Source.Path = def.Source.Path
	}
	if cfg.Source.Sheet == "" {
		cfg.Source.Sheet = def.Source.Sheet
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = def.Cache.KeyPrefix
	}
	if cfg.Analysis.WindowDays <= 0 {
		cfg.Analysis.WindowDays = def.Analysis.WindowDays
	}
	if cfg.Analysis.TopMovers <= 0 {
		cfg.Analysis.TopMovers = def.Analysis.TopMovers
	}
	if cfg.Classification.FallbackLocation == "" {
		cfg.Classification.FallbackLocation = def.Classification.FallbackLocation
	}
	if len(cfg.Classification.Items) == 0 {
		cfg.Classification.Items = def.Classification.Items
	}
	if len(cfg.Classification.Zones) == 0 {
		cfg.Classification.Zones = def.Classification.Zones
	}
}

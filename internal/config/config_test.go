package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sipor.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "Base_Operacion", cfg.Source.Sheet)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 30, cfg.Analysis.WindowDays)
	assert.Equal(t, 5, cfg.Analysis.TopMovers)
	assert.Equal(t, "Yard", cfg.Classification.FallbackLocation)
	assert.NotEmpty(t, cfg.Classification.Items)
	assert.NotEmpty(t, cfg.Classification.Zones)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[source]
kind = "minio"
bucket = "exports"
object = "balance.xlsx"
sheet = "Operacion"

[cache]
ttl_seconds = 60
key_prefix = "plant-a"

[analysis]
window_days = 14
top_movers = 3

[classification]
fallback_location = "Unknown"

[[classification.items]]
keyword = "Estiba"
category = "Pallets"

[[classification.zones]]
keyword = "Bodega"
location = "Warehouse"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "minio", cfg.Source.Kind)
	assert.Equal(t, "exports", cfg.Source.Bucket)
	assert.Equal(t, "balance.xlsx", cfg.Source.Object)
	assert.Equal(t, "Operacion", cfg.Source.Sheet)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.Equal(t, "plant-a", cfg.Cache.KeyPrefix)
	assert.Equal(t, 14, cfg.Analysis.WindowDays)
	assert.Equal(t, 3, cfg.Analysis.TopMovers)
	assert.Equal(t, "Unknown", cfg.Classification.FallbackLocation)
	require.Len(t, cfg.Classification.Items, 1)
	assert.Equal(t, "Estiba", cfg.Classification.Items[0].Keyword)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[analysis]
window_days = 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "Base_Operacion", cfg.Source.Sheet)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 7, cfg.Analysis.WindowDays)
	assert.Equal(t, 5, cfg.Analysis.TopMovers)
	assert.NotEmpty(t, cfg.Classification.Items)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[source\nkind =")
	_, err := Load(path)
	assert.Error(t, err)
}

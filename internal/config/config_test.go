package config

import (
	"os"
	"testing"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, k := range []string{
		"BUDGETSIM_BASE_MINUTES", "BUDGETSIM_GROWTH", "BUDGETSIM_VRI_PERCENT",
		"BUDGETSIM_THEME", "BUDGETSIM_ADDR", "BUDGETSIM_LOG_LEVEL", "BUDGETSIM_DB",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20000.0, cfg.Baseline.Minutes)
	assert.Equal(t, 0.75, cfg.Proposed.BlendedRate)
	assert.False(t, Exists(), "Exists() before Save")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Baseline.Minutes = 31000
	cfg.Proposed.Mode = "separate"
	cfg.Proposed.VRIRate = 0.9
	cfg.BreakEven.ShareBasis = "baseline"
	cfg.RateCards = map[string]RateCardOverride{"regional": {VRI: 1.1, Phone: 0.7}}

	require.NoError(t, Save(cfg))
	require.True(t, Exists())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 31000.0, got.Baseline.Minutes)
	assert.Equal(t, 0.9, got.Proposed.VRIRate)
	assert.Equal(t, "baseline", got.BreakEven.ShareBasis)
	assert.Equal(t, 1.1, got.RateCards["regional"].VRI)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	require.NoError(t, Save(DefaultConfig()))
	t.Setenv("BUDGETSIM_BASE_MINUTES", "42000")
	t.Setenv("BUDGETSIM_VRI_PERCENT", "0")
	t.Setenv("BUDGETSIM_ADDR", ":9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42000.0, cfg.Baseline.Minutes)
	assert.Zero(t, cfg.Baseline.VRIPercent)
	assert.Zero(t, cfg.Proposed.VRIPercent)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoad_EnvZeroOverridesMinutesAndGrowth(t *testing.T) {
	isolate(t)
	t.Setenv("BUDGETSIM_BASE_MINUTES", "0")
	t.Setenv("BUDGETSIM_GROWTH", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Baseline.Minutes)
	assert.Zero(t, cfg.Baseline.GrowthFactor)
	// Unset variables leave the defaults alone.
	assert.Equal(t, 50.0, cfg.Baseline.VRIPercent)
}

func TestLoad_BadEnvIsAnError(t *testing.T) {
	isolate(t)
	t.Setenv("BUDGETSIM_GROWTH", "lots")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_BadEffectiveDateIsAnError(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.RateCards = map[string]RateCardOverride{
		"standard": {VRI: 0.95, Phone: 0.90, EffectiveFrom: "01/02/2026"},
	}
	require.NoError(t, Save(cfg))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effective_from")
}

func TestScenario_DefaultsProjectToReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Proposed.Mode = "separate"

	s, err := cfg.Scenario(time.Time{})
	require.NoError(t, err)
	p, err := engine.Project(s)
	require.NoError(t, err)
	assert.InDelta(t, 198000, p.Baseline.Annual, 1e-6)
}

func TestScenario_UnknownRateCard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Baseline.RateCard = "missing"

	_, err := cfg.Scenario(time.Now())
	require.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestScenario_BadEffectiveDate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateCards = map[string]RateCardOverride{
		"regional": {VRI: 1.1, Phone: 0.7, EffectiveFrom: "soon"},
	}

	_, err := cfg.Scenario(time.Now())
	require.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestHistoryPath(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.HistoryPath())

	cfg.History.DBPath = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.HistoryPath())
}

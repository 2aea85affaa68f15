package cmd

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/drubhattacharya/budget-simulator/internal/engine"
	"github.com/drubhattacharya/budget-simulator/internal/store"

	"github.com/spf13/cobra"
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

// scenarioCmd returns a throwaway command with the shared flags parsed
// from args. Registering the flags also resets the package-level values.
func scenarioCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addScenarioFlags(c.Flags())
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestLoadScenario_Defaults(t *testing.T) {
	isolate(t)

	_, s, err := loadScenario(scenarioCmd(t))
	require.NoError(t, err)

	assert.Equal(t, 20000.0, s.BaseMinutes)
	assert.Equal(t, engine.DefaultGrowthFactor, s.GrowthFactor)
	assert.Equal(t, engine.Separate{VRI: 0.85, Phone: 0.80}, s.Reference)
	assert.Equal(t, engine.Blended{Rate: 0.75}, s.Proposed)
	assert.Equal(t, engine.BasisCurrent, s.Basis)
}

func TestLoadScenario_FlagsOverrideConfig(t *testing.T) {
	isolate(t)

	_, s, err := loadScenario(scenarioCmd(t,
		"--minutes", "10000",
		"--growth", "1",
		"--vri-pct", "70",
		"--vri-rate", "0.9",
		"--ref-phone-rate", "0.7",
		"--share-basis", "baseline",
	))
	require.NoError(t, err)

	assert.Equal(t, 10000.0, s.BaseMinutes)
	assert.Equal(t, 1.0, s.GrowthFactor)
	assert.Equal(t, engine.NewSplit(70), s.Split)
	assert.Equal(t, engine.NewSplit(70), s.BaselineSplit)
	assert.Equal(t, engine.Separate{VRI: 0.9, Phone: 0.80}, s.Proposed)
	assert.Equal(t, engine.Separate{VRI: 0.85, Phone: 0.7}, s.Reference)
	assert.Equal(t, engine.BasisBaseline, s.Basis)
}

func TestLoadScenario_BaselineSplitFlag(t *testing.T) {
	isolate(t)

	_, s, err := loadScenario(scenarioCmd(t, "--vri-pct", "70", "--baseline-vri-pct", "40"))
	require.NoError(t, err)
	assert.Equal(t, engine.NewSplit(70), s.Split)
	assert.Equal(t, engine.NewSplit(40), s.BaselineSplit)
}

func TestLoadScenario_RejectsConflictingRates(t *testing.T) {
	isolate(t)

	_, _, err := loadScenario(scenarioCmd(t, "--blended", "0.7", "--vri-rate", "0.8"))
	require.Error(t, err)
}

func TestLoadScenario_UnknownRateCard(t *testing.T) {
	isolate(t)

	_, _, err := loadScenario(scenarioCmd(t, "--rate-card", "platinum"))
	require.ErrorIs(t, err, engine.ErrInvalidInput)
}

func TestSaveIfRequested(t *testing.T) {
	isolate(t)

	cfg, s, err := loadScenario(scenarioCmd(t, "--save", "--name", "q3 offer", "--quiet"))
	require.NoError(t, err)
	p, err := engine.Project(s)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, saveIfRequested(ctx, cfg, s, p))

	st, err := store.Open(ctx, cfg.HistoryPath())
	require.NoError(t, err)
	defer st.Close()

	items, err := st.ListScenarios(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "q3 offer", items[0].Name)
	assert.InDelta(t, p.Savings.Annual, items[0].SavingsAnnual, 1e-9)
}

func TestSaveIfRequested_HistoryDisabled(t *testing.T) {
	isolate(t)

	cfg, s, err := loadScenario(scenarioCmd(t, "--save"))
	require.NoError(t, err)
	cfg.History.Enabled = false

	p, err := engine.Project(s)
	require.NoError(t, err)
	require.Error(t, saveIfRequested(context.Background(), cfg, s, p))
}

func TestSweepRates(t *testing.T) {
	isolate(t)

	_, s, err := loadScenario(scenarioCmd(t))
	require.NoError(t, err)

	rows, err := sweepRates(s, 0.60, 0.80, 0.05)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.InDelta(t, 0.80, rows[4].rate, 1e-12)

	// Savings fall as the blended rate rises.
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i].savings.Annual, rows[i-1].savings.Annual)
	}

	// 0.65 is under the 0.6875 break-even, 0.70 is over it.
	assert.Positive(t, rows[1].savings.Annual)
	assert.Negative(t, rows[2].savings.Annual)
}

func TestSweepRates_Validation(t *testing.T) {
	s := engine.Scenario{}
	_, err := sweepRates(s, 0.5, 1.0, 0)
	require.Error(t, err)
	_, err = sweepRates(s, 1.0, 0.5, 0.1)
	require.Error(t, err)
	_, err = sweepRates(s, 0, 100, 0.001)
	require.Error(t, err)
}

func TestSweepRates_RejectsUnboundedRanges(t *testing.T) {
	s := engine.Scenario{}
	for _, tc := range []struct{ from, to, step float64 }{
		{0.5, math.Inf(1), 0.05},
		{0.5, 1e30, 0.05},
		{0.5, 1.0, math.NaN()},
		{math.NaN(), 1.0, 0.05},
		{0, math.MaxFloat64, 1e-300},
	} {
		assert.NotPanics(t, func() {
			_, err := sweepRates(s, tc.from, tc.to, tc.step)
			assert.Error(t, err)
		})
	}
}

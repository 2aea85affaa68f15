package config

import (
	"testing"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(effectiveDateLayout, s)
	require.NoError(t, err)
	return d
}

func TestLookupRateCardAt_UsesEffectiveDate(t *testing.T) {
	name := "test-card-windowed"
	defer delete(defaultRateCardHistory, name)

	defaultRateCardHistory[name] = []rateCardVersion{
		{
			EffectiveFrom: mustDate(t, "2025-01-01"),
			Card:          RateCard{VRI: 1.0, Phone: 0.5},
		},
		{
			EffectiveFrom: mustDate(t, "2025-07-01"),
			Card:          RateCard{VRI: 2.0, Phone: 0.5},
		},
	}

	cfg := DefaultConfig()
	apr, ok := cfg.LookupRateCardAt(name, mustDate(t, "2025-04-15"))
	require.True(t, ok)
	assert.Equal(t, 1.0, apr.VRI)

	aug, ok := cfg.LookupRateCardAt(name, mustDate(t, "2025-08-15"))
	require.True(t, ok)
	assert.Equal(t, 2.0, aug.VRI)

	latest, _ := cfg.LookupRateCardAt(name, time.Time{})
	assert.Equal(t, 2.0, latest.VRI)
}

func TestLookupRateCard_NormalizesName(t *testing.T) {
	card, ok := DefaultConfig().LookupRateCard(" Legacy_Blended ")
	require.True(t, ok)
	assert.Equal(t, 0.825, card.Blended)
	assert.IsType(t, engine.Blended{}, card.Mode())
}

func TestLookupRateCard_Unknown(t *testing.T) {
	_, ok := DefaultConfig().LookupRateCard("nope")
	assert.False(t, ok)
}

func TestLookupRateCardAt_DatedOverrideLayersOnHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateCards = map[string]RateCardOverride{
		"standard": {VRI: 0.95, Phone: 0.90, EffectiveFrom: "2026-01-01"},
	}

	before, _ := cfg.LookupRateCardAt("standard", mustDate(t, "2025-12-31"))
	assert.Equal(t, 0.85, before.VRI)

	after, _ := cfg.LookupRateCardAt("standard", mustDate(t, "2026-03-01"))
	assert.Equal(t, 0.95, after.VRI)
	assert.Equal(t, 0.90, after.Phone)
}

func TestLookupRateCard_UndatedOverrideReplaces(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateCards = map[string]RateCardOverride{
		"regional": {VRI: 1.10, Phone: 0.70},
	}

	card, ok := cfg.LookupRateCard("regional")
	require.True(t, ok)
	assert.Equal(t, 1.10, card.VRI)
	assert.Equal(t, []string{"legacy-blended", "regional", "standard"}, cfg.RateCardNames())
}

func TestValidateRateCards(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateCards = map[string]RateCardOverride{
		"standard": {VRI: 0.95, Phone: 0.90, EffectiveFrom: "2026-01-01"},
		"regional": {VRI: 1.10, Phone: 0.70},
	}
	require.NoError(t, cfg.validateRateCards())

	cfg.RateCards["regional"] = RateCardOverride{VRI: 1.10, Phone: 0.70, EffectiveFrom: "2026-13-01"}
	err := cfg.validateRateCards()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"regional"`)
}

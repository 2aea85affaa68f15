package model

import (
	"testing"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedScenario_RerunsToSameResult(t *testing.T) {
	s := engine.Scenario{
		BaseMinutes:   20000,
		GrowthFactor:  1.2,
		BaselineSplit: engine.NewSplit(50),
		Split:         engine.NewSplit(65),
		Reference:     engine.Separate{VRI: 0.85, Phone: 0.80},
		Proposed:      engine.Blended{Rate: 0.75},
		Basis:         engine.BasisBaseline,
	}
	p, err := engine.Project(s)
	require.NoError(t, err)

	rec := NewSavedScenario("q3", s, p, time.Now())
	assert.Equal(t, "blended", rec.ProposedMode)
	assert.Equal(t, "baseline", rec.ShareBasis)
	require.NotNil(t, rec.BreakEvenRate)

	again, err := rec.Scenario()
	require.NoError(t, err)
	p2, err := engine.Project(again)
	require.NoError(t, err)
	assert.Equal(t, p.Savings.Annual, p2.Savings.Annual)
}

func TestSavedScenario_UndefinedBreakEvenIsNil(t *testing.T) {
	s := engine.Scenario{
		BaseMinutes:   0,
		GrowthFactor:  1.2,
		BaselineSplit: engine.NewSplit(50),
		Split:         engine.NewSplit(50),
		Reference:     engine.Blended{Rate: 0.825},
		Proposed:      engine.Blended{Rate: 0.75},
	}
	p, err := engine.Project(s)
	require.NoError(t, err)

	rec := NewSavedScenario("", s, p, time.Now())
	assert.Nil(t, rec.BreakEvenRate)
}

package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceScenario() Scenario {
	return Scenario{
		BaseMinutes:   20000,
		GrowthFactor:  DefaultGrowthFactor,
		BaselineSplit: NewSplit(50),
		Split:         NewSplit(50),
		Reference:     Separate{VRI: 0.85, Phone: 0.80},
		Proposed:      Separate{VRI: 0.85, Phone: 0.80},
	}
}

func TestProject_ReferenceScenario(t *testing.T) {
	p, err := Project(referenceScenario())
	require.NoError(t, err)

	assertRel(t, 24000, p.GrownMinutes)
	assertRel(t, 198000, p.Baseline.Annual)
	assertRel(t, 237600, p.Projected.Annual)
	assertRel(t, -39600, p.Savings.Annual)
	assertRel(t, -3300, p.Savings.Monthly)

	require.True(t, p.BreakEvenBlended.Defined)
	assertRel(t, 0.6875, p.BreakEvenBlended.Rate)
}

func TestProject_BreakEvenRatesRestoreBaseline(t *testing.T) {
	s := referenceScenario()
	s.Split = NewSplit(70)

	p, err := Project(s)
	require.NoError(t, err)

	s.Proposed = Blended{Rate: p.BreakEvenBlended.Rate}
	blended, err := Project(s)
	require.NoError(t, err)
	assertRel(t, 0, blended.Savings.Annual/blended.Baseline.Annual)

	s.Proposed = Separate{VRI: p.BreakEvenModal.VRI.Rate, Phone: p.BreakEvenModal.Phone.Rate}
	modal, err := Project(s)
	require.NoError(t, err)
	assertRel(t, modal.Baseline.Annual, modal.Projected.Annual)
}

func TestProject_ShareBasisChangesModalRates(t *testing.T) {
	s := referenceScenario()
	s.Reference = Separate{VRI: 1.20, Phone: 0.60}
	s.BaselineSplit = NewSplit(20)
	s.Split = NewSplit(80)

	current, err := Project(s)
	require.NoError(t, err)

	s.Basis = BasisBaseline
	baseline, err := Project(s)
	require.NoError(t, err)

	assert.NotEqual(t, current.BreakEvenModal.VRI.Rate, baseline.BreakEvenModal.VRI.Rate)

	// Either basis must still restore the baseline annual cost.
	for _, p := range []Projection{current, baseline} {
		cost, err := ComputeCost(p.GrownMinutes, s.Split,
			Separate{VRI: p.BreakEvenModal.VRI.Rate, Phone: p.BreakEvenModal.Phone.Rate})
		require.NoError(t, err)
		assertRel(t, p.Baseline.Annual, cost.Annual)
	}
}

func TestProject_ZeroGrowthLeavesBlendedUndefined(t *testing.T) {
	s := referenceScenario()
	s.GrowthFactor = 0

	p, err := Project(s)
	require.NoError(t, err)
	assert.False(t, p.BreakEvenBlended.Defined)
	assert.False(t, p.BreakEvenModal.VRI.Defined)
	assert.False(t, p.BreakEvenModal.Phone.Defined)
}

func TestProject_BaselineBasisWithIdleModalityRestoresBaseline(t *testing.T) {
	s := referenceScenario()
	s.Split = NewSplit(0)
	s.Basis = BasisBaseline

	p, err := Project(s)
	require.NoError(t, err)
	require.False(t, p.BreakEvenModal.VRI.Defined)
	assertRel(t, 0.6875, p.BreakEvenModal.Phone.Rate)
	assertRel(t, 1, p.Shares.Phone)

	cost, err := ComputeCost(p.GrownMinutes, s.Split, Separate{VRI: 0, Phone: p.BreakEvenModal.Phone.Rate})
	require.NoError(t, err)
	assertRel(t, p.Baseline.Annual, cost.Annual)
}

func TestProject_OverflowIsInvalidInput(t *testing.T) {
	s := referenceScenario()
	s.BaseMinutes = 1e300
	s.Proposed = Blended{Rate: 1e10}

	_, err := Project(s)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProject_InvalidInputIsWrapped(t *testing.T) {
	s := referenceScenario()
	s.Proposed = Blended{Rate: -0.5}

	_, err := Project(s)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "projected cost")
}

func TestProject_ConcurrentCallsAreIndependent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Projection, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := referenceScenario()
			s.BaseMinutes = float64(1000 * (i + 1))
			p, err := Project(s)
			if err == nil {
				results[i] = p
			}
		}(i)
	}
	wg.Wait()

	for i, p := range results {
		assertRel(t, float64(1000*(i+1))*0.825*12, p.Baseline.Annual)
	}
}

func TestParseShareBasis(t *testing.T) {
	b, err := ParseShareBasis("Baseline")
	require.NoError(t, err)
	assert.Equal(t, BasisBaseline, b)

	b, err = ParseShareBasis("")
	require.NoError(t, err)
	assert.Equal(t, BasisCurrent, b)

	_, err = ParseShareBasis("yearly")
	require.ErrorIs(t, err, ErrInvalidInput)
}

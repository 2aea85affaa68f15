package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evenSplit = NewSplit(50)

func assertRel(t *testing.T, want, got float64) {
	t.Helper()
	if want == 0 {
		assert.InDelta(t, 0, got, 1e-9)
		return
	}
	assert.InEpsilon(t, want, got, 1e-6)
}

func TestComputeCost_ReferenceScenario(t *testing.T) {
	cost, err := ComputeCost(20000, evenSplit, Separate{VRI: 0.85, Phone: 0.80})
	require.NoError(t, err)

	assertRel(t, 16500.00, cost.Monthly)
	assertRel(t, 198000.00, cost.Annual)
}

func TestComputeCost_ZeroMinutes(t *testing.T) {
	cost, err := ComputeCost(0, NewSplit(30), Separate{VRI: 1.10, Phone: 0.65})
	require.NoError(t, err)
	assert.Equal(t, Cost{}, cost)
}

func TestComputeCost_Linear(t *testing.T) {
	rates := Separate{VRI: 0.92, Phone: 0.71}
	split := NewSplit(35)

	base, err := ComputeCost(1234, split, rates)
	require.NoError(t, err)

	for _, k := range []float64{0, 0.5, 2, 3.7, 10} {
		scaled, err := ComputeCost(1234*k, split, rates)
		require.NoError(t, err)
		assertRel(t, k*base.Monthly, scaled.Monthly)
		assertRel(t, k*base.Annual, scaled.Annual)
	}
}

func TestComputeCost_AllVRICollapsesToSingleRate(t *testing.T) {
	cost, err := ComputeCost(18000, NewSplit(100), Separate{VRI: 0.9, Phone: 123})
	require.NoError(t, err)
	assertRel(t, 18000*0.9, cost.Monthly)
}

func TestComputeCost_BlendedMatchesEqualSeparateRates(t *testing.T) {
	split := NewSplit(62.5)
	blended, err := ComputeCost(9000, split, Blended{Rate: 0.77})
	require.NoError(t, err)
	separate, err := ComputeCost(9000, split, Separate{VRI: 0.77, Phone: 0.77})
	require.NoError(t, err)
	assertRel(t, separate.Monthly, blended.Monthly)
}

func TestComputeCost_InvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		minutes float64
		split   Split
		mode    RateMode
	}{
		{"negative minutes", -1, evenSplit, Blended{Rate: 1}},
		{"negative vri rate", 10, evenSplit, Separate{VRI: -0.1, Phone: 1}},
		{"negative blended rate", 10, evenSplit, Blended{Rate: -2}},
		{"split over 100", 10, Split{VRIPercent: 60, PhonePercent: 60}, Blended{Rate: 1}},
		{"split out of range", 10, Split{VRIPercent: 120, PhonePercent: -20}, Blended{Rate: 1}},
		{"nan minutes", math.NaN(), evenSplit, Blended{Rate: 1}},
		{"missing mode", 10, evenSplit, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeCost(tc.minutes, tc.split, tc.mode)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestApplyGrowth(t *testing.T) {
	grown, err := ApplyGrowth(20000, DefaultGrowthFactor)
	require.NoError(t, err)
	assertRel(t, 24000, grown)

	same, err := ApplyGrowth(20000, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, same)

	_, err = ApplyGrowth(-5, 1.2)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = ApplyGrowth(5, -1.2)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeSavings_Identity(t *testing.T) {
	x := Cost{Monthly: 16500, Annual: 198000}
	s := ComputeSavings(x, x)
	assert.Equal(t, 0.0, s.Monthly)
	assert.Equal(t, 0.0, s.Annual)
	assert.False(t, s.IsLoss())
}

func TestComputeSavings_SignPreserved(t *testing.T) {
	s := ComputeSavings(Cost{Monthly: 100, Annual: 1200}, Cost{Monthly: 150, Annual: 1800})
	assert.Equal(t, -50.0, s.Monthly)
	assert.Equal(t, -600.0, s.Annual)
	assert.True(t, s.IsLoss())
}

func TestGrowthAtSameRatesIsALoss(t *testing.T) {
	rates := Separate{VRI: 0.85, Phone: 0.80}
	baseline, err := ComputeCost(20000, evenSplit, rates)
	require.NoError(t, err)

	grown, err := ApplyGrowth(20000, 1.20)
	require.NoError(t, err)

	projected, err := ComputeCost(grown, evenSplit, rates)
	require.NoError(t, err)
	assertRel(t, 19800.00, projected.Monthly)
	assertRel(t, 237600.00, projected.Annual)

	savings := ComputeSavings(baseline, projected)
	assertRel(t, -39600.00, savings.Annual)
	assert.True(t, savings.IsLoss())
}

func TestComputeBreakEvenRate_RoundTrip(t *testing.T) {
	rate, err := ComputeBreakEvenRate(198000, 24000*12)
	require.NoError(t, err)
	assertRel(t, 0.6875, rate)

	cost, err := ComputeCost(24000, evenSplit, Blended{Rate: rate})
	require.NoError(t, err)
	assertRel(t, 198000, cost.Annual)
}

func TestComputeBreakEvenRate_ZeroVolume(t *testing.T) {
	_, err := ComputeBreakEvenRate(198000, 0)
	require.ErrorIs(t, err, ErrUndefinedBreakEven)

	_, err = ComputeBreakEvenRate(-1, 10)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeBreakEvenRate_RoundTripGrid(t *testing.T) {
	for _, baseCost := range []float64{0, 1, 5000, 198000, 1.5e7} {
		for _, minutes := range []float64{1, 333, 24000, 1e6} {
			rate, err := ComputeBreakEvenRate(baseCost, minutes*12)
			require.NoError(t, err)

			cost, err := ComputeCost(minutes, NewSplit(40), Blended{Rate: rate})
			require.NoError(t, err)
			assertRel(t, baseCost, cost.Annual)
		}
	}
}

func TestComputeModalBreakEven_NoVRIVolume(t *testing.T) {
	split := NewSplit(0)
	shares, err := CostShares(split, Separate{VRI: 0.85, Phone: 0.80})
	require.NoError(t, err)

	modal, err := ComputeModalBreakEven(198000, 24000, split, shares)
	require.NoError(t, err)

	phone, err := modal.PhoneRate()
	require.NoError(t, err)
	assertRel(t, 198000/(24000.0*12), phone)

	_, err = modal.VRIRate()
	require.ErrorIs(t, err, ErrUndefinedBreakEven)
	assert.False(t, math.IsInf(modal.VRI.Rate, 0) || math.IsNaN(modal.VRI.Rate))
}

func TestComputeModalBreakEven_RoundTrip(t *testing.T) {
	reference := Separate{VRI: 0.85, Phone: 0.80}
	for _, vriPct := range []float64{10, 50, 73.5, 100} {
		split := NewSplit(vriPct)
		shares, err := CostShares(split, reference)
		require.NoError(t, err)

		modal, err := ComputeModalBreakEven(198000, 24000, split, shares)
		require.NoError(t, err)

		vri, _ := modal.VRIRate()
		phone, _ := modal.PhoneRate()
		cost, err := ComputeCost(24000, split, Separate{VRI: vri, Phone: phone})
		require.NoError(t, err)
		assertRel(t, 198000, cost.Annual)
	}
}

func TestComputeModalBreakEven_PreservesReferenceRatio(t *testing.T) {
	reference := Separate{VRI: 1.00, Phone: 0.50}
	split := NewSplit(50)
	shares, err := CostShares(split, reference)
	require.NoError(t, err)

	modal, err := ComputeModalBreakEven(120000, 12000, split, shares)
	require.NoError(t, err)
	assertRel(t, 2, modal.VRI.Rate/modal.Phone.Rate)
}

func TestCostShares_ZeroReferenceFallsBackToVolume(t *testing.T) {
	shares, err := CostShares(NewSplit(25), Blended{Rate: 0})
	require.NoError(t, err)
	assertRel(t, 0.25, shares.VRI)
	assertRel(t, 0.75, shares.Phone)
}

func TestComputeCost_OverflowIsInvalid(t *testing.T) {
	_, err := ComputeCost(1e300, evenSplit, Blended{Rate: 1e10})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyGrowth_OverflowIsInvalid(t *testing.T) {
	_, err := ApplyGrowth(1e308, 1.2)
	require.ErrorIs(t, err, ErrInvalidInput)

	// Finite monthly volume whose annual total overflows.
	_, err = ApplyGrowth(math.MaxFloat64/10, 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeBreakEvenRate_OverflowIsInvalid(t *testing.T) {
	_, err := ComputeBreakEvenRate(1e300, 1e-300)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestShares_OnVolume(t *testing.T) {
	shares := Shares{VRI: 0.6, Phone: 0.4}

	assert.Equal(t, shares, shares.OnVolume(NewSplit(30)))
	assert.Equal(t, Shares{Phone: 1}, shares.OnVolume(NewSplit(0)))
	assert.Equal(t, Shares{VRI: 1}, shares.OnVolume(NewSplit(100)))
}

func TestComputeModalBreakEven_ShareOfIdleModalityMovesOver(t *testing.T) {
	// Shares priced on a 50/50 split, but no VRI volume remains.
	shares, err := CostShares(NewSplit(50), Separate{VRI: 0.85, Phone: 0.80})
	require.NoError(t, err)

	modal, err := ComputeModalBreakEven(198000, 24000, NewSplit(0), shares)
	require.NoError(t, err)
	assert.False(t, modal.VRI.Defined)
	assertRel(t, 198000/(24000.0*12), modal.Phone.Rate)
}

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ShareBasis selects which modality split apportions the baseline cost when
// computing per-modality break-even rates.
type ShareBasis int

const (
	// BasisCurrent uses the current (user-adjusted) split.
	BasisCurrent ShareBasis = iota
	// BasisBaseline uses the pre-renegotiation, pre-growth split.
	BasisBaseline
)

func (b ShareBasis) String() string {
	if b == BasisBaseline {
		return "baseline"
	}
	return "current"
}

// ParseShareBasis accepts "current" or "baseline" (case-insensitive).
// An empty string means BasisCurrent.
func ParseShareBasis(s string) (ShareBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current":
		return BasisCurrent, nil
	case "baseline":
		return BasisBaseline, nil
	}
	return BasisCurrent, invalidf("unknown share basis %q (want current or baseline)", s)
}

// Scenario is one complete, immutable set of inputs.
type Scenario struct {
	BaseMinutes   float64
	GrowthFactor  float64
	BaselineSplit Split
	Split         Split
	Reference     RateMode
	Proposed      RateMode
	Basis         ShareBasis
}

// Projection is everything derived from a Scenario.
type Projection struct {
	GrownMinutes     float64        `json:"grown_minutes"`
	Baseline         Cost           `json:"baseline"`
	Projected        Cost           `json:"projected"`
	Savings          Savings        `json:"savings"`
	Shares           Shares         `json:"shares"`
	BreakEvenBlended BreakEven      `json:"break_even_blended"`
	BreakEvenModal   ModalBreakEven `json:"break_even_modal"`
}

// Project runs the full pipeline: baseline cost at reference rates, growth,
// projected cost at proposed rates, savings and break-even rates.
func Project(s Scenario) (Projection, error) {
	baseline, err := ComputeCost(s.BaseMinutes, s.BaselineSplit, s.Reference)
	if err != nil {
		return Projection{}, fmt.Errorf("baseline cost: %w", err)
	}

	grown, err := ApplyGrowth(s.BaseMinutes, s.GrowthFactor)
	if err != nil {
		return Projection{}, fmt.Errorf("growth: %w", err)
	}

	projected, err := ComputeCost(grown, s.Split, s.Proposed)
	if err != nil {
		return Projection{}, fmt.Errorf("projected cost: %w", err)
	}

	shareSplit := s.Split
	if s.Basis == BasisBaseline {
		shareSplit = s.BaselineSplit
	}
	shares, err := CostShares(shareSplit, s.Reference)
	if err != nil {
		return Projection{}, fmt.Errorf("cost shares: %w", err)
	}

	shares = shares.OnVolume(s.Split)
	modal, err := ComputeModalBreakEven(baseline.Annual, grown, s.Split, shares)
	if err != nil {
		return Projection{}, fmt.Errorf("modal break-even: %w", err)
	}

	p := Projection{
		GrownMinutes:   grown,
		Baseline:       baseline,
		Projected:      projected,
		Savings:        ComputeSavings(baseline, projected),
		Shares:         shares,
		BreakEvenModal: modal,
	}

	// Zero grown volume leaves the blended rate undefined; that is a display
	// state, not a failed projection.
	rate, err := ComputeBreakEvenRate(baseline.Annual, grown*MonthsPerYear)
	switch {
	case err == nil:
		p.BreakEvenBlended = BreakEven{Rate: rate, Defined: true}
	case !errors.Is(err, ErrUndefinedBreakEven):
		return Projection{}, fmt.Errorf("break-even: %w", err)
	}

	return p, nil
}

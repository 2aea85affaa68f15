// Package model defines the saved-scenario record shared by the history
// store, the HTTP API and the dashboard.
package model

import (
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"
)

// SavedScenario is one projection as it was run: the inputs needed to
// reproduce it and the headline results at the time.
type SavedScenario struct {
	ID      int64     `json:"id" yaml:"id"`
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	BaseMinutes        float64 `json:"base_minutes" yaml:"base_minutes"`
	GrowthFactor       float64 `json:"growth_factor" yaml:"growth_factor"`
	BaselineVRIPercent float64 `json:"baseline_vri_percent" yaml:"baseline_vri_percent"`
	VRIPercent         float64 `json:"vri_percent" yaml:"vri_percent"`
	ShareBasis         string  `json:"share_basis" yaml:"share_basis"`

	ReferenceMode  string  `json:"reference_mode" yaml:"reference_mode"`
	ReferenceVRI   float64 `json:"reference_vri_rate" yaml:"reference_vri_rate"`
	ReferencePhone float64 `json:"reference_phone_rate" yaml:"reference_phone_rate"`

	ProposedMode  string  `json:"proposed_mode" yaml:"proposed_mode"`
	ProposedVRI   float64 `json:"proposed_vri_rate" yaml:"proposed_vri_rate"`
	ProposedPhone float64 `json:"proposed_phone_rate" yaml:"proposed_phone_rate"`

	BaselineAnnual  float64  `json:"baseline_annual" yaml:"baseline_annual"`
	ProjectedAnnual float64  `json:"projected_annual" yaml:"projected_annual"`
	SavingsMonthly  float64  `json:"savings_monthly" yaml:"savings_monthly"`
	SavingsAnnual   float64  `json:"savings_annual" yaml:"savings_annual"`
	BreakEvenRate   *float64 `json:"break_even_rate,omitempty" yaml:"break_even_rate,omitempty"`
}

// NewSavedScenario captures a scenario and its projection.
func NewSavedScenario(name string, s engine.Scenario, p engine.Projection, at time.Time) SavedScenario {
	refVRI, refPhone := engine.EffectiveRates(s.Reference)
	propVRI, propPhone := engine.EffectiveRates(s.Proposed)

	rec := SavedScenario{
		Name:               name,
		SavedAt:            at.UTC(),
		BaseMinutes:        s.BaseMinutes,
		GrowthFactor:       s.GrowthFactor,
		BaselineVRIPercent: s.BaselineSplit.VRIPercent,
		VRIPercent:         s.Split.VRIPercent,
		ShareBasis:         s.Basis.String(),
		ReferenceMode:      engine.ModeName(s.Reference),
		ReferenceVRI:       refVRI,
		ReferencePhone:     refPhone,
		ProposedMode:       engine.ModeName(s.Proposed),
		ProposedVRI:        propVRI,
		ProposedPhone:      propPhone,
		BaselineAnnual:     p.Baseline.Annual,
		ProjectedAnnual:    p.Projected.Annual,
		SavingsMonthly:     p.Savings.Monthly,
		SavingsAnnual:      p.Savings.Annual,
	}
	if p.BreakEvenBlended.Defined {
		r := p.BreakEvenBlended.Rate
		rec.BreakEvenRate = &r
	}
	return rec
}

// Scenario rebuilds the engine inputs so the projection can be rerun.
func (r SavedScenario) Scenario() (engine.Scenario, error) {
	basis, err := engine.ParseShareBasis(r.ShareBasis)
	if err != nil {
		return engine.Scenario{}, err
	}
	return engine.Scenario{
		BaseMinutes:   r.BaseMinutes,
		GrowthFactor:  r.GrowthFactor,
		BaselineSplit: engine.NewSplit(r.BaselineVRIPercent),
		Split:         engine.NewSplit(r.VRIPercent),
		Reference:     modeFrom(r.ReferenceMode, r.ReferenceVRI, r.ReferencePhone),
		Proposed:      modeFrom(r.ProposedMode, r.ProposedVRI, r.ProposedPhone),
		Basis:         basis,
	}, nil
}

func modeFrom(name string, vri, phone float64) engine.RateMode {
	if name == "blended" {
		return engine.Blended{Rate: vri}
	}
	return engine.Separate{VRI: vri, Phone: phone}
}

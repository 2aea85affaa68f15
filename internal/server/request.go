package server

import (
	"fmt"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/engine"
)

// RatesJSON is the wire form of an engine.RateMode. Mode is "blended" or
// "separate"; for blended only Rate is read.
type RatesJSON struct {
	Mode      string   `json:"mode"`
	Rate      *float64 `json:"rate,omitempty"`
	VRIRate   *float64 `json:"vri_rate,omitempty"`
	PhoneRate *float64 `json:"phone_rate,omitempty"`
}

// ProjectRequest overlays the server defaults. Omitted fields keep the
// default value.
type ProjectRequest struct {
	BaseMinutes        *float64   `json:"base_minutes,omitempty"`
	GrowthFactor       *float64   `json:"growth_factor,omitempty"`
	BaselineVRIPercent *float64   `json:"baseline_vri_percent,omitempty"`
	VRIPercent         *float64   `json:"vri_percent,omitempty"`
	Reference          *RatesJSON `json:"reference,omitempty"`
	Proposed           *RatesJSON `json:"proposed,omitempty"`
	ShareBasis         string     `json:"share_basis,omitempty"`

	Save bool   `json:"save,omitempty"`
	Name string `json:"name,omitempty"`
}

func ratesToJSON(m engine.RateMode) *RatesJSON {
	switch v := m.(type) {
	case engine.Blended:
		return &RatesJSON{Mode: "blended", Rate: &v.Rate}
	case engine.Separate:
		return &RatesJSON{Mode: "separate", VRIRate: &v.VRI, PhoneRate: &v.Phone}
	}
	return nil
}

func (r *RatesJSON) overlay(base engine.RateMode) (engine.RateMode, error) {
	if r == nil {
		return base, nil
	}
	baseVRI, basePhone := engine.EffectiveRates(base)

	mode := strings.ToLower(strings.TrimSpace(r.Mode))
	if mode == "" {
		mode = engine.ModeName(base)
	}

	switch mode {
	case "blended":
		rate := baseVRI
		if r.Rate != nil {
			rate = *r.Rate
		}
		return engine.Blended{Rate: rate}, nil
	case "separate":
		out := engine.Separate{VRI: baseVRI, Phone: basePhone}
		if r.VRIRate != nil {
			out.VRI = *r.VRIRate
		}
		if r.PhoneRate != nil {
			out.Phone = *r.PhoneRate
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown rate mode %q", engine.ErrInvalidInput, r.Mode)
}

// scenario builds an independent engine scenario from the defaults and the
// request; nothing is shared with other requests.
func (req ProjectRequest) scenario(defaults engine.Scenario) (engine.Scenario, error) {
	s := defaults

	if req.BaseMinutes != nil {
		s.BaseMinutes = *req.BaseMinutes
	}
	if req.GrowthFactor != nil {
		s.GrowthFactor = *req.GrowthFactor
	}
	if req.BaselineVRIPercent != nil {
		s.BaselineSplit = engine.NewSplit(*req.BaselineVRIPercent)
	}
	if req.VRIPercent != nil {
		s.Split = engine.NewSplit(*req.VRIPercent)
	}

	var err error
	if s.Reference, err = req.Reference.overlay(defaults.Reference); err != nil {
		return s, fmt.Errorf("reference: %w", err)
	}
	if s.Proposed, err = req.Proposed.overlay(defaults.Proposed); err != nil {
		return s, fmt.Errorf("proposed: %w", err)
	}
	if req.ShareBasis != "" {
		if s.Basis, err = engine.ParseShareBasis(req.ShareBasis); err != nil {
			return s, err
		}
	}
	return s, nil
}

func defaultsRequest(s engine.Scenario) ProjectRequest {
	return ProjectRequest{
		BaseMinutes:        &s.BaseMinutes,
		GrowthFactor:       &s.GrowthFactor,
		BaselineVRIPercent: &s.BaselineSplit.VRIPercent,
		VRIPercent:         &s.Split.VRIPercent,
		Reference:          ratesToJSON(s.Reference),
		Proposed:           ratesToJSON(s.Proposed),
		ShareBasis:         s.Basis.String(),
	}
}

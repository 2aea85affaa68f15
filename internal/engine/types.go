// Package engine computes interpreter-service costs, savings and break-even rates.
//
// Every function is pure: results depend only on the arguments, and nothing is
// kept between calls. Hosts (CLI, TUI, HTTP) build a Scenario from their own
// inputs and call Project once per input change.
package engine

import "math"

const (
	// MonthsPerYear converts monthly figures to annual ones.
	MonthsPerYear = 12

	// DefaultGrowthFactor models the 20% volume increase used by the baseline scenario.
	DefaultGrowthFactor = 1.20

	// splitTolerance absorbs float noise when checking that a split sums to 100.
	splitTolerance = 1e-9
)

// Split is the share of minutes handled by each modality, in percent.
type Split struct {
	VRIPercent   float64 `json:"vri_percent" yaml:"vri_percent"`
	PhonePercent float64 `json:"phone_percent" yaml:"phone_percent"`
}

// NewSplit returns a split with the phone share derived as 100 - vriPercent.
func NewSplit(vriPercent float64) Split {
	return Split{VRIPercent: vriPercent, PhonePercent: 100 - vriPercent}
}

// Validate reports ErrInvalidInput when a share is outside [0,100] or the
// shares do not sum to 100.
func (s Split) Validate() error {
	if !finite(s.VRIPercent) || !finite(s.PhonePercent) {
		return invalidf("modality split must be finite")
	}
	if s.VRIPercent < 0 || s.VRIPercent > 100 || s.PhonePercent < 0 || s.PhonePercent > 100 {
		return invalidf("modality split %.2f/%.2f outside [0,100]", s.VRIPercent, s.PhonePercent)
	}
	if math.Abs(s.VRIPercent+s.PhonePercent-100) > splitTolerance {
		return invalidf("modality split %.2f/%.2f does not sum to 100", s.VRIPercent, s.PhonePercent)
	}
	return nil
}

func (s Split) vriFraction() float64   { return s.VRIPercent / 100 }
func (s Split) phoneFraction() float64 { return s.PhonePercent / 100 }

// RateMode is either Separate per-modality rates or a single Blended rate.
// The set of implementations is closed.
type RateMode interface {
	// Rates returns the per-minute rate applied to VRI and phone minutes.
	Rates() (vri, phone float64)
	isRateMode()
}

// Separate prices each modality at its own per-minute rate.
type Separate struct {
	VRI   float64 `json:"vri_rate" yaml:"vri_rate"`
	Phone float64 `json:"phone_rate" yaml:"phone_rate"`
}

// Rates implements RateMode.
func (s Separate) Rates() (float64, float64) { return s.VRI, s.Phone }
func (Separate) isRateMode()                 {}

// Blended applies one per-minute rate to every minute regardless of modality.
type Blended struct {
	Rate float64 `json:"rate" yaml:"rate"`
}

// Rates implements RateMode.
func (b Blended) Rates() (float64, float64) { return b.Rate, b.Rate }
func (Blended) isRateMode()                 {}

// EffectiveRates flattens either variant into per-modality rates. A nil mode
// yields zero rates.
func EffectiveRates(m RateMode) (vri, phone float64) {
	if m == nil {
		return 0, 0
	}
	return m.Rates()
}

// ModeName returns "blended" or "separate".
func ModeName(m RateMode) string {
	if _, ok := m.(Blended); ok {
		return "blended"
	}
	return "separate"
}

func validateRates(m RateMode) error {
	if m == nil {
		return invalidf("rate mode is required")
	}
	vri, phone := m.Rates()
	if !finite(vri) || !finite(phone) {
		return invalidf("rates must be finite")
	}
	if vri < 0 || phone < 0 {
		return invalidf("rates must be non-negative (vri=%.4f phone=%.4f)", vri, phone)
	}
	return nil
}

// Cost is a monthly amount and its annualized value.
type Cost struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// Savings is baseline minus projected. Positive means spend goes down,
// negative means it goes up; the sign is never discarded.
type Savings struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// IsLoss reports whether the projected spend exceeds the baseline.
func (s Savings) IsLoss() bool { return s.Annual < 0 }

// BreakEven is a per-minute rate that may be undefined (zero volume).
type BreakEven struct {
	Rate    float64 `json:"rate"`
	Defined bool    `json:"defined"`
}

// Get returns the rate, or ErrUndefinedBreakEven when it is not defined.
func (b BreakEven) Get() (float64, error) {
	if !b.Defined {
		return 0, ErrUndefinedBreakEven
	}
	return b.Rate, nil
}

// ModalBreakEven holds break-even rates for each modality.
type ModalBreakEven struct {
	VRI   BreakEven `json:"vri"`
	Phone BreakEven `json:"phone"`
}

// VRIRate returns the VRI break-even rate or ErrUndefinedBreakEven.
func (m ModalBreakEven) VRIRate() (float64, error) { return m.VRI.Get() }

// PhoneRate returns the phone break-even rate or ErrUndefinedBreakEven.
func (m ModalBreakEven) PhoneRate() (float64, error) { return m.Phone.Get() }

// Shares apportions a cost between modalities. VRI + Phone == 1.
type Shares struct {
	VRI   float64 `json:"vri"`
	Phone float64 `json:"phone"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

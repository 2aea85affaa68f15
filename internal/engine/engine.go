package engine

// ComputeCost prices minutes at the given split and rates.
//
//	monthly = minutes * (vri%/100 * vriRate + phone%/100 * phoneRate)
//	annual  = monthly * 12
func ComputeCost(minutes float64, split Split, mode RateMode) (Cost, error) {
	if err := validateMinutes(minutes); err != nil {
		return Cost{}, err
	}
	if err := split.Validate(); err != nil {
		return Cost{}, err
	}
	if err := validateRates(mode); err != nil {
		return Cost{}, err
	}

	vriRate, phoneRate := mode.Rates()
	perMinute := split.vriFraction()*vriRate + split.phoneFraction()*phoneRate
	monthly := minutes * perMinute
	annual := monthly * MonthsPerYear
	if !finite(annual) {
		return Cost{}, invalidf("cost of %v minutes overflows", minutes)
	}

	return Cost{
		Monthly: monthly,
		Annual:  annual,
	}, nil
}

// ApplyGrowth scales base minutes by growthFactor. A factor of 1.0 leaves
// volume unchanged.
func ApplyGrowth(baseMinutes, growthFactor float64) (float64, error) {
	if err := validateMinutes(baseMinutes); err != nil {
		return 0, err
	}
	if !finite(growthFactor) || growthFactor < 0 {
		return 0, invalidf("growth factor must be a non-negative number, got %v", growthFactor)
	}
	// The annual volume must stay finite too; break-even rates divide by it.
	grown := baseMinutes * growthFactor
	if !finite(grown * MonthsPerYear) {
		return 0, invalidf("grown volume of %v x %v overflows", baseMinutes, growthFactor)
	}
	return grown, nil
}

// ComputeSavings returns baseline - projected at both granularities.
func ComputeSavings(baseline, projected Cost) Savings {
	return Savings{
		Monthly: baseline.Monthly - projected.Monthly,
		Annual:  baseline.Annual - projected.Annual,
	}
}

// ComputeBreakEvenRate returns the single rate that, applied to every grown
// minute, reproduces baselineAnnualCost.
func ComputeBreakEvenRate(baselineAnnualCost, grownAnnualMinutes float64) (float64, error) {
	if !finite(baselineAnnualCost) || baselineAnnualCost < 0 {
		return 0, invalidf("baseline annual cost must be non-negative, got %v", baselineAnnualCost)
	}
	if err := validateMinutes(grownAnnualMinutes); err != nil {
		return 0, err
	}
	if grownAnnualMinutes == 0 {
		return 0, ErrUndefinedBreakEven
	}
	rate := baselineAnnualCost / grownAnnualMinutes
	if !finite(rate) {
		return 0, invalidf("break-even rate overflows for %v minutes", grownAnnualMinutes)
	}
	return rate, nil
}

// CostShares returns the fraction of cost each modality carries when the
// split is priced at the reference rates. When that cost is zero the volume
// split is used instead, so the shares always sum to 1.
func CostShares(split Split, reference RateMode) (Shares, error) {
	if err := split.Validate(); err != nil {
		return Shares{}, err
	}
	if err := validateRates(reference); err != nil {
		return Shares{}, err
	}

	vriRate, phoneRate := reference.Rates()
	vriCost := split.vriFraction() * vriRate
	phoneCost := split.phoneFraction() * phoneRate
	total := vriCost + phoneCost
	if total == 0 {
		return Shares{VRI: split.vriFraction(), Phone: split.phoneFraction()}, nil
	}
	return Shares{VRI: vriCost / total, Phone: phoneCost / total}, nil
}

// OnVolume moves the share of a modality with no volume under split onto the
// other one, so the shares that remain still cover the whole cost.
func (s Shares) OnVolume(split Split) Shares {
	switch {
	case split.vriFraction() == 0 && split.phoneFraction() > 0:
		return Shares{Phone: s.VRI + s.Phone}
	case split.phoneFraction() == 0 && split.vriFraction() > 0:
		return Shares{VRI: s.VRI + s.Phone}
	}
	return s
}

// ComputeModalBreakEven apportions baselineAnnualCost by shares and divides
// each part by that modality's grown annual minutes under the current split.
// Shares are first moved off modalities with no current volume, which then
// have an undefined rate.
func ComputeModalBreakEven(baselineAnnualCost, grownMonthlyMinutes float64, current Split, shares Shares) (ModalBreakEven, error) {
	if !finite(baselineAnnualCost) || baselineAnnualCost < 0 {
		return ModalBreakEven{}, invalidf("baseline annual cost must be non-negative, got %v", baselineAnnualCost)
	}
	if err := validateMinutes(grownMonthlyMinutes); err != nil {
		return ModalBreakEven{}, err
	}
	if err := current.Validate(); err != nil {
		return ModalBreakEven{}, err
	}
	if !finite(shares.VRI) || !finite(shares.Phone) || shares.VRI < 0 || shares.Phone < 0 {
		return ModalBreakEven{}, invalidf("cost shares must be non-negative")
	}

	shares = shares.OnVolume(current)
	grownAnnual := grownMonthlyMinutes * MonthsPerYear
	modal := ModalBreakEven{
		VRI:   modalRate(baselineAnnualCost*shares.VRI, grownAnnual*current.vriFraction()),
		Phone: modalRate(baselineAnnualCost*shares.Phone, grownAnnual*current.phoneFraction()),
	}
	if !finite(modal.VRI.Rate) || !finite(modal.Phone.Rate) {
		return ModalBreakEven{}, invalidf("break-even rate overflows for %v minutes", grownMonthlyMinutes)
	}
	return modal, nil
}

func modalRate(costShare, annualMinutes float64) BreakEven {
	if annualMinutes == 0 {
		return BreakEven{}
	}
	return BreakEven{Rate: costShare / annualMinutes, Defined: true}
}

func validateMinutes(minutes float64) error {
	if !finite(minutes) {
		return invalidf("minutes must be finite")
	}
	if minutes < 0 {
		return invalidf("minutes must be non-negative, got %v", minutes)
	}
	return nil
}

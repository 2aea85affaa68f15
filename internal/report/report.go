// Package report renders a projection for export: amounts are rounded to
// cents and rates to 1/100 of a cent before they are written.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/drubhattacharya/budget-simulator/internal/cli"
	"github.com/drubhattacharya/budget-simulator/internal/engine"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts table, json, yaml (or yml) and csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json, yaml or csv)", s)
}

// Amount is a decimal with a fixed number of places. It encodes as a bare
// number in JSON and YAML so trailing zeros survive.
type Amount struct {
	Value  decimal.Decimal
	Places int32
}

func cents(v float64) Amount {
	return Amount{Value: decimal.NewFromFloat(v).Round(2), Places: 2}
}

func rate(v float64) Amount {
	return Amount{Value: decimal.NewFromFloat(v).Round(4), Places: 4}
}

func optionalRate(b engine.BreakEven) *Amount {
	if !b.Defined {
		return nil
	}
	r := rate(b.Rate)
	return &r
}

func (a Amount) String() string { return a.Value.StringFixed(a.Places) }

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) { return []byte(a.String()), nil }

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: a.String()}, nil
}

// Report is the exported view of one projection.
type Report struct {
	BaseMinutes   float64      `json:"base_minutes" yaml:"base_minutes"`
	GrowthFactor  float64      `json:"growth_factor" yaml:"growth_factor"`
	GrownMinutes  float64      `json:"grown_minutes" yaml:"grown_minutes"`
	BaselineSplit engine.Split `json:"baseline_split" yaml:"baseline_split"`
	Split         engine.Split `json:"split" yaml:"split"`
	Reference     string       `json:"reference_rates" yaml:"reference_rates"`
	Proposed      string       `json:"proposed_rates" yaml:"proposed_rates"`
	ShareBasis    string       `json:"share_basis" yaml:"share_basis"`

	BaselineMonthly  Amount `json:"baseline_monthly" yaml:"baseline_monthly"`
	BaselineAnnual   Amount `json:"baseline_annual" yaml:"baseline_annual"`
	ProjectedMonthly Amount `json:"projected_monthly" yaml:"projected_monthly"`
	ProjectedAnnual  Amount `json:"projected_annual" yaml:"projected_annual"`
	SavingsMonthly   Amount `json:"savings_monthly" yaml:"savings_monthly"`
	SavingsAnnual    Amount `json:"savings_annual" yaml:"savings_annual"`
	Outcome          string `json:"outcome" yaml:"outcome"`

	BreakEvenBlended *Amount `json:"break_even_blended" yaml:"break_even_blended"`
	BreakEvenVRI     *Amount `json:"break_even_vri" yaml:"break_even_vri"`
	BreakEvenPhone   *Amount `json:"break_even_phone" yaml:"break_even_phone"`
}

// New builds a report from a scenario and its projection.
func New(s engine.Scenario, p engine.Projection) Report {
	outcome := "savings"
	if cli.SavingsLabel(p.Savings.Annual) == "Loss" {
		outcome = "loss"
	}
	return Report{
		BaseMinutes:      s.BaseMinutes,
		GrowthFactor:     s.GrowthFactor,
		GrownMinutes:     p.GrownMinutes,
		BaselineSplit:    s.BaselineSplit,
		Split:            s.Split,
		Reference:        cli.FormatMode(s.Reference),
		Proposed:         cli.FormatMode(s.Proposed),
		ShareBasis:       s.Basis.String(),
		BaselineMonthly:  cents(p.Baseline.Monthly),
		BaselineAnnual:   cents(p.Baseline.Annual),
		ProjectedMonthly: cents(p.Projected.Monthly),
		ProjectedAnnual:  cents(p.Projected.Annual),
		SavingsMonthly:   cents(p.Savings.Monthly),
		SavingsAnnual:    cents(p.Savings.Annual),
		Outcome:          outcome,
		BreakEvenBlended: optionalRate(p.BreakEvenBlended),
		BreakEvenVRI:     optionalRate(p.BreakEvenModal.VRI),
		BreakEvenPhone:   optionalRate(p.BreakEvenModal.Phone),
	}
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, r)
	default:
		_, err := io.WriteString(w, Table(r))
		return err
	}
}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"metric", "value"}}
	for _, kv := range r.pairs() {
		records = append(records, []string{kv[0], kv[1]})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func (r Report) pairs() [][2]string {
	opt := func(a *Amount) string {
		if a == nil {
			return ""
		}
		return a.String()
	}
	return [][2]string{
		{"base_minutes", fmt.Sprintf("%g", r.BaseMinutes)},
		{"growth_factor", fmt.Sprintf("%g", r.GrowthFactor)},
		{"grown_minutes", fmt.Sprintf("%g", r.GrownMinutes)},
		{"vri_percent", fmt.Sprintf("%g", r.Split.VRIPercent)},
		{"phone_percent", fmt.Sprintf("%g", r.Split.PhonePercent)},
		{"baseline_monthly", r.BaselineMonthly.String()},
		{"baseline_annual", r.BaselineAnnual.String()},
		{"projected_monthly", r.ProjectedMonthly.String()},
		{"projected_annual", r.ProjectedAnnual.String()},
		{"savings_monthly", r.SavingsMonthly.String()},
		{"savings_annual", r.SavingsAnnual.String()},
		{"outcome", r.Outcome},
		{"break_even_blended", opt(r.BreakEvenBlended)},
		{"break_even_vri", opt(r.BreakEvenVRI)},
		{"break_even_phone", opt(r.BreakEvenPhone)},
	}
}

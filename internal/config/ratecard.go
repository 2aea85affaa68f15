package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/engine"
)

// DefaultRateCard is the card used when none is configured.
const DefaultRateCard = "standard"

// RateCard holds per-minute contract rates for both modalities. A non-zero
// Blended rate prices every minute the same regardless of modality.
type RateCard struct {
	VRI     float64
	Phone   float64
	Blended float64
}

// Mode converts the card into an engine rate mode.
func (r RateCard) Mode() engine.RateMode {
	if r.Blended > 0 {
		return engine.Blended{Rate: r.Blended}
	}
	return engine.Separate{VRI: r.VRI, Phone: r.Phone}
}

// RateCardOverride is the TOML shape of a user-supplied rate card.
// EffectiveFrom is an optional YYYY-MM-DD date.
type RateCardOverride struct {
	VRI           float64 `toml:"vri"`
	Phone         float64 `toml:"phone"`
	Blended       float64 `toml:"blended,omitempty"`
	EffectiveFrom string  `toml:"effective_from,omitempty"`
}

type rateCardVersion struct {
	EffectiveFrom time.Time
	Card          RateCard
}

// DefaultRateCards maps card names to their current rates.
var DefaultRateCards = map[string]RateCard{
	"standard":       {VRI: 0.85, Phone: 0.80},
	"legacy-blended": {Blended: 0.825},
}

// defaultRateCardHistory stores effective-dated rates for each card.
// Entries must be sorted by EffectiveFrom ascending.
var defaultRateCardHistory = makeDefaultRateCardHistory(DefaultRateCards)

func makeDefaultRateCardHistory(base map[string]RateCard) map[string][]rateCardVersion {
	history := make(map[string][]rateCardVersion, len(base))
	for name, card := range base {
		history[name] = []rateCardVersion{
			{Card: card},
		}
	}
	return history
}

// NormalizeRateCardName lower-cases and trims a card name.
// e.g., " Legacy_Blended " -> "legacy-blended"
func NormalizeRateCardName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(name, "_", "-")
}

// RateCardNames returns every known card name, built-in and configured, sorted.
func (c Config) RateCardNames() []string {
	seen := make(map[string]bool)
	for name := range defaultRateCardHistory {
		seen[name] = true
	}
	for name := range c.RateCards {
		seen[NormalizeRateCardName(name)] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupRateCard returns the card in effect now.
func (c Config) LookupRateCard(name string) (RateCard, bool) {
	return c.LookupRateCardAt(name, time.Now())
}

// LookupRateCardAt returns the named card at the given timestamp. Configured
// overrides are layered onto the built-in history. If at is zero, the latest
// known entry is used.
func (c Config) LookupRateCardAt(name string, at time.Time) (RateCard, bool) {
	versions := c.rateCardHistory(NormalizeRateCardName(name))
	if len(versions) == 0 {
		return RateCard{}, false
	}

	if at.IsZero() {
		return versions[len(versions)-1].Card, true
	}

	at = at.UTC()
	selected := versions[0].Card
	for _, v := range versions {
		if v.EffectiveFrom.IsZero() || !at.Before(v.EffectiveFrom.UTC()) {
			selected = v.Card
			continue
		}
		break
	}
	return selected, true
}

const effectiveDateLayout = "2006-01-02"

// validateRateCards rejects overrides whose effective_from is not a
// YYYY-MM-DD date.
func (c Config) validateRateCards() error {
	names := make([]string, 0, len(c.RateCards))
	for name := range c.RateCards {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ov := c.RateCards[name]
		if ov.EffectiveFrom == "" {
			continue
		}
		if _, err := time.Parse(effectiveDateLayout, ov.EffectiveFrom); err != nil {
			return fmt.Errorf("rate card %q: effective_from %q is not a YYYY-MM-DD date", name, ov.EffectiveFrom)
		}
	}
	return nil
}

func (c Config) rateCardHistory(name string) []rateCardVersion {
	versions := append([]rateCardVersion(nil), defaultRateCardHistory[name]...)

	for rawName, ov := range c.RateCards {
		if NormalizeRateCardName(rawName) != name {
			continue
		}
		v := rateCardVersion{Card: RateCard{VRI: ov.VRI, Phone: ov.Phone, Blended: ov.Blended}}
		if ov.EffectiveFrom != "" {
			d, err := time.Parse(effectiveDateLayout, ov.EffectiveFrom)
			if err != nil {
				// Load rejects these; a Config built in code may still carry one.
				continue
			}
			v.EffectiveFrom = d
		}
		if v.EffectiveFrom.IsZero() {
			// An undated override replaces the built-in history.
			versions = versions[:0]
		}
		versions = append(versions, v)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].EffectiveFrom.Before(versions[j].EffectiveFrom)
	})
	return versions
}

// Package airports resolves free-text airport input to upstream place
// entities, including the disambiguation heuristics used when a name
// matches more than one airport.
package airports

import (
	"context"
	"fmt"
	"strings"

	"github.com/skyhop/flightmcp/log"
	"github.com/skyhop/flightmcp/providers/skyscanner"
)

// Outcome tags a Resolution.
type Outcome int

const (
	// Resolved means a single place was chosen.
	Resolved Outcome = iota
	// Ambiguous means two or more distinct airports match and the caller
	// must pick one.
	Ambiguous
	// NotFound means the term matched nothing, or the lookup failed.
	NotFound
)

// Resolution is the tagged result of resolving a search term.
type Resolution struct {
	Outcome    Outcome
	Place      skyscanner.PlaceSuggestion   // valid when Resolved
	Candidates []skyscanner.PlaceSuggestion // deduplicated, ≥2 when Ambiguous
	Message    string                       // human-readable enumeration when Ambiguous
}

// Autosuggester is the upstream place lookup the resolver depends on.
type Autosuggester interface {
	Autosuggest(ctx context.Context, searchTerm, market string) ([]skyscanner.PlaceSuggestion, error)
}

// Resolver applies the disambiguation rules over autosuggest results.
type Resolver struct {
	Client Autosuggester
}

// NewResolver creates a resolver backed by the given autosuggest client.
func NewResolver(client Autosuggester) *Resolver {
	return &Resolver{Client: client}
}

// Resolve maps a free-text term to a place. Rule order, first match wins:
// exact IATA match on an airport entry, a single deduplicated airport,
// multiple airports (ambiguous), then first raw suggestion. Upstream
// failure degrades to NotFound; the caller should ask for an IATA code.
func (r *Resolver) Resolve(ctx context.Context, searchTerm, market string) Resolution {
	suggestions, err := r.Client.Autosuggest(ctx, searchTerm, market)
	if err != nil {
		log.Warnf(ctx, "autosuggest failed for %q: %v", searchTerm, err)
		return Resolution{Outcome: NotFound}
	}

	if len(suggestions) == 0 {
		return Resolution{Outcome: NotFound}
	}
	if len(suggestions) == 1 {
		return Resolution{Outcome: Resolved, Place: suggestions[0]}
	}

	for _, s := range suggestions {
		if s.IsAirport() && strings.EqualFold(searchTerm, s.IataCode) {
			return Resolution{Outcome: Resolved, Place: s}
		}
	}

	airports := dedupeAirports(suggestions)
	switch {
	case len(airports) == 1:
		return Resolution{Outcome: Resolved, Place: airports[0]}
	case len(airports) > 1:
		return Resolution{
			Outcome:    Ambiguous,
			Candidates: airports,
			Message:    AmbiguityPrompt(searchTerm, airports),
		}
	default:
		// Only city entries; take the first raw suggestion.
		return Resolution{Outcome: Resolved, Place: suggestions[0]}
	}
}

// dedupeAirports filters to airport-type entries, deduplicated by entity
// id while preserving order.
func dedupeAirports(suggestions []skyscanner.PlaceSuggestion) []skyscanner.PlaceSuggestion {
	seen := make(map[string]bool, len(suggestions))
	var out []skyscanner.PlaceSuggestion
	for _, s := range suggestions {
		if !s.IsAirport() || seen[s.EntityID] {
			continue
		}
		seen[s.EntityID] = true
		out = append(out, s)
	}
	return out
}

// AmbiguityPrompt renders the clarification message enumerating candidate
// airports. The orchestrator re-emits it on failed follow-up matches.
func AmbiguityPrompt(searchTerm string, airports []skyscanner.PlaceSuggestion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Multiple airports match %q. Which one did you mean?\n", searchTerm)
	for _, a := range airports {
		fmt.Fprintf(&b, "- %s (%s), %s, %s\n", a.Name, a.IataCode, a.CityName, a.CountryName)
	}
	b.WriteString("Reply with the airport's IATA code or name.")
	return b.String()
}

// MatchCandidate matches a follow-up input against pending candidates:
// IATA code, exact name, then unique name substring, all case-insensitive.
// A substring hitting two or more candidates is still ambiguous and does
// not match. The orchestrator uses this same function so the follow-up
// matcher cannot drift from the resolver's rules.
func MatchCandidate(input string, candidates []skyscanner.PlaceSuggestion) (skyscanner.PlaceSuggestion, bool) {
	needle := strings.TrimSpace(strings.ToLower(input))
	if needle == "" {
		return skyscanner.PlaceSuggestion{}, false
	}
	for _, c := range candidates {
		if strings.EqualFold(needle, c.IataCode) {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(needle, c.Name) {
			return c, true
		}
	}
	var hit skyscanner.PlaceSuggestion
	hits := 0
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			hit = c
			hits++
		}
	}
	if hits == 1 {
		return hit, true
	}
	return skyscanner.PlaceSuggestion{}, false
}

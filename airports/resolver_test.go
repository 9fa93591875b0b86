package airports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyhop/flightmcp/providers/skyscanner"
)

// fakeAutosuggester is a canned-response test double.
type fakeAutosuggester struct {
	places []skyscanner.PlaceSuggestion
	err    error
	calls  int
}

func (f *fakeAutosuggester) Autosuggest(ctx context.Context, searchTerm, market string) ([]skyscanner.PlaceSuggestion, error) {
	f.calls++
	return f.places, f.err
}

func airport(id, iata, name string) skyscanner.PlaceSuggestion {
	return skyscanner.PlaceSuggestion{EntityID: id, IataCode: iata, Name: name, Type: skyscanner.PlaceTypeAirport}
}

func city(id, name string) skyscanner.PlaceSuggestion {
	return skyscanner.PlaceSuggestion{EntityID: id, Name: name, Type: skyscanner.PlaceTypeCity}
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{})
	res := r.Resolve(context.Background(), "xyzzy", "US")
	assert.Equal(t, NotFound, res.Outcome)
}

func TestResolve_UpstreamFailureIsNotFound(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{err: errors.New("boom")})
	res := r.Resolve(context.Background(), "delhi", "IN")
	assert.Equal(t, NotFound, res.Outcome)
}

func TestResolve_Single(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{places: []skyscanner.PlaceSuggestion{
		airport("1", "DEL", "Indira Gandhi International"),
	}})
	res := r.Resolve(context.Background(), "delhi", "IN")
	assert.Equal(t, Resolved, res.Outcome)
	assert.Equal(t, "DEL", res.Place.IataCode)
}

func TestResolve_ExactIataBeatsAmbiguity(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{places: []skyscanner.PlaceSuggestion{
		airport("1", "DEL", "Indira Gandhi International"),
		airport("2", "BOM", "Chhatrapati Shivaji"),
	}})
	res := r.Resolve(context.Background(), "DEL", "IN")
	assert.Equal(t, Resolved, res.Outcome)
	assert.Equal(t, "1", res.Place.EntityID)

	// Case-insensitive.
	res = r.Resolve(context.Background(), "del", "IN")
	assert.Equal(t, Resolved, res.Outcome)
	assert.Equal(t, "DEL", res.Place.IataCode)
}

func TestResolve_SingleAirportAmongCities(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{places: []skyscanner.PlaceSuggestion{
		city("c1", "London"),
		airport("1", "LHR", "Heathrow"),
	}})
	res := r.Resolve(context.Background(), "london", "GB")
	assert.Equal(t, Resolved, res.Outcome)
	assert.Equal(t, "LHR", res.Place.IataCode)
}

func TestResolve_Ambiguous(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{places: []skyscanner.PlaceSuggestion{
		airport("1", "LHR", "Heathrow"),
		airport("2", "LGW", "Gatwick"),
		airport("1", "LHR", "Heathrow"), // duplicate entity
		city("c1", "London"),
	}})
	res := r.Resolve(context.Background(), "london", "GB")
	assert.Equal(t, Ambiguous, res.Outcome)
	assert.Len(t, res.Candidates, 2)
	assert.Equal(t, "1", res.Candidates[0].EntityID)
	assert.Equal(t, "2", res.Candidates[1].EntityID)
	assert.Contains(t, res.Message, "Heathrow")
	assert.Contains(t, res.Message, "Gatwick")
}

func TestResolve_CityOnlyFallsBackToFirstSuggestion(t *testing.T) {
	r := NewResolver(&fakeAutosuggester{places: []skyscanner.PlaceSuggestion{
		city("c1", "London"),
		city("c2", "Londonderry"),
	}})
	res := r.Resolve(context.Background(), "london", "GB")
	assert.Equal(t, Resolved, res.Outcome)
	assert.Equal(t, "c1", res.Place.EntityID)
}

func TestMatchCandidate(t *testing.T) {
	cands := []skyscanner.PlaceSuggestion{
		airport("1", "LHR", "Heathrow"),
		airport("2", "LGW", "Gatwick"),
	}

	got, ok := MatchCandidate("lgw", cands)
	assert.True(t, ok)
	assert.Equal(t, "2", got.EntityID)

	got, ok = MatchCandidate("Heathrow", cands)
	assert.True(t, ok)
	assert.Equal(t, "1", got.EntityID)

	got, ok = MatchCandidate("gatw", cands)
	assert.True(t, ok)
	assert.Equal(t, "2", got.EntityID)

	_, ok = MatchCandidate("stansted", cands)
	assert.False(t, ok)

	_, ok = MatchCandidate("  ", cands)
	assert.False(t, ok)
}

// A substring shared by several candidates is still ambiguous and must
// not pick one of them.
func TestMatchCandidate_SharedSubstringDoesNotMatch(t *testing.T) {
	cands := []skyscanner.PlaceSuggestion{
		airport("1", "CDG", "Paris Charles de Gaulle"),
		airport("2", "ORY", "Paris Orly"),
	}

	_, ok := MatchCandidate("paris", cands)
	assert.False(t, ok)

	got, ok := MatchCandidate("orly", cands)
	assert.True(t, ok)
	assert.Equal(t, "2", got.EntityID)
}

// IATA match must win even when another candidate's name contains the input.
func TestMatchCandidate_IataBeforeSubstring(t *testing.T) {
	cands := []skyscanner.PlaceSuggestion{
		airport("1", "ABC", "LGW Memorial"),
		airport("2", "LGW", "Gatwick"),
	}
	got, ok := MatchCandidate("LGW", cands)
	assert.True(t, ok)
	assert.Equal(t, "2", got.EntityID)
}

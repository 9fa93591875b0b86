package mcpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyhop/flightmcp/providers/skyscanner"
	"github.com/skyhop/flightmcp/search"
)

type fakeUpstream struct {
	suggestions []skyscanner.PlaceSuggestion
	searchResp  *skyscanner.SearchResponse
	searchErr   error
}

func (f *fakeUpstream) Autosuggest(ctx context.Context, searchTerm, market string) ([]skyscanner.PlaceSuggestion, error) {
	return f.suggestions, nil
}

func (f *fakeUpstream) CreateSearch(ctx context.Context, q skyscanner.SearchQuery) (*skyscanner.SearchResponse, error) {
	return f.searchResp, f.searchErr
}

func testServer(t *testing.T, f *fakeUpstream) *Server {
	t.Helper()
	orch := search.New(search.Options{
		Client: f,
		Market: "IN",
		Now:    func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	s, err := NewServer(Config{Mode: TransportModeSTDIO}, orch)
	require.NoError(t, err)
	return s
}

func TestNewServer_RequiresOrchestrator(t *testing.T) {
	_, err := NewServer(Config{}, nil)
	assert.Error(t, err)
}

func TestHandleSearchFlights_ValidationMessageIsTextNotError(t *testing.T) {
	s := testServer(t, &fakeUpstream{})

	result, out, err := s.handleSearchFlights(context.Background(), &mcp.CallToolRequest{}, SearchFlightsInput{
		From: "DEL", To: "BOM", Date: "2029-01-01",
	})

	// Business conditions never surface as protocol errors.
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "in the past")
	assert.Empty(t, out.Flights)
}

func TestHandleSearchFlights_FallbackOnUpstreamFailure(t *testing.T) {
	s := testServer(t, &fakeUpstream{
		suggestions: []skyscanner.PlaceSuggestion{
			{EntityID: "e-del", IataCode: "DEL", Name: "Indira Gandhi International", Type: skyscanner.PlaceTypeAirport},
		},
		searchErr: errors.New("down"),
	})

	result, out, err := s.handleSearchFlights(context.Background(), &mcp.CallToolRequest{}, SearchFlightsInput{
		From: "DEL", To: "DEL", Date: "2030-02-01",
	})

	require.NoError(t, err)
	text := result.Content[0].(*mcp.TextContent)
	assert.Contains(t, text.Text, "illustrative options")
	assert.True(t, out.Fallback)
	assert.Len(t, out.Flights, 2)
}

func TestHandleResolveAirport(t *testing.T) {
	s := testServer(t, &fakeUpstream{
		suggestions: []skyscanner.PlaceSuggestion{
			{EntityID: "e-del", IataCode: "DEL", Name: "Indira Gandhi International", CityName: "New Delhi", CountryName: "India", Type: skyscanner.PlaceTypeAirport},
		},
	})

	result, out, err := s.handleResolveAirport(context.Background(), &mcp.CallToolRequest{}, ResolveAirportInput{SearchTerm: "delhi"})

	require.NoError(t, err)
	text := result.Content[0].(*mcp.TextContent)
	assert.Contains(t, text.Text, "Indira Gandhi International (DEL)")
	assert.Equal(t, text.Text, out.Description)
}

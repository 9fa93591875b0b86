package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	logcontext "github.com/skyhop/flightmcp/context"
	"github.com/skyhop/flightmcp/flights"
	"github.com/skyhop/flightmcp/log"
	"github.com/skyhop/flightmcp/search"
)

const searchFlightsDescription = `Searches for one-way flights between two airports on a given date.

Usage rules:
- from and to accept an airport or city name ("delhi", "heathrow") or an IATA code ("DEL").
- date must be ISO format YYYY-MM-DD and must not be in the past.
- When a previous call reported multiple matching airports, call again with
  selectedFromIata / selectedToIata set to the chosen candidate's IATA code
  (or pass the airport name in from / to), keeping the same sessionId.
- Results show direct flights first, then cheaper one-or-more-stop flights.`

const resolveAirportDescription = `Resolves a free-text airport or city name to a concrete airport.
Returns the airport's name, IATA code, city, country, and entity id, or a
list of candidates when the name is ambiguous.`

// SearchFlightsInput are the search_flights tool arguments.
type SearchFlightsInput struct {
	From             string `json:"from" jsonschema:"origin airport or city name, or IATA code"`
	To               string `json:"to" jsonschema:"destination airport or city name, or IATA code"`
	Date             string `json:"date" jsonschema:"travel date in YYYY-MM-DD format"`
	Adults           int    `json:"adults,omitempty" jsonschema:"number of adult passengers, 1-9, default 1"`
	Children         int    `json:"children,omitempty" jsonschema:"number of child passengers, 0-8, default 0"`
	CabinClass       string `json:"cabinClass,omitempty" jsonschema:"economy, premium_economy, business, or first"`
	FromEntityID     string `json:"fromEntityId,omitempty" jsonschema:"pre-resolved origin entity id"`
	ToEntityID       string `json:"toEntityId,omitempty" jsonschema:"pre-resolved destination entity id"`
	SelectedFromIata string `json:"selectedFromIata,omitempty" jsonschema:"IATA code chosen from a prior ambiguity prompt"`
	SelectedToIata   string `json:"selectedToIata,omitempty" jsonschema:"IATA code chosen from a prior ambiguity prompt"`
	Country          string `json:"country,omitempty" jsonschema:"ISO country code overriding the default market"`
	SessionID        string `json:"sessionId,omitempty" jsonschema:"conversation id used to correlate disambiguation follow-ups"`
}

// SearchFlightsOutput is the structured companion to the markdown reply.
type SearchFlightsOutput struct {
	Flights  []flights.Card `json:"flights"`
	Fallback bool           `json:"fallback,omitempty"`
}

// ResolveAirportInput are the resolve_airport tool arguments.
type ResolveAirportInput struct {
	SearchTerm string `json:"searchTerm" jsonschema:"airport or city name, or IATA code"`
}

// ResolveAirportOutput describes the resolved place.
type ResolveAirportOutput struct {
	Description string `json:"description"`
}

func (s *Server) registerTools(mcpSrv *mcp.Server) {
	mcp.AddTool(mcpSrv, &mcp.Tool{
		Name:        "search_flights",
		Description: searchFlightsDescription,
	}, s.handleSearchFlights)

	mcp.AddTool(mcpSrv, &mcp.Tool{
		Name:        "resolve_airport",
		Description: resolveAirportDescription,
	}, s.handleResolveAirport)
}

func (s *Server) handleSearchFlights(ctx context.Context, req *mcp.CallToolRequest, input SearchFlightsInput) (*mcp.CallToolResult, SearchFlightsOutput, error) {
	ctx = logcontext.WithRequestID(ctx, logcontext.NewRequestID())
	log.Infof(ctx, "search_flights %s → %s on %s", input.From, input.To, input.Date)

	resp := s.orchestrator.Search(ctx, search.Request{
		From:             input.From,
		To:               input.To,
		Date:             input.Date,
		Adults:           input.Adults,
		Children:         input.Children,
		CabinClass:       input.CabinClass,
		Country:          input.Country,
		FromEntityID:     input.FromEntityID,
		ToEntityID:       input.ToEntityID,
		SelectedFromIata: input.SelectedFromIata,
		SelectedToIata:   input.SelectedToIata,
		SessionID:        input.SessionID,
	})

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: resp.Text}},
	}
	return result, SearchFlightsOutput{Flights: resp.Cards, Fallback: resp.Fallback}, nil
}

func (s *Server) handleResolveAirport(ctx context.Context, req *mcp.CallToolRequest, input ResolveAirportInput) (*mcp.CallToolResult, ResolveAirportOutput, error) {
	ctx = logcontext.WithRequestID(ctx, logcontext.NewRequestID())
	log.Infof(ctx, "resolve_airport %q", input.SearchTerm)

	description := s.orchestrator.ResolveAirport(ctx, input.SearchTerm)

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: description}},
	}
	return result, ResolveAirportOutput{Description: description}, nil
}

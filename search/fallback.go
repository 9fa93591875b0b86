package search

import (
	"github.com/skyhop/flightmcp/flights"
	"github.com/skyhop/flightmcp/format"
)

// fallbackNote labels the illustrative results shown when the upstream
// search is unavailable.
const fallbackNote = "Live flight results are unavailable right now, so here are illustrative options. " +
	"Please continue your booking on skyscanner.net for live prices and availability.\n\n"

// fallback renders the fixed two-entry illustrative list: one nonstop and
// one one-stop flight. It never touches the cache.
func (o *Orchestrator) fallback(req Request, fromCode, toCode, currency string) Response {
	list := fallbackSummaries(fromCode, toCode, currency)
	text := fallbackNote + flights.RenderMarkdown(fromCode, toCode, req.Date, list, "")
	return Response{
		Text:     text,
		Cards:    flights.RenderCards(list),
		Fallback: true,
	}
}

func fallbackSummaries(fromCode, toCode, currency string) []flights.Summary {
	nonstopPrice, _ := format.Price(4200000, currency)
	onestopPrice, _ := format.Price(3100000, currency)
	return []flights.Summary{
		{
			TripType:    flights.TripTypeNonstop,
			Airline:     "Sample Air",
			Duration:    "2h 15m",
			Origin:      fromCode,
			Destination: toCode,
			RawPrice:    4200000,
			Price:       nonstopPrice,
			Departure:   "08:00",
			Arrival:     "10:15",
			StopCount:   0,
		},
		{
			TripType:    "1 Stop",
			Airline:     "Sample Connect",
			Duration:    "5h 40m",
			Origin:      fromCode,
			Destination: toCode,
			RawPrice:    3100000,
			Price:       onestopPrice,
			Departure:   "06:30",
			Arrival:     "12:10",
			StopCount:   1,
			Layovers:    []string{"HUB (1h 20m)"},
		},
	}
}

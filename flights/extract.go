package flights

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skyhop/flightmcp/format"
	"github.com/skyhop/flightmcp/log"
	"github.com/skyhop/flightmcp/providers/skyscanner"
)

// maxItineraries bounds response size and rendering cost. Only the first
// ten upstream entries are summarized.
const maxItineraries = 10

// errSkipItinerary marks an itinerary whose leg reference cannot be
// resolved; it is skipped without failing the whole extraction.
var errSkipItinerary = errors.New("skip itinerary")

// Extract flattens the upstream itinerary graph into flight summaries.
// Fallback codes are substituted when a place's IATA code is unresolvable.
// Missing top-level mappings yield an empty result rather than an error,
// and any panic while traversing the graph abandons the whole extraction:
// a display layer prefers "no flights" over malformed flights.
func Extract(results *skyscanner.Results, originFallback, destFallback, currencyCode string) (out []Summary) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(context.Background(), "extraction abandoned: %v", r)
			out = nil
		}
	}()

	if results == nil || results.Itineraries == nil || results.Legs == nil || results.Carriers == nil {
		return nil
	}

	for i, itin := range results.Itineraries {
		if i >= maxItineraries {
			break
		}
		s, err := summarize(itin, results, originFallback, destFallback, currencyCode)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func summarize(itin skyscanner.Itinerary, results *skyscanner.Results, originFallback, destFallback, currencyCode string) (Summary, error) {
	if len(itin.LegIDs) == 0 {
		return Summary{}, errSkipItinerary
	}
	leg, ok := results.Legs[itin.LegIDs[0]]
	if !ok {
		return Summary{}, errSkipItinerary
	}

	rawPrice := rawPrice(itin)
	price, err := format.Price(rawPrice, currencyCode)
	if err != nil {
		price, _ = format.Price(0, currencyCode)
	}

	duration, err := format.Duration(leg.DurationInMinutes)
	if err != nil {
		duration = format.NotAvailable
	}

	return Summary{
		TripType:     tripType(leg.StopCount),
		Airline:      airlineName(leg, results),
		Duration:     duration,
		Origin:       placeCode(results, leg.OriginPlaceID, originFallback),
		Destination:  placeCode(results, leg.DestinationPlaceID, destFallback),
		RawPrice:     rawPrice,
		Price:        price,
		Departure:    clock(leg.Departure),
		Arrival:      clock(leg.Arrival),
		StopCount:    leg.StopCount,
		Layovers:     layovers(leg, results),
		BookingLinks: bookingLinks(itin),
	}, nil
}

// rawPrice takes the first pricing option's amount, and only when its unit
// marks thousandths. Unknown units never produce a fabricated price.
func rawPrice(itin skyscanner.Itinerary) int64 {
	if len(itin.PricingOptions) == 0 {
		return 0
	}
	p := itin.PricingOptions[0].Price
	if p.Unit != skyscanner.PriceUnitMilli {
		return 0
	}
	amount, err := strconv.ParseInt(p.Amount, 10, 64)
	if err != nil || amount < 0 {
		return 0
	}
	return amount
}

// airlineName picks the first non-empty of the first marketing carrier's
// display name, short code, and IATA code.
func airlineName(leg skyscanner.Leg, results *skyscanner.Results) string {
	if len(leg.MarketingCarrierIDs) == 0 {
		return "Unknown Airline"
	}
	carrier, ok := results.Carriers[leg.MarketingCarrierIDs[0]]
	if !ok {
		return "Unknown Airline"
	}
	for _, name := range []string{carrier.Name, carrier.DisplayCode, carrier.Iata} {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	return "Unknown Airline"
}

// placeCode resolves a place reference to its IATA code, falling back to
// the caller-supplied string so a summary always carries some code.
func placeCode(results *skyscanner.Results, placeID, fallback string) string {
	if results.Places != nil {
		if p, ok := results.Places[placeID]; ok && p.Iata != "" {
			return p.Iata
		}
	}
	return fallback
}

func clock(dt skyscanner.DateTime) string {
	if dt.IsZero() || !dt.Valid() {
		return format.NotAvailable
	}
	return format.ClockTime(dt.Hour, dt.Minute)
}

// layovers describes each intermediate stop as "XXX (1h 30m)". When the
// gap between adjacent segments cannot be computed, or is non-positive,
// the entry keeps the city code and omits the duration.
func layovers(leg skyscanner.Leg, results *skyscanner.Results) []string {
	if leg.StopCount <= 0 || len(leg.SegmentIDs) < 2 {
		return nil
	}

	var out []string
	for i := 0; i+1 < len(leg.SegmentIDs); i++ {
		first, firstOK := results.Segments[leg.SegmentIDs[i]]
		next, nextOK := results.Segments[leg.SegmentIDs[i+1]]

		city := "Unknown"
		if firstOK {
			if code := placeCode(results, first.DestinationPlaceID, ""); code != "" {
				city = code
			}
		}

		gap := 0
		if firstOK && nextOK && first.Arrival.Valid() && next.Departure.Valid() {
			gap = int(next.Departure.Time().Sub(first.Arrival.Time()).Minutes())
		}
		if gap > 0 {
			d, err := format.Duration(gap)
			if err == nil {
				out = append(out, fmt.Sprintf("%s (%s)", city, d))
				continue
			}
		}
		out = append(out, city)
	}
	return out
}

func bookingLinks(itin skyscanner.Itinerary) []string {
	if len(itin.PricingOptions) == 0 {
		return nil
	}
	var links []string
	for _, item := range itin.PricingOptions[0].Items {
		if item.DeepLink != "" {
			links = append(links, item.DeepLink)
		}
	}
	return links
}

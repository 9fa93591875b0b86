package flights

import (
	"fmt"
	"strings"
)

// Card is the structured alternative to the markdown rendering: one card
// per flight with labeled fields and a booking action URL.
type Card struct {
	Title      string `json:"title"`
	Airline    string `json:"airline"`
	Route      string `json:"route"`
	Departure  string `json:"departure"`
	Arrival    string `json:"arrival"`
	Duration   string `json:"duration"`
	Stops      string `json:"stops"`
	Price      string `json:"price"`
	BookingURL string `json:"bookingUrl,omitempty"`
}

// RenderCards converts sorted summaries into structured cards.
func RenderCards(list []Summary) []Card {
	cards := make([]Card, 0, len(list))
	for _, s := range list {
		c := Card{
			Title:     fmt.Sprintf("%s %s → %s", s.Airline, s.Origin, s.Destination),
			Airline:   s.Airline,
			Route:     fmt.Sprintf("%s → %s", s.Origin, s.Destination),
			Departure: s.Departure,
			Arrival:   s.Arrival,
			Duration:  s.Duration,
			Stops:     stopsCell(s),
			Price:     s.Price,
		}
		if len(s.BookingLinks) > 0 {
			c.BookingURL = s.BookingLinks[0]
		}
		cards = append(cards, c)
	}
	return cards
}

// RenderMarkdown renders sorted summaries as the markdown reply: a route
// heading, a direct-flights table, a cheapest-flights table for stopped
// flights, and a trailing view-all link.
func RenderMarkdown(origin, destination, date string, list []Summary, viewAllURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Flights from %s to %s — %s\n\n", origin, destination, date)

	if len(list) == 0 {
		fmt.Fprintf(&b, "No flights found for this route and date. Try a nearby airport or another date.\n")
		return b.String()
	}

	var direct, stopped []Summary
	for _, s := range list {
		if s.StopCount == 0 {
			direct = append(direct, s)
		} else {
			stopped = append(stopped, s)
		}
	}

	if len(direct) > 0 {
		b.WriteString("### Best Flights (Direct)\n\n")
		writeTable(&b, direct)
	}
	if len(stopped) > 0 {
		b.WriteString("### Cheapest Flights (1+ Stops)\n\n")
		writeTable(&b, stopped)
	}

	if viewAllURL != "" {
		fmt.Fprintf(&b, "[View all results](%s)\n", viewAllURL)
	}
	return b.String()
}

func writeTable(b *strings.Builder, list []Summary) {
	b.WriteString("| Airline | Departure | Arrival | Duration | Stops | Price | Book |\n")
	b.WriteString("|---------|-----------|---------|----------|-------|-------|------|\n")
	for _, s := range list {
		book := "—"
		if len(s.BookingLinks) > 0 {
			book = fmt.Sprintf("[Book](%s)", s.BookingLinks[0])
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			s.Airline, s.Departure, s.Arrival, s.Duration, stopsCell(s), s.Price, book)
	}
	b.WriteString("\n")
}

// stopsCell renders the trip type plus layover details for stopped flights.
func stopsCell(s Summary) string {
	if s.StopCount == 0 || len(s.Layovers) == 0 {
		return s.TripType
	}
	return fmt.Sprintf("%s via %s", s.TripType, strings.Join(s.Layovers, ", "))
}

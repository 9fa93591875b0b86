// Package flights turns raw upstream search results into normalized,
// display-ready flight summaries.
package flights

import (
	"fmt"
	"sort"
)

// TripTypeNonstop labels flights with zero intermediate stops.
const TripTypeNonstop = "Nonstop"

// Summary is one normalized flight offer. It is immutable after
// construction and lives only for the duration of one search response.
type Summary struct {
	TripType     string   `json:"tripType"`
	Airline      string   `json:"airline"`
	Duration     string   `json:"duration"`
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	RawPrice     int64    `json:"rawPrice"`
	Price        string   `json:"price"`
	Departure    string   `json:"departure"`
	Arrival      string   `json:"arrival"`
	StopCount    int      `json:"stopCount"`
	Layovers     []string `json:"layovers,omitempty"`
	BookingLinks []string `json:"bookingLinks,omitempty"`
}

// tripType renders the stop count as a display label.
func tripType(stopCount int) string {
	switch {
	case stopCount <= 0:
		return TripTypeNonstop
	case stopCount == 1:
		return "1 Stop"
	default:
		return fmt.Sprintf("%d Stops", stopCount)
	}
}

// Sort orders summaries for display: all nonstop flights first, keeping
// their original relative order, followed by stopped flights in
// non-decreasing raw-price order. This is a partition-then-sort, not a
// global price sort, so direct options always lead.
func Sort(list []Summary) []Summary {
	direct := make([]Summary, 0, len(list))
	stopped := make([]Summary, 0, len(list))
	for _, s := range list {
		if s.StopCount == 0 {
			direct = append(direct, s)
		} else {
			stopped = append(stopped, s)
		}
	}
	sort.SliceStable(stopped, func(i, j int) bool {
		return stopped[i].RawPrice < stopped[j].RawPrice
	})
	return append(direct, stopped...)
}

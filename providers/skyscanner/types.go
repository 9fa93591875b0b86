package skyscanner

import "time"

// Place entity types returned by autosuggest.
const (
	PlaceTypeAirport = "PLACE_TYPE_AIRPORT"
	PlaceTypeCity    = "PLACE_TYPE_CITY"
)

// PriceUnitMilli marks prices expressed in thousandths of the major unit.
// Any other unit tag is treated as an unusable price.
const PriceUnitMilli = "PRICE_UNIT_MILLI"

// PlaceSuggestion is one autosuggest candidate, airport or city.
type PlaceSuggestion struct {
	EntityID    string `json:"entityId"`
	IataCode    string `json:"iataCode"`
	Name        string `json:"name"`
	CityName    string `json:"cityName"`
	CountryName string `json:"countryName"`
	Type        string `json:"type"`
}

// IsAirport reports whether the suggestion is an airport-type entity.
func (p PlaceSuggestion) IsAirport() bool { return p.Type == PlaceTypeAirport }

type autosuggestRequest struct {
	Market              string   `json:"market"`
	Locale              string   `json:"locale"`
	SearchTerm          string   `json:"searchTerm"`
	IncludedEntityTypes []string `json:"includedEntityTypes"`
	Limit               int      `json:"limit"`
}

type autosuggestResponse struct {
	Places []PlaceSuggestion `json:"places"`
}

// SearchQuery is the structured flight-search submission. EntityID is
// preferred for place references; IATA codes are the fallback.
type SearchQuery struct {
	OriginEntityID      string
	OriginIata          string
	DestinationEntityID string
	DestinationIata     string
	Year                int
	Month               int
	Day                 int
	Adults              int
	Children            int
	CabinClass          string
	Market              string
	Locale              string
	Currency            string
}

type placeRef struct {
	EntityID string `json:"entityId,omitempty"`
	Iata     string `json:"iata,omitempty"`
}

type searchRequest struct {
	Origin      placeRef `json:"originPlace"`
	Destination placeRef `json:"destinationPlace"`
	Date        struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"date"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	CabinClass string `json:"cabinClass"`
	Market     string `json:"market"`
	Locale     string `json:"locale"`
	Currency   string `json:"currency"`
}

// SearchResponse is the top-level flight-search payload. Both the session
// token and the results graph are required for the response to be usable.
type SearchResponse struct {
	SessionToken string   `json:"sessionToken"`
	Results      *Results `json:"results"`
}

// Results is the itinerary graph: an ordered itinerary list plus id-keyed
// mappings for everything the itineraries reference.
type Results struct {
	Itineraries []Itinerary        `json:"itineraries"`
	Legs        map[string]Leg     `json:"legs"`
	Segments    map[string]Segment `json:"segments"`
	Places      map[string]Place   `json:"places"`
	Carriers    map[string]Carrier `json:"carriers"`
}

// Itinerary is one bookable offer: leg references plus pricing options.
type Itinerary struct {
	ID             string          `json:"id"`
	LegIDs         []string        `json:"legIds"`
	PricingOptions []PricingOption `json:"pricingOptions"`
}

type PricingOption struct {
	Price PriceAmount   `json:"price"`
	Items []PricingItem `json:"items"`
}

type PriceAmount struct {
	// Amount is a decimal integer string in the unit given by Unit.
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type PricingItem struct {
	DeepLink string `json:"deepLink"`
}

// Leg is one directional origin→destination trip within an itinerary.
type Leg struct {
	OriginPlaceID       string   `json:"originPlaceId"`
	DestinationPlaceID  string   `json:"destinationPlaceId"`
	Departure           DateTime `json:"departureDateTime"`
	Arrival             DateTime `json:"arrivalDateTime"`
	DurationInMinutes   int      `json:"durationInMinutes"`
	StopCount           int      `json:"stopCount"`
	MarketingCarrierIDs []string `json:"marketingCarrierIds"`
	SegmentIDs          []string `json:"segmentIds"`
}

// Segment is one physical flight hop within a leg.
type Segment struct {
	OriginPlaceID      string   `json:"originPlaceId"`
	DestinationPlaceID string   `json:"destinationPlaceId"`
	Departure          DateTime `json:"departureDateTime"`
	Arrival            DateTime `json:"arrivalDateTime"`
	MarketingCarrierID string   `json:"marketingCarrierId"`
}

type Place struct {
	EntityID string `json:"entityId"`
	Iata     string `json:"iata"`
	Name     string `json:"name"`
	Type     string `json:"type"`
}

type Carrier struct {
	Name        string `json:"name"`
	DisplayCode string `json:"displayCode"`
	Iata        string `json:"iata"`
}

// DateTime is the component-wise timestamp the upstream API uses.
// A zero value means the component set was absent.
type DateTime struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// IsZero reports whether no date components are set.
func (d DateTime) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0 && d.Hour == 0 && d.Minute == 0
}

// Valid reports whether the components form a plausible calendar instant.
func (d DateTime) Valid() bool {
	return d.Year > 0 && d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= 31 &&
		d.Hour >= 0 && d.Hour <= 23 && d.Minute >= 0 && d.Minute <= 59
}

// Time builds the instant in UTC. Callers must check Valid first.
func (d DateTime) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, 0, 0, time.UTC)
}

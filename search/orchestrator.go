// Package search sequences airport resolution, upstream search
// submission, extraction, sorting, and rendering, and owns the result
// cache and the cross-call disambiguation state.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/skyhop/flightmcp/airports"
	"github.com/skyhop/flightmcp/cache"
	"github.com/skyhop/flightmcp/flights"
	"github.com/skyhop/flightmcp/format"
	"github.com/skyhop/flightmcp/log"
	"github.com/skyhop/flightmcp/providers/skyscanner"
	"github.com/skyhop/flightmcp/session"
)

const dateLayout = "2006-01-02"

// CabinClasses are the accepted fare tiers, in tool-argument form.
var CabinClasses = []string{"economy", "premium_economy", "business", "first"}

// cabinClassTags maps tool-argument cabin classes to upstream tags.
var cabinClassTags = map[string]string{
	"economy":         "CABIN_CLASS_ECONOMY",
	"premium_economy": "CABIN_CLASS_PREMIUM_ECONOMY",
	"business":        "CABIN_CLASS_BUSINESS",
	"first":           "CABIN_CLASS_FIRST",
}

// Request is one search_flights invocation.
type Request struct {
	From       string
	To         string
	Date       string // ISO YYYY-MM-DD
	Adults     int
	Children   int
	CabinClass string
	Country    string // market override; defaults to the configured market

	// Pre-resolved entity identifiers, when the caller already knows them.
	FromEntityID string
	ToEntityID   string

	// Disambiguation follow-up selections.
	SelectedFromIata string
	SelectedToIata   string

	// SessionID keys pending disambiguation state per conversation.
	SessionID string
}

// Response is the rendered outcome of a search call. Business conditions
// (validation, ambiguity, no results) are carried in Text, never as errors.
type Response struct {
	Text          string
	Cards         []flights.Card
	Fallback      bool // illustrative placeholder data, upstream was unavailable
	Clarification bool // the caller must pick an airport and call again
}

// Upstream is the slice of the partner client the orchestrator uses.
type Upstream interface {
	airports.Autosuggester
	CreateSearch(ctx context.Context, q skyscanner.SearchQuery) (*skyscanner.SearchResponse, error)
}

// cachedResult memoizes a rendered search.
type cachedResult struct {
	text  string
	cards []flights.Card
}

// pending is the stashed state of a search awaiting airport clarification.
type pending struct {
	req         Request
	originCands []skyscanner.PlaceSuggestion
	destCands   []skyscanner.PlaceSuggestion
	origin      *skyscanner.PlaceSuggestion
	dest        *skyscanner.PlaceSuggestion
}

// Options configures an Orchestrator.
type Options struct {
	Client     Upstream
	CacheTTL   time.Duration
	CacheSize  int
	SessionTTL time.Duration
	SiteURL    string // public site for view-all links
	Market     string // default market when the request has no country
	Locale     string
	Now        func() time.Time
}

// Orchestrator runs flight searches. All state is injected; there is no
// package-level mutable state, so concurrent conversations do not race.
type Orchestrator struct {
	client   Upstream
	resolver *airports.Resolver
	cache    *cache.Cache[cachedResult]
	sessions *session.Store[*pending]
	siteURL  string
	market   string
	locale   string
	now      func() time.Time
}

// New creates an orchestrator from options, filling unset fields with
// sensible defaults.
func New(opts Options) *Orchestrator {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 15 * time.Minute
	}
	if opts.SiteURL == "" {
		opts.SiteURL = "https://www.skyscanner.net"
	}
	if opts.Market == "" {
		opts.Market = "US"
	}
	if opts.Locale == "" {
		opts.Locale = "en-US"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		client:   opts.Client,
		resolver: airports.NewResolver(opts.Client),
		cache:    cache.New[cachedResult](opts.CacheTTL, opts.CacheSize),
		sessions: session.NewStore[*pending](opts.SessionTTL),
		siteURL:  opts.SiteURL,
		market:   opts.Market,
		locale:   opts.Locale,
		now:      opts.Now,
	}
}

// Search handles one search_flights call, including disambiguation
// follow-ups for the same session.
func (o *Orchestrator) Search(ctx context.Context, req Request) Response {
	req, errText := normalize(req)
	if errText != "" {
		return Response{Text: errText}
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return Response{Text: fmt.Sprintf("The travel date %q is not valid. Please use YYYY-MM-DD.", req.Date)}
	}

	// Past dates never reach the upstream API.
	n := o.now()
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return Response{Text: fmt.Sprintf("The travel date %s is in the past. Please pick today or a future date.", req.Date)}
	}

	market := o.market
	if req.Country != "" {
		market = strings.ToUpper(req.Country)
	}
	currency := format.CurrencyForCountry(market)

	key := cacheKey(req, market)
	if hit, ok := o.cache.Get(key); ok {
		log.Debugf(ctx, "cache hit for %s", key)
		// A served search ends any clarification in flight.
		o.sessions.Delete(req.SessionID)
		return Response{Text: hit.text, Cards: hit.cards}
	}

	origin, dest, clarification := o.resolvePlaces(ctx, req, market)
	if clarification != nil {
		return *clarification
	}

	return o.execute(ctx, req, origin, dest, date, market, currency, key)
}

// normalize applies argument defaults and validates passenger counts and
// cabin class. A non-empty return text is a user-facing validation message.
func normalize(req Request) (Request, string) {
	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	req.Date = strings.TrimSpace(req.Date)
	if req.From == "" || req.To == "" || req.Date == "" {
		return req, "Please provide the origin, destination, and travel date (YYYY-MM-DD)."
	}

	if req.Adults == 0 {
		req.Adults = 1
	}
	if req.Adults < 1 || req.Adults > 9 {
		return req, "Adults must be between 1 and 9."
	}
	if req.Children < 0 || req.Children > 8 {
		return req, "Children must be between 0 and 8."
	}

	if req.CabinClass == "" {
		req.CabinClass = "economy"
	}
	req.CabinClass = strings.ToLower(req.CabinClass)
	if _, ok := cabinClassTags[req.CabinClass]; !ok {
		return req, fmt.Sprintf("Cabin class %q is not recognized. Choose one of: %s.", req.CabinClass, strings.Join(CabinClasses, ", "))
	}
	return req, ""
}

// cacheKey is case-insensitive and field-order-stable.
func cacheKey(req Request, market string) string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%s|%d|%d|%s|%s",
		req.From, req.To, req.Date, req.Adults, req.Children, req.CabinClass, market))
}

// resolvePlaces produces resolved origin and destination places, consuming
// or creating pending disambiguation state as needed. A non-nil Response
// means the caller gets a clarification or not-found message instead of
// search results.
func (o *Orchestrator) resolvePlaces(ctx context.Context, req Request, market string) (skyscanner.PlaceSuggestion, skyscanner.PlaceSuggestion, *Response) {
	var none skyscanner.PlaceSuggestion

	if p, ok := o.sessions.Get(req.SessionID); ok {
		if p.req.Date != req.Date {
			// Route or date changed; the stashed search is obsolete.
			o.sessions.Delete(req.SessionID)
		} else if origin, dest, resp, consumed := o.continuePending(req, p); consumed {
			return origin, dest, resp
		} else {
			o.sessions.Delete(req.SessionID)
		}
	}

	// Pre-resolved entity identifiers skip autosuggest entirely.
	origin := skyscanner.PlaceSuggestion{EntityID: req.FromEntityID, IataCode: iataOrEmpty(req.From)}
	dest := skyscanner.PlaceSuggestion{EntityID: req.ToEntityID, IataCode: iataOrEmpty(req.To)}
	if req.FromEntityID != "" && req.ToEntityID != "" {
		return origin, dest, nil
	}

	// Origin and destination resolve concurrently to halve the latency.
	var (
		originRes, destRes airports.Resolution
		wg                 sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if req.FromEntityID != "" {
			originRes = airports.Resolution{Outcome: airports.Resolved, Place: origin}
			return
		}
		originRes = o.resolver.Resolve(ctx, req.From, market)
	}()
	go func() {
		defer wg.Done()
		if req.ToEntityID != "" {
			destRes = airports.Resolution{Outcome: airports.Resolved, Place: dest}
			return
		}
		destRes = o.resolver.Resolve(ctx, req.To, market)
	}()
	wg.Wait()

	if originRes.Outcome == airports.NotFound || destRes.Outcome == airports.NotFound {
		var missing []string
		if originRes.Outcome == airports.NotFound {
			missing = append(missing, fmt.Sprintf("%q", req.From))
		}
		if destRes.Outcome == airports.NotFound {
			missing = append(missing, fmt.Sprintf("%q", req.To))
		}
		return none, none, &Response{Text: fmt.Sprintf(
			"I couldn't find an airport matching %s. Try a different name or an IATA code.",
			strings.Join(missing, " or "))}
	}

	if originRes.Outcome == airports.Ambiguous || destRes.Outcome == airports.Ambiguous {
		p := &pending{req: req}
		var prompts []string
		if originRes.Outcome == airports.Ambiguous {
			p.originCands = originRes.Candidates
			prompts = append(prompts, originRes.Message)
		} else {
			place := originRes.Place
			p.origin = &place
		}
		if destRes.Outcome == airports.Ambiguous {
			p.destCands = destRes.Candidates
			prompts = append(prompts, destRes.Message)
		} else {
			place := destRes.Place
			p.dest = &place
		}
		o.sessions.Put(req.SessionID, p)
		return none, none, &Response{Text: strings.Join(prompts, "\n\n"), Clarification: true}
	}

	return originRes.Place, destRes.Place, nil
}

// continuePending matches a follow-up call against stashed candidates.
// consumed is false when the input looks like a brand-new route, in which
// case the caller falls through to fresh resolution.
func (o *Orchestrator) continuePending(req Request, prior *pending) (skyscanner.PlaceSuggestion, skyscanner.PlaceSuggestion, *Response, bool) {
	var none skyscanner.PlaceSuggestion

	// Stored state is never mutated in place; concurrent calls on one
	// session each work on their own copy.
	cp := *prior
	p := &cp

	if p.origin == nil {
		input := firstNonEmpty(req.SelectedFromIata, req.From)
		if c, ok := airports.MatchCandidate(input, p.originCands); ok {
			p.origin = &c
		} else if !strings.EqualFold(input, p.req.From) {
			return none, none, nil, false
		}
	}
	if p.dest == nil {
		input := firstNonEmpty(req.SelectedToIata, req.To)
		if c, ok := airports.MatchCandidate(input, p.destCands); ok {
			p.dest = &c
		} else if !strings.EqualFold(input, p.req.To) {
			return none, none, nil, false
		}
	}

	if p.origin != nil && p.dest != nil {
		o.sessions.Delete(req.SessionID)
		return *p.origin, *p.dest, nil, true
	}

	// Still ambiguous on at least one side; re-emit the same prompt.
	var prompts []string
	if p.origin == nil {
		prompts = append(prompts, airports.AmbiguityPrompt(p.req.From, p.originCands))
	}
	if p.dest == nil {
		prompts = append(prompts, airports.AmbiguityPrompt(p.req.To, p.destCands))
	}
	o.sessions.Put(req.SessionID, p)
	return none, none, &Response{Text: strings.Join(prompts, "\n\n"), Clarification: true}, true
}

// execute submits the upstream search and renders the outcome. Any
// upstream failure degrades to the fixed illustrative list.
func (o *Orchestrator) execute(ctx context.Context, req Request, origin, dest skyscanner.PlaceSuggestion, date time.Time, market, currency, key string) Response {
	fromCode := displayCode(origin, req.From)
	toCode := displayCode(dest, req.To)

	q := skyscanner.SearchQuery{
		OriginEntityID:      origin.EntityID,
		OriginIata:          strings.ToUpper(origin.IataCode),
		DestinationEntityID: dest.EntityID,
		DestinationIata:     strings.ToUpper(dest.IataCode),
		Year:                date.Year(),
		Month:               int(date.Month()),
		Day:                 date.Day(),
		Adults:              req.Adults,
		Children:            req.Children,
		CabinClass:          cabinClassTags[req.CabinClass],
		Market:              market,
		Locale:              o.locale,
		Currency:            currency,
	}

	resp, err := o.client.CreateSearch(ctx, q)
	if err != nil || resp == nil || resp.SessionToken == "" || resp.Results == nil {
		log.Warnf(ctx, "upstream search unavailable for %s → %s: %v", fromCode, toCode, err)
		return o.fallback(req, fromCode, toCode, currency)
	}

	list := flights.Sort(flights.Extract(resp.Results, fromCode, toCode, currency))
	text := flights.RenderMarkdown(fromCode, toCode, req.Date, list, o.viewAllURL(fromCode, toCode, date, req))
	cards := flights.RenderCards(list)

	o.cache.Set(key, cachedResult{text: text, cards: cards})
	o.sessions.Delete(req.SessionID)
	log.Infof(ctx, "search %s → %s on %s returned %d flights", fromCode, toCode, req.Date, len(list))

	return Response{Text: text, Cards: cards}
}

// ResolveAirport is the resolve_airport tool body: a textual description
// of the resolved place, or an ambiguity / not-found message.
func (o *Orchestrator) ResolveAirport(ctx context.Context, searchTerm string) string {
	res := o.resolver.Resolve(ctx, searchTerm, o.market)
	switch res.Outcome {
	case airports.Resolved:
		p := res.Place
		if p.IataCode != "" {
			return fmt.Sprintf("%s (%s), %s, %s — entity id %s", p.Name, p.IataCode, p.CityName, p.CountryName, p.EntityID)
		}
		return fmt.Sprintf("%s, %s — entity id %s", p.Name, p.CountryName, p.EntityID)
	case airports.Ambiguous:
		return res.Message
	default:
		return fmt.Sprintf("I couldn't find a place matching %q. Try a different name or an IATA code.", searchTerm)
	}
}

func (o *Orchestrator) viewAllURL(fromCode, toCode string, date time.Time, req Request) string {
	return fmt.Sprintf("%s/transport/flights/%s/%s/%s/?adults=%d&children=%d&cabinclass=%s",
		o.siteURL,
		strings.ToLower(fromCode), strings.ToLower(toCode), date.Format("060102"),
		req.Adults, req.Children, req.CabinClass)
}

// displayCode prefers the place's IATA code and falls back to the
// caller's original input.
func displayCode(p skyscanner.PlaceSuggestion, fallback string) string {
	if p.IataCode != "" {
		return strings.ToUpper(p.IataCode)
	}
	return fallback
}

// iataOrEmpty treats three-letter input as an IATA code.
func iataOrEmpty(input string) string {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) != 3 {
		return ""
	}
	for _, r := range trimmed {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return ""
		}
	}
	return strings.ToUpper(trimmed)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

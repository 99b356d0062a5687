package search

import (
	"context"
	"log/slog"
	"salamyar/lib/platforms/catalog"
	"salamyar/lib/telemetry"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("salamyar/services/search")
var meter = telemetry.Meter("salamyar/services/search")
var searchCounter, _ = meter.Int64Counter("searches")
var pageCounter, _ = meter.Int64Counter("search_pages")

// ItemsPerPage is the fixed page size of every search request.
const ItemsPerPage = 12

const MessageSearchFailed = "خطا در جستجوی محصولات. لطفا دوباره تلاش کنید."

type Client interface {
	SearchProducts(ctx context.Context, query string, from, size int) (catalog.SearchResponse, error)
}

// State is a snapshot of the search results.
type State struct {
	// in page arrival order
	Products     []catalog.Product
	Loading      bool
	Error        string
	HasMore      bool
	TotalCount   int
	CurrentQuery string
	// nil before the first page of the current search arrives
	Meta *catalog.SearchMeta
}

// Searcher owns paginated search results for one query at a time.
//
// Every Search starts a new generation. The request of the previous
// generation is cancelled and any response that still arrives for it is
// dropped, so results always belong to the latest query.
type Searcher struct {
	client Client

	mutex      sync.Mutex
	products   []catalog.Product
	meta       *catalog.SearchMeta
	query      string
	err        string
	loading    bool
	generation uint64
	cancel     context.CancelFunc
}

func New(client Client) *Searcher {
	return &Searcher{client: client}
}

// Search clears the previous results and fetches the first page of `query`.
// A blank query does nothing.
func (s *Searcher) Search(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	s.mutex.Lock()
	s.supersede()
	s.products = nil
	s.meta = nil
	s.err = ""
	gen := s.generation
	reqCtx, cancel := s.begin(ctx)
	s.mutex.Unlock()

	searchCounter.Add(ctx, 1)
	s.fetch(reqCtx, cancel, gen, query, 0, true)
}

// LoadMore appends the next page of the active query. It does nothing when
// there is no active query, no further page, or a request in flight.
func (s *Searcher) LoadMore(ctx context.Context) {
	s.mutex.Lock()
	if strings.TrimSpace(s.query) == "" || s.meta == nil || !s.meta.HasMore || s.loading {
		s.mutex.Unlock()
		return
	}
	query := s.query
	from := s.meta.NextOffset()
	gen := s.generation
	s.err = ""
	reqCtx, cancel := s.begin(ctx)
	s.mutex.Unlock()

	s.fetch(reqCtx, cancel, gen, query, from, false)
}

// Clear drops the results and the active query, cancelling any request in
// flight.
func (s *Searcher) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.supersede()
	s.products = nil
	s.meta = nil
	s.err = ""
	s.query = ""
}

// Close cancels any request in flight. The Searcher stays usable.
func (s *Searcher) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.supersede()
}

func (s *Searcher) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := State{
		Products:     append([]catalog.Product(nil), s.products...),
		Loading:      s.loading,
		Error:        s.err,
		CurrentQuery: s.query,
	}
	if s.meta != nil {
		meta := *s.meta
		state.Meta = &meta
		state.HasMore = meta.HasMore
		state.TotalCount = meta.TotalCount
	}
	return state
}

// supersede must be called with the mutex held.
func (s *Searcher) supersede() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.loading = false
}

// begin must be called with the mutex held.
func (s *Searcher) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loading = true
	return reqCtx, cancel
}

func (s *Searcher) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, query string, from int, reset bool) {
	defer cancel()

	ctx, span := tracer.Start(ctx, "Searcher:fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("custom.query", query),
		attribute.Int("custom.from", from),
	)

	res, err := s.client.SearchProducts(ctx, query, from, ItemsPerPage)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if gen != s.generation {
		span.AddEvent("dropped superseded response")
		return
	}
	s.loading = false
	s.cancel = nil

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.err = catalog.Message(err, MessageSearchFailed)
		slog.ErrorContext(ctx, "search error", "query", query, "from", from, "err", err)
		return
	}

	pageCounter.Add(ctx, 1)
	if reset {
		s.products = append([]catalog.Product{}, res.Products...)
		s.query = query
	} else {
		s.products = append(s.products, res.Products...)
	}
	meta := res.Meta
	s.meta = &meta
}

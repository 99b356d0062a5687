package selection

import (
	"context"
	"log/slog"
	"salamyar/lib/platforms/catalog"
	"salamyar/lib/telemetry"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("salamyar/services/selection")
var meter = telemetry.Meter("salamyar/services/selection")
var selectCounter, _ = meter.Int64Counter("selections")
var confirmCounter, _ = meter.Int64Counter("cart_confirmations")

type Client interface {
	SelectProduct(ctx context.Context, req catalog.SelectProductRequest) (catalog.SelectedProduct, error)
	SelectedProducts(ctx context.Context) (catalog.SelectedProductsResponse, error)
	RemoveSelectedProduct(ctx context.Context, productID int64) (catalog.MessageResponse, error)
	ClearSelectedProducts(ctx context.Context) (catalog.MessageResponse, error)
	ConfirmCart(ctx context.Context) (catalog.CartConfirmation, error)
}

type State struct {
	// newest selection first
	Products []catalog.SelectedProduct
	// true while any operation is in flight
	Loading bool
	Error   string
	// empty until StartNewSearchSession is called
	SessionID string
	// product chosen in the current search session, 0 if none
	SelectedForSession int64
	// the shortlist has held at least one product at some point
	EverSelected bool
}

// Selector owns the shortlist and enforces that each search session
// contributes at most one product to it.
//
// Local state only changes after the backend accepted the change. A failed
// operation leaves the shortlist untouched and sets Error.
type Selector struct {
	client Client
	now    func() time.Time

	mutex              sync.Mutex
	products           []catalog.SelectedProduct
	err                string
	sessionID          string
	selectedForSession int64
	// a selection for the current session is in flight
	reserved     bool
	everSelected bool
	inflight     int
	nextOp       uint64
	cancels      map[uint64]context.CancelFunc
}

type Options struct {
	// defaults to time.Now
	Now func() time.Time
}

func New(client Client, opts Options) *Selector {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Selector{
		client:  client,
		now:     now,
		cancels: map[uint64]context.CancelFunc{},
	}
}

// begin must be called with the mutex held, so must the returned func.
func (s *Selector) begin(ctx context.Context) (context.Context, func()) {
	s.inflight++
	s.err = ""

	id := s.nextOp
	s.nextOp++
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancels[id] = cancel

	return reqCtx, func() {
		delete(s.cancels, id)
		cancel()
		s.inflight--
	}
}

// fail must be called with the mutex held.
func (s *Selector) fail(ctx context.Context, op string, err error, fallback string) {
	if ctx.Err() != nil {
		return
	}
	s.err = catalog.Message(err, fallback)
	slog.ErrorContext(ctx, "selection error", "op", op, "err", err)
}

// StartNewSearchSession must be called once per submitted search. It
// returns the new session id and frees the one-selection slot.
func (s *Selector) StartNewSearchSession() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessionID = NewSessionID(s.now())
	s.selectedForSession = 0
	s.reserved = false
	return s.sessionID
}

// Load replaces the shortlist with the backend's copy.
func (s *Selector) Load(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "Selector:Load")
	defer span.End()

	s.mutex.Lock()
	ctx, done := s.begin(ctx)
	s.mutex.Unlock()

	res, err := s.client.SelectedProducts(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer done()

	if err != nil {
		s.fail(ctx, "load", err, MessageLoadFailed)
		return false
	}
	s.products = append([]catalog.SelectedProduct{}, res.Products...)
	if len(s.products) > 0 {
		s.everSelected = true
	}
	return true
}

// SelectProduct adds `product` to the shortlist on behalf of the current
// search session. It fails without a network call when no session is active
// or the session already has a product.
func (s *Selector) SelectProduct(ctx context.Context, product catalog.Product) bool {
	ctx, span := tracer.Start(ctx, "Selector:SelectProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("custom.product_id", product.ID))

	s.mutex.Lock()
	if s.sessionID == "" {
		s.err = MessageNoSession
		s.mutex.Unlock()
		return false
	}
	if s.selectedForSession != 0 || s.reserved {
		s.err = MessageAlreadySelected
		s.mutex.Unlock()
		return false
	}
	sessionID := s.sessionID
	s.reserved = true
	ctx, done := s.begin(ctx)
	s.mutex.Unlock()

	selected, err := s.client.SelectProduct(ctx, catalog.NewSelectProductRequest(product, sessionID))

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer done()

	stillCurrent := s.sessionID == sessionID
	if stillCurrent {
		s.reserved = false
	}
	if err != nil {
		s.fail(ctx, "select", err, MessageSelectFailed)
		return false
	}

	s.products = append([]catalog.SelectedProduct{selected}, s.products...)
	s.everSelected = true
	if stillCurrent {
		s.selectedForSession = product.ID
	}
	selectCounter.Add(ctx, 1)
	return true
}

// RemoveProduct deletes the selection of `productID`. Whether an unknown id
// is an error is up to the backend; when it reports success the local
// shortlist is simply left as it was.
func (s *Selector) RemoveProduct(ctx context.Context, productID int64) bool {
	ctx, span := tracer.Start(ctx, "Selector:RemoveProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("custom.product_id", productID))

	s.mutex.Lock()
	ctx, done := s.begin(ctx)
	s.mutex.Unlock()

	_, err := s.client.RemoveSelectedProduct(ctx, productID)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer done()

	if err != nil {
		s.fail(ctx, "remove", err, MessageRemoveFailed)
		return false
	}

	remaining := make([]catalog.SelectedProduct, 0, len(s.products))
	for _, p := range s.products {
		if p.ProductID != productID {
			remaining = append(remaining, p)
		}
	}
	s.products = remaining
	if s.selectedForSession == productID {
		s.selectedForSession = 0
	}
	return true
}

// ConfirmCart returns the vendor-match report for the shortlist. An empty
// shortlist fails without a network call.
func (s *Selector) ConfirmCart(ctx context.Context) (*catalog.CartConfirmation, bool) {
	ctx, span := tracer.Start(ctx, "Selector:ConfirmCart")
	defer span.End()

	s.mutex.Lock()
	if len(s.products) == 0 {
		s.err = MessageEmptyCart
		s.mutex.Unlock()
		return nil, false
	}
	ctx, done := s.begin(ctx)
	s.mutex.Unlock()

	res, err := s.client.ConfirmCart(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer done()

	if err != nil {
		s.fail(ctx, "confirm", err, MessageConfirmFailed)
		return nil, false
	}
	confirmCounter.Add(ctx, 1)
	return &res, true
}

// ClearAllProducts deletes every selection.
func (s *Selector) ClearAllProducts(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "Selector:ClearAllProducts")
	defer span.End()

	s.mutex.Lock()
	ctx, done := s.begin(ctx)
	s.mutex.Unlock()

	_, err := s.client.ClearSelectedProducts(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	defer done()

	if err != nil {
		s.fail(ctx, "clear", err, MessageClearFailed)
		return false
	}
	s.products = nil
	s.selectedForSession = 0
	return true
}

// ClearError dismisses the current error message.
func (s *Selector) ClearError() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.err = ""
}

// Close cancels every operation in flight.
func (s *Selector) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *Selector) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return State{
		Products:           append([]catalog.SelectedProduct(nil), s.products...),
		Loading:            s.inflight > 0,
		Error:              s.err,
		SessionID:          s.sessionID,
		SelectedForSession: s.selectedForSession,
		EverSelected:       s.everSelected,
	}
}

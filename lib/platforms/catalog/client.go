package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"salamyar/lib/restyutil"
	"salamyar/lib/telemetry"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

var tracer = telemetry.Tracer("salamyar/platforms/catalog")

const userAgent = "salamyar-cli/1.0"

// Client talks to the catalog-search service: product search, the
// selection shortlist and cart confirmation.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

type ClientOptions struct {
	BaseUrl string
	// zero means no timeout
	Timeout time.Duration
	// attached as a bearer token when set
	Token string
	// dumps http exchanges when debug logging is on, can be nil
	Output restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		return nil, fmt.Errorf("catalog base url is not configured")
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	restyutil.InstrumentClient(client, telemetry.Tracer("salamyar/platforms/catalog/http"), opts.Output)

	return &Client{http: client, token: opts.Token}, nil
}

// SetToken replaces the bearer token sent with each request, an empty token
// stops sending one.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// request starts a request carrying the current bearer token.
func (c *Client) request(ctx context.Context) *resty.Request {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func decode[T any](res *resty.Response, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if res.IsError() {
		return out, newAPIError(res)
	}
	err = json.Unmarshal(res.Body(), &out)
	if err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string, from, size int) (SearchResponse, error) {
	ctx, span := tracer.Start(ctx, "client:SearchProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("custom.query", query),
		attribute.Int("custom.from", from),
		attribute.Int("custom.size", size),
	)

	out, err := decode[SearchResponse](
		c.request(ctx).
			SetQueryParam("q", query).
			SetQueryParam("from", strconv.Itoa(from)).
			SetQueryParam("size", strconv.Itoa(size)).
			Get("/search/products"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search products")
		return SearchResponse{}, err
	}
	span.SetAttributes(attribute.Int("custom.results", len(out.Products)))
	return out, nil
}

func (c *Client) SelectProduct(ctx context.Context, req SelectProductRequest) (SelectedProduct, error) {
	ctx, span := tracer.Start(ctx, "client:SelectProduct")
	defer span.End()

	out, err := decode[SelectedProduct](
		c.request(ctx).
			SetHeader("content-type", "application/json").
			SetBody(req).
			Post("/selections/products"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to select product")
		return SelectedProduct{}, err
	}
	return out, nil
}

func (c *Client) SelectedProducts(ctx context.Context) (SelectedProductsResponse, error) {
	ctx, span := tracer.Start(ctx, "client:SelectedProducts")
	defer span.End()

	out, err := decode[SelectedProductsResponse](
		c.request(ctx).
			Get("/selections/products"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list selected products")
		return SelectedProductsResponse{}, err
	}
	return out, nil
}

func (c *Client) RemoveSelectedProduct(ctx context.Context, productID int64) (MessageResponse, error) {
	ctx, span := tracer.Start(ctx, "client:RemoveSelectedProduct")
	defer span.End()

	out, err := decode[MessageResponse](
		c.request(ctx).
			SetPathParam("productId", strconv.FormatInt(productID, 10)).
			Delete("/selections/products/{productId}"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove selected product")
		return MessageResponse{}, err
	}
	return out, nil
}

func (c *Client) ClearSelectedProducts(ctx context.Context) (MessageResponse, error) {
	ctx, span := tracer.Start(ctx, "client:ClearSelectedProducts")
	defer span.End()

	out, err := decode[MessageResponse](
		c.request(ctx).
			Delete("/selections/products"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear selected products")
		return MessageResponse{}, err
	}
	return out, nil
}

// ConfirmCart asks the backend to find vendors holding several of the
// shortlisted products. The shortlist itself is identified server side.
func (c *Client) ConfirmCart(ctx context.Context) (CartConfirmation, error) {
	ctx, span := tracer.Start(ctx, "client:ConfirmCart")
	defer span.End()

	out, err := decode[CartConfirmation](
		c.request(ctx).
			SetHeader("content-type", "application/json").
			Post("/selections/confirm"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to confirm cart")
		return CartConfirmation{}, err
	}
	span.SetAttributes(attribute.Int("custom.vendor_matches", len(out.VendorsWithMultipleMatches)))
	return out, nil
}

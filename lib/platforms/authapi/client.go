package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"salamyar/lib/restyutil"
	"salamyar/lib/telemetry"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("salamyar/platforms/authapi")

const DefaultBaseUrl = "http://localhost:8000/api/v1"

// Client talks to the auth service. It holds no token itself, calls that
// need one take it as a parameter.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	Timeout time.Duration
	Output  restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("user-agent", "salamyar-cli/1.0")
	client.SetHeader("accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	restyutil.InstrumentClient(client, telemetry.Tracer("salamyar/platforms/authapi/http"), opts.Output)

	return &Client{http: client}
}

func decode[T any](res *resty.Response, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if res.IsError() {
		return out, newAuthError(res)
	}
	err = json.Unmarshal(res.Body(), &out)
	if err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	err := validateRequest(req)
	if err != nil {
		span.SetStatus(codes.Error, "invalid login request")
		return AuthResponse{}, err
	}

	out, err := decode[AuthResponse](
		c.http.R().
			SetContext(ctx).
			SetHeader("content-type", "application/json").
			SetBody(req).
			Post("/auth/login"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	ctx, span := tracer.Start(ctx, "client:Register")
	defer span.End()

	err := validateRequest(req)
	if err != nil {
		span.SetStatus(codes.Error, "invalid register request")
		return AuthResponse{}, err
	}

	out, err := decode[AuthResponse](
		c.http.R().
			SetContext(ctx).
			SetHeader("content-type", "application/json").
			SetBody(req).
			Post("/auth/register"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to register")
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context, token string) (MessageResponse, error) {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	out, err := decode[MessageResponse](
		c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader("content-type", "application/json").
			Post("/auth/logout"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to logout")
		return MessageResponse{}, err
	}
	return out, nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (User, error) {
	ctx, span := tracer.Start(ctx, "client:CurrentUser")
	defer span.End()

	out, err := decode[CurrentUserResponse](
		c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			Get("/auth/me"),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch current user")
		return User{}, err
	}
	return out.User, nil
}

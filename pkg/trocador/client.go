package trocador

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/swapgate-network/swapgate-daemon/pkg/circuitbreaker"
	"github.com/swapgate-network/swapgate-daemon/pkg/httputil"
	"go.uber.org/ratelimit"
)

const (
	// DefaultBaseURL is the public endpoint of the Trocador API.
	DefaultBaseURL = "https://api.trocador.app"
	// APIKeyHeader is the header carrying the partner API key.
	APIKeyHeader = "API-Key"

	defaultRequestTimeout = 30 * time.Second
	defaultRateLimit      = 10
)

// Client is a Trocador API client. Every request is paced by a rate limiter
// and goes through a circuit breaker, so that a down API is not hammered by
// pollers.
type Client struct {
	baseURL string
	apiKey  string

	httpClient *httputil.Client
	limiter    ratelimit.Limiter
	cb         *gobreaker.CircuitBreaker
}

// Option customizes a Client.
type Option func(*Client)

// WithRequestTimeout sets the timeout of every single request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = httputil.NewClient(timeout)
	}
}

// WithRateLimit caps the number of requests per second. A non positive value
// disables the limiter.
func WithRateLimit(reqPerSecond int) Option {
	return func(c *Client) {
		if reqPerSecond <= 0 {
			c.limiter = ratelimit.NewUnlimited()
			return
		}
		c.limiter = ratelimit.New(reqPerSecond)
	}
}

// NewClient returns a client for the API reachable at baseURL. apiKey can be
// empty when baseURL points to a proxy that injects the key itself.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("missing base url")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httputil.NewClient(defaultRequestTimeout),
		limiter:    ratelimit.New(defaultRateLimit),
		cb:         circuitbreaker.NewCircuitBreaker("trocador"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetTrade returns the trade identified by tradeID.
func (c *Client) GetTrade(ctx context.Context, tradeID string) (*Trade, error) {
	if tradeID == "" {
		return nil, ErrMissingTradeID
	}

	q := url.Values{}
	q.Set("id", tradeID)

	var trades []Trade
	if err := c.get(ctx, "/trade", q, &trades); err != nil {
		return nil, err
	}
	// The API returns a list with one element.
	if len(trades) == 0 {
		return nil, ErrTradeNotFound
	}
	return &trades[0], nil
}

// GetRates returns the quotes of every available provider for the given swap.
func (c *Client) GetRates(
	ctx context.Context, params RateParams,
) (*RateResponse, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var rates RateResponse
	if err := c.get(ctx, "/new_rate", params.query(), &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}

// NewTrade commits to the quote of params.Provider and returns the created
// trade, which carries the deposit address.
func (c *Client) NewTrade(ctx context.Context, params TradeParams) (*Trade, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var trade Trade
	if err := c.get(ctx, "/new_trade", params.query(), &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

type response struct {
	status int
	body   []byte
}

func (c *Client) get(
	ctx context.Context, path string, query url.Values, out interface{},
) error {
	endpoint := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(query) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.apiKey != "" {
		headers[APIKeyHeader] = c.apiKey
	}

	c.limiter.Take()

	// Only transport failures and 5xx count as failures for the breaker,
	// a 4xx is the API working as expected.
	res, err := c.cb.Execute(func() (interface{}, error) {
		status, body, err := c.httpClient.NewHTTPRequest(
			ctx, http.MethodGet, endpoint, "", headers,
		)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, &HTTPError{StatusCode: status, Body: string(body)}
		}
		return response{status, body}, nil
	})
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	resp := res.(response)
	if resp.status < http.StatusOK || resp.status >= http.StatusMultipleChoices {
		return &HTTPError{StatusCode: resp.status, Body: string(resp.body)}
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	return nil
}

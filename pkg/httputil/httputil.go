package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a thin wrapper around *http.Client that always returns the
// status code together with the raw response body, leaving to the caller the
// interpretation of non-2xx responses.
type Client struct {
	*http.Client
}

// NewClient returns a Client whose requests time out after requestTimeout.
func NewClient(requestTimeout time.Duration) *Client {
	return &Client{&http.Client{Timeout: requestTimeout}}
}

// NewHTTPRequest builds and executes an http call.
// An error is returned only if the request could not be sent or the response
// body could not be read, any status code is returned as is.
func (c *Client) NewHTTPRequest(
	ctx context.Context, method, url, bodyString string, header map[string]string,
) (int, []byte, error) {
	switch method {
	case http.MethodGet, http.MethodDelete:
		return c.do(ctx, method, url, nil, header)
	case http.MethodPost, http.MethodPut:
		return c.do(ctx, method, url, strings.NewReader(bodyString), header)
	default:
		return 0, nil, fmt.Errorf("verb not supported %s", method)
	}
}

func (c *Client) do(
	ctx context.Context, method, url string, body io.Reader,
	header map[string]string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return -1, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return rs.StatusCode, bodyBytes, nil
}

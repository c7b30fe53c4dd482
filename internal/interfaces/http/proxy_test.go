package httpinterface_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	httpinterface "github.com/swapgate-network/swapgate-daemon/internal/interfaces/http"
)

type forwardedRequest struct {
	method      string
	path        string
	query       string
	body        string
	apiKey      string
	contentType string
	host        string
}

func echoAPI(t *testing.T) (*httptest.Server, chan forwardedRequest) {
	received := make(chan forwardedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			received <- forwardedRequest{
				method:      r.Method,
				path:        r.URL.Path,
				query:       r.URL.RawQuery,
				body:        string(body),
				apiKey:      r.Header.Get("API-Key"),
				contentType: r.Header.Get("Content-Type"),
				host:        r.Host,
			}
			w.Header().Set("Access-Control-Allow-Origin", "https://other.io")
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(`{"upstream":true}`))
		},
	))
	t.Cleanup(srv.Close)
	return srv, received
}

func TestNewProxy(t *testing.T) {
	tests := []struct {
		name string
		opts httpinterface.ProxyOpts
	}{
		{"missing target", httpinterface.ProxyOpts{}},
		{"relative target", httpinterface.ProxyOpts{Target: "api.trocador.app"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := httpinterface.NewProxy(tt.opts)
			require.Error(t, err)
		})
	}
}

func TestProxy(t *testing.T) {
	api, received := echoAPI(t)
	proxy, err := httpinterface.NewProxy(httpinterface.ProxyOpts{
		Target:      api.URL,
		APIKey:      "secret",
		StripPrefix: "/api/trocador",
	})
	require.NoError(t, err)

	t.Run("forward", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost, "/api/trocador/new_rate?ticker_from=btc&amount_from=0.1",
			strings.NewReader(`{"a":1}`),
		)
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, req)

		fwd := <-received
		require.Equal(t, http.MethodPost, fwd.method)
		require.Equal(t, "/new_rate", fwd.path)
		require.Equal(t, "ticker_from=btc&amount_from=0.1", fwd.query)
		require.Equal(t, `{"a":1}`, fwd.body)
		require.Equal(t, "secret", fwd.apiKey)
		require.Equal(t, "application/json", fwd.contentType)
		require.Equal(t, strings.TrimPrefix(api.URL, "http://"), fwd.host)

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, `{"upstream":true}`, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Content-Type,API-Key", rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/trocador/new_rate?x=1", nil)
		req.Header.Set("Origin", "https://swap.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		proxy.ServeHTTP(rec, req)

		fwd := <-received
		require.Equal(t, http.MethodOptions, fwd.method)
		require.Equal(t, "/new_rate", fwd.path)
		require.Equal(t, "x=1", fwd.query)
		require.Equal(t, "secret", fwd.apiKey)

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Content-Type,API-Key", rec.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestProxyWithoutAPIKey(t *testing.T) {
	api, received := echoAPI(t)
	proxy, err := httpinterface.NewProxy(httpinterface.ProxyOpts{
		Target:      api.URL,
		StripPrefix: "/api/trocador",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/trocador/trade?id=abc", nil)
	req.Header.Set("API-Key", "client-key")
	proxy.ServeHTTP(httptest.NewRecorder(), req)

	fwd := <-received
	require.Equal(t, "client-key", fwd.apiKey)
	require.Equal(t, "/trade", fwd.path)
}

func TestProxyUnreachable(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	target := api.URL
	api.Close()

	proxy, err := httpinterface.NewProxy(httpinterface.ProxyOpts{
		Target:      target,
		StripPrefix: "/api/trocador",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	proxy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trocador/trade", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Body.String(), `"error":"Failed to fetch from Trocador API"`)
	require.Contains(t, rec.Body.String(), `"message":`)
}

func TestCORSAllowedOrigins(t *testing.T) {
	handler := httpinterface.CORS(httpinterface.CORSConfig{
		AllowedOrigins: []string{"https://a.io", "https://b.io"},
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		want   string
	}{
		{"https://b.io", "https://b.io"},
		{"https://evil.io", "https://a.io"},
		{"", "https://a.io"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRateLimiter(t *testing.T) {
	require.Nil(t, httpinterface.NewRateLimiter(0))

	limiter := httpinterface.NewRateLimiter(2)
	t.Cleanup(limiter.Stop)

	handler := limiter.Middleware(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	))
	serve := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, serve("1.1.1.1"))
	require.Equal(t, http.StatusOK, serve("1.1.1.1"))
	require.Equal(t, http.StatusTooManyRequests, serve("1.1.1.1"))
	require.Equal(t, http.StatusOK, serve("2.2.2.2"))
}

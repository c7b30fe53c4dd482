package httpinterface

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/swapgate-network/swapgate-daemon/pkg/stats"
	"github.com/swapgate-network/swapgate-daemon/pkg/trocador"
)

const requestIDHeader = "X-Request-Id"

// ProxyOpts ...
type ProxyOpts struct {
	Target      string
	APIKey      string
	StripPrefix string
	CORS        CORSConfig
}

func (o ProxyOpts) validate() error {
	if o.Target == "" {
		return fmt.Errorf("missing proxy target")
	}
	u, err := url.Parse(o.Target)
	if err != nil {
		return fmt.Errorf("invalid proxy target: %s", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("proxy target must be an absolute url")
	}
	return nil
}

// NewProxy returns a handler forwarding every request to the target API
// after removing the strip prefix from its path. The API key, when given,
// is injected in every forwarded request, and the CORS headers of every
// response are overwritten so that browsers can call the API through it.
func NewProxy(opts ProxyOpts) (http.Handler, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.APIKey == "" {
		log.Warn(
			"no API key configured, requests forwarded to the exchange API " +
				"will likely be rejected with 401",
		)
	}

	target, _ := url.Parse(opts.Target)
	basePath := strings.TrimSuffix(opts.StripPrefix, "/")
	cors := opts.CORS.withDefaults()

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Director = func(req *http.Request) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host

		path := req.URL.Path
		if basePath != "" && strings.HasPrefix(path, basePath) {
			path = strings.TrimPrefix(path, basePath)
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		req.URL.Path = singleJoiningSlash(target.Path, path)
		req.URL.RawPath = ""

		if opts.APIKey != "" {
			req.Header.Set(trocador.APIKeyHeader, opts.APIKey)
		}
		req.Header.Set("Content-Type", "application/json")
		if _, ok := req.Header["User-Agent"]; !ok {
			req.Header.Set("User-Agent", "")
		}
	}
	proxy.ModifyResponse = func(res *http.Response) error {
		cors.setHeaders(res.Header, res.Request.Header.Get("Origin"))
		stats.ProxyRequests.WithLabelValues(
			res.Request.Method, strconv.Itoa(res.StatusCode),
		).Inc()
		return nil
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithField(
			"request_id", r.Header.Get(requestIDHeader),
		).Warn("failed to forward request to exchange API")
		stats.ProxyRequests.WithLabelValues(
			r.Method, strconv.Itoa(http.StatusBadGateway),
		).Inc()

		cors.setHeaders(w.Header(), r.Header.Get("Origin"))
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   "Failed to fetch from Trocador API",
			Message: err.Error(),
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(requestIDHeader) == "" {
			r.Header.Set(requestIDHeader, uuid.New().String())
		}
		log.WithFields(log.Fields{
			"request_id": r.Header.Get(requestIDHeader),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("proxying request")

		proxy.ServeHTTP(w, r)
	}), nil
}

func singleJoiningSlash(a, b string) string {
	aslash := strings.HasSuffix(a, "/")
	bslash := strings.HasPrefix(b, "/")
	switch {
	case aslash && bslash:
		return a + b[1:]
	case !aslash && !bslash:
		return a + "/" + b
	}
	return a + b
}

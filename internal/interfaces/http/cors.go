package httpinterface

import (
	"net/http"
	"strings"
)

const (
	allowOriginHeader  = "Access-Control-Allow-Origin"
	allowMethodsHeader = "Access-Control-Allow-Methods"
	allowHeadersHeader = "Access-Control-Allow-Headers"
)

var (
	defaultAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	defaultAllowedHeaders = []string{"Content-Type", "API-Key"}
)

// CORSConfig ...
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

func (c CORSConfig) withDefaults() CORSConfig {
	if len(c.AllowedOrigins) <= 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) <= 0 {
		c.AllowedMethods = defaultAllowedMethods
	}
	if len(c.AllowedHeaders) <= 0 {
		c.AllowedHeaders = defaultAllowedHeaders
	}
	return c
}

// allowOrigin returns the value of the allow-origin header for a request
// coming from origin.
func (c CORSConfig) allowOrigin(origin string) string {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return c.AllowedOrigins[0]
}

// setHeaders overwrites the CORS headers of h.
func (c CORSConfig) setHeaders(h http.Header, origin string) {
	allowed := c.allowOrigin(origin)
	h.Set(allowOriginHeader, allowed)
	if allowed != "*" {
		h.Add("Vary", "Origin")
	}
	h.Set(allowMethodsHeader, strings.Join(c.AllowedMethods, ","))
	h.Set(allowHeadersHeader, strings.Join(c.AllowedHeaders, ","))
}

// CORS sets the CORS headers on every response and answers preflight
// requests without forwarding them.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg.setHeaders(w.Header(), r.Header.Get("Origin"))
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

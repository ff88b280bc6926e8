package ambient

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderTraceID      = "X-Trace-Id"
	HeaderRequestID    = "X-Request-Id"
	HeaderForwardedFor = "X-Forwarded-For"
)

type contextKey int

const requestKey contextKey = iota

// Request is the metadata of the request being served.
type Request struct {
	Method       string
	URI          string
	Host         string
	RemoteAddr   string
	ForwardedFor string
	UserAgent    string
	TraceID      string
	RequestID    string
}

// FromHTTP captures the metadata of r.
func FromHTTP(r *http.Request) Request {
	return Request{
		Method:       r.Method,
		URI:          r.RequestURI,
		Host:         r.Host,
		RemoteAddr:   r.RemoteAddr,
		ForwardedFor: r.Header.Get(HeaderForwardedFor),
		UserAgent:    r.UserAgent(),
		TraceID:      r.Header.Get(HeaderTraceID),
		RequestID:    r.Header.Get(HeaderRequestID),
	}
}

// WithRequest returns a copy of ctx carrying req.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey, req)
}

// RequestFrom returns the request stored in ctx, if any.
func RequestFrom(ctx context.Context) (Request, bool) {
	if ctx == nil {
		return Request{}, false
	}
	req, ok := ctx.Value(requestKey).(Request)
	return req, ok
}

// Path is the path component of the URI, or the URI itself when it does
// not parse.
func (r Request) Path() string {
	u, err := url.Parse(r.URI)
	if err != nil || u.Path == "" {
		return r.URI
	}
	return u.Path
}

// ClientIP prefers the first X-Forwarded-For entry over the peer address.
func (r Request) ClientIP() string {
	if r.ForwardedFor != "" {
		first, _, _ := strings.Cut(r.ForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	// GenerateRequestID assigns a UUID to requests without an X-Request-Id
	// header and echoes it in the response.
	GenerateRequestID bool
}

// Middleware stores the request metadata in the request context so records
// logged while serving it carry request fields.
func Middleware(cfg MiddlewareConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := FromHTTP(r)
		if cfg.GenerateRequestID {
			if req.RequestID == "" {
				req.RequestID = uuid.New().String()
			}
			w.Header().Set(HeaderRequestID, req.RequestID)
		}
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), req)))
	})
}

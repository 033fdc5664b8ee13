package cors

import (
	"net"
	"net/http"
	"strings"
)

// Request is the CORS-relevant view of an inbound request. It is built once
// per request and never mutated.
type Request struct {
	Method string
	Scheme string
	Host   string
	Path   string
	Origin string

	// Preflight inputs; empty for actual requests.
	AccessControlRequestMethod  string
	AccessControlRequestHeaders []string

	UserAgent string
}

// FromHTTP builds a Request from a net/http request.
func FromHTTP(r *http.Request) Request {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}
	return Request{
		Method:                      r.Method,
		Scheme:                      scheme,
		Host:                        r.Host,
		Path:                        r.URL.Path,
		Origin:                      r.Header.Get(HeaderOrigin),
		AccessControlRequestMethod:  r.Header.Get(HeaderAccessControlRequestMethod),
		AccessControlRequestHeaders: ParseHeaderList(r.Header.Values(HeaderAccessControlRequestHeaders)...),
		UserAgent:                   r.UserAgent(),
	}
}

// ParseHeaderList splits comma-separated header-name lists, trimming optional
// whitespace and dropping empty elements. Names keep their original case.
func ParseHeaderList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// IsCorsRequest reports whether the request carries an Origin header that
// differs from the request's own origin.
func IsCorsRequest(r Request) bool {
	if r.Origin == "" {
		return false
	}
	return !isSameOrigin(r)
}

// IsPreflight reports whether the request is a CORS preflight: an OPTIONS
// request carrying both Origin and Access-Control-Request-Method.
func IsPreflight(r Request) bool {
	return r.Method == http.MethodOptions &&
		r.Origin != "" &&
		r.AccessControlRequestMethod != ""
}

func isSameOrigin(r Request) bool {
	o, ok := parseOrigin(r.Origin)
	if !ok || r.Host == "" {
		return false
	}
	scheme := strings.ToLower(r.Scheme)
	if scheme == "" {
		scheme = "http"
	}
	host, port := r.Host, ""
	if h, p, err := net.SplitHostPort(r.Host); err == nil {
		host, port = h, p
	}
	host = strings.ToLower(strings.Trim(host, "[]"))
	return o.scheme == scheme &&
		o.host == host &&
		o.port == elideDefaultPort(scheme, port)
}

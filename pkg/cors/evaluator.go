package cors

import (
	"net/http"
	"strings"
)

type Outcome int

const (
	// NotCors: no Origin header, or a same-origin request. Nothing is emitted.
	NotCors Outcome = iota
	Allowed
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Rejected:
		return "rejected"
	default:
		return "not_cors"
	}
}

// Decision is the result of evaluating a request against a policy.
type Decision struct {
	Outcome   Outcome
	Preflight bool
	// Reason is set only for rejections.
	Reason error
	// Header holds the response headers to emit. A rejected actual request,
	// or a non-CORS request under a policy, only carries Vary: Origin so
	// shared caches keep responses for different origins apart. Rejected
	// preflights carry nothing.
	Header http.Header
}

func (d Decision) Allowed() bool { return d.Outcome == Allowed }

func (d Decision) Rejected() bool { return d.Outcome == Rejected }

// Evaluate decides whether r is allowed by p and computes the CORS response
// headers. A nil policy rejects with ErrNoMatchingPolicy. Evaluate is a pure
// function of its arguments.
func Evaluate(r Request, p *Policy) Decision {
	if !IsCorsRequest(r) {
		d := Decision{Outcome: NotCors}
		if p != nil {
			d.Header = varyOrigin()
		}
		return d
	}
	preflight := IsPreflight(r)
	reject := func(reason error) Decision {
		d := Decision{Outcome: Rejected, Preflight: preflight, Reason: reason}
		if !preflight && p != nil {
			d.Header = varyOrigin()
		}
		return d
	}
	if p == nil {
		return reject(ErrNoMatchingPolicy)
	}

	allowOrigin, ok := p.allowOrigin(r.Origin)
	if !ok {
		return reject(ErrOriginNotAllowed)
	}

	h := make(http.Header, 6)
	if preflight {
		allowMethods, ok := p.allowMethod(r.AccessControlRequestMethod)
		if !ok {
			return reject(ErrMethodNotAllowed)
		}
		allowHeaders, ok := p.allowHeaders(r.AccessControlRequestHeaders)
		if !ok {
			return reject(ErrHeaderNotAllowed)
		}

		h.Set(HeaderAccessControlAllowOrigin, allowOrigin)
		h.Set(HeaderAccessControlAllowMethods, allowMethods)
		if len(allowHeaders) > 0 {
			h.Set(HeaderAccessControlAllowHeaders, strings.Join(allowHeaders, ","))
		}
		if p.credentials {
			h.Set(HeaderAccessControlAllowCredentials, "true")
		}
		if p.maxAgeValue != "" {
			h.Set(HeaderAccessControlMaxAge, p.maxAgeValue)
		}
		h.Set(HeaderVary, strings.Join([]string{
			HeaderOrigin,
			HeaderAccessControlRequestMethod,
			HeaderAccessControlRequestHeaders,
		}, ", "))
		return Decision{Outcome: Allowed, Preflight: true, Header: h}
	}

	h.Set(HeaderAccessControlAllowOrigin, allowOrigin)
	if p.credentials {
		h.Set(HeaderAccessControlAllowCredentials, "true")
	}
	if p.exposedValue != "" {
		h.Set(HeaderAccessControlExposeHeaders, p.exposedValue)
	}
	h.Set(HeaderVary, HeaderOrigin)
	return Decision{Outcome: Allowed, Header: h}
}

func varyOrigin() http.Header {
	return http.Header{HeaderVary: []string{HeaderOrigin}}
}

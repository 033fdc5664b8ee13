package cors

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// Policy is the compiled form of a resolved Config. It is immutable and safe
// for concurrent use.
type Policy struct {
	config Config

	allowAllOrigins bool
	origins         map[string]struct{}
	originPatterns  []originPattern

	allowAllMethods bool
	methods         []string
	methodsValue    string

	allowAllHeaders bool
	headers         map[string]struct{}

	exposedValue string
	credentials  bool
	maxAgeValue  string
}

// Compile validates cfg and precomputes everything Evaluate needs. An "*"
// origin combined with credentials is accepted here: the evaluator echoes the
// request origin instead of the wildcard.
func Compile(cfg Config) (*Policy, error) {
	if err := cfg.validateEntries(); err != nil {
		return nil, err
	}
	p := &Policy{
		config:      Merge(Config{}, cfg),
		origins:     make(map[string]struct{}),
		headers:     make(map[string]struct{}),
		credentials: cfg.CredentialsAllowed(),
	}

	for _, raw := range cfg.AllowedOrigins {
		if raw == Wildcard {
			p.allowAllOrigins = true
			continue
		}
		pattern, err := parseOriginPattern(raw)
		if err != nil {
			return nil, err
		}
		if !pattern.subdomains && !pattern.anyPort {
			p.origins[origin{scheme: pattern.scheme, host: pattern.host, port: pattern.port}.String()] = struct{}{}
			continue
		}
		p.originPatterns = append(p.originPatterns, pattern)
	}

	methods := cfg.AllowedMethods
	if methods == nil {
		methods = []string{http.MethodGet, http.MethodHead}
	}
	for _, m := range methods {
		if m == Wildcard {
			p.allowAllMethods = true
			continue
		}
		m = NormalizeMethod(m)
		if !slices.Contains(p.methods, m) {
			p.methods = append(p.methods, m)
		}
	}
	p.methodsValue = strings.Join(p.methods, ",")

	for _, h := range cfg.AllowedHeaders {
		if h == Wildcard {
			p.allowAllHeaders = true
			continue
		}
		p.headers[strings.ToLower(h)] = struct{}{}
	}

	p.exposedValue = strings.Join(cfg.ExposedHeaders, ",")
	if cfg.MaxAge != nil {
		p.maxAgeValue = strconv.FormatInt(int64(cfg.MaxAge.Seconds()), 10)
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. Intended for presets and
// tests.
func MustCompile(cfg Config) *Policy {
	p, err := Compile(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Config returns a copy of the configuration the policy was compiled from.
func (p *Policy) Config() Config {
	return Merge(Config{}, p.config)
}

// allowOrigin returns the value for Access-Control-Allow-Origin, or false when
// the origin is not allowed. The request origin is always echoed, so the
// response never carries "*".
func (p *Policy) allowOrigin(raw string) (string, bool) {
	if p.allowAllOrigins {
		return raw, true
	}
	o, ok := parseOrigin(raw)
	if !ok {
		return "", false
	}
	if _, ok := p.origins[o.String()]; ok {
		return raw, true
	}
	for _, pattern := range p.originPatterns {
		if pattern.matches(o) {
			return raw, true
		}
	}
	return "", false
}

// allowMethod returns the value for Access-Control-Allow-Methods.
func (p *Policy) allowMethod(requested string) (string, bool) {
	if p.allowAllMethods {
		return requested, true
	}
	if slices.Contains(p.methods, requested) {
		return p.methodsValue, true
	}
	return "", false
}

// byteLowercasedNormalizedMethods are the methods Fetch upper-cases before
// sending them; every other method name is compared case-sensitively.
var byteLowercasedNormalizedMethods = map[string]string{
	"delete":  http.MethodDelete,
	"get":     http.MethodGet,
	"head":    http.MethodHead,
	"options": http.MethodOptions,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
}

// NormalizeMethod upper-cases the methods Fetch normalizes and returns any
// other method unchanged.
func NormalizeMethod(m string) string {
	if n, ok := byteLowercasedNormalizedMethods[strings.ToLower(m)]; ok {
		return n
	}
	return m
}

// allowHeaders returns the requested headers that are allowed, or false as
// soon as one of them is not.
func (p *Policy) allowHeaders(requested []string) ([]string, bool) {
	if len(requested) == 0 {
		return nil, true
	}
	if p.allowAllHeaders {
		return requested, true
	}
	allowed := make([]string, 0, len(requested))
	for _, h := range requested {
		if _, ok := p.headers[strings.ToLower(h)]; !ok {
			return nil, false
		}
		allowed = append(allowed, h)
	}
	return allowed, true
}

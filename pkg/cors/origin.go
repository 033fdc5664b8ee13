package cors

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const (
	subdomainPrefix = "*."
	anyPort         = "*"
	nullOrigin      = "null"
)

// origin is a parsed Web origin: lower-case scheme and host, port elided when
// it is the scheme's default.
type origin struct {
	scheme string
	host   string
	port   string
}

func (o origin) String() string {
	if o.port == "" {
		return o.scheme + "://" + o.host
	}
	return o.scheme + "://" + net.JoinHostPort(o.host, o.port)
}

// originPattern is one entry of AllowedOrigins other than "*".
type originPattern struct {
	scheme     string
	host       string // base domain when subdomains is set
	port       string
	anyPort    bool
	subdomains bool
}

func (p originPattern) matches(o origin) bool {
	if p.scheme != o.scheme {
		return false
	}
	if !p.anyPort && p.port != o.port {
		return false
	}
	if !p.subdomains {
		return p.host == o.host
	}
	// at least one extra label is required
	return strings.HasSuffix(o.host, "."+p.host)
}

// parseOrigin parses the value of an Origin request header.
func parseOrigin(raw string) (origin, bool) {
	if raw == "" || raw == nullOrigin {
		return origin{}, false
	}
	u, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" || u.User != nil {
		return origin{}, false
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return origin{}, false
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return origin{}, false
	}
	port := u.Port()
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return origin{}, false
		}
	}
	return origin{scheme: scheme, host: host, port: elideDefaultPort(scheme, port)}, true
}

// parseOriginPattern validates one AllowedOrigins entry. Supported forms are
// an exact origin, a subdomain wildcard (https://*.example.com) and an
// arbitrary port (http://localhost:*), which may be combined.
func parseOriginPattern(raw string) (originPattern, error) {
	invalid := func(reason string) (originPattern, error) {
		return originPattern{}, fmt.Errorf("%w: %q: %s", ErrInvalidOriginPattern, raw, reason)
	}
	s := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || scheme == "" || rest == "" {
		return invalid("missing scheme or host")
	}
	scheme = strings.ToLower(scheme)
	if !validScheme(scheme) {
		return invalid("invalid scheme")
	}
	if scheme == "file" {
		return invalid("file origins are opaque")
	}
	if strings.ContainsAny(rest, "/?#@") {
		return invalid("origin must not carry a path, query, fragment or userinfo")
	}

	var p originPattern
	p.scheme = scheme
	if strings.HasPrefix(rest, subdomainPrefix) {
		p.subdomains = true
		rest = rest[len(subdomainPrefix):]
	}

	host, port := rest, ""
	if strings.HasPrefix(host, "[") {
		end := strings.Index(host, "]")
		if end < 0 {
			return invalid("unterminated IPv6 literal")
		}
		host, port = host[1:end], strings.TrimPrefix(host[end+1:], ":")
		if net.ParseIP(host) == nil {
			return invalid("invalid IPv6 literal")
		}
	} else if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host, port = host[:i], host[i+1:]
	}
	if host == "" || strings.Contains(host, "*") {
		return invalid("wildcards are only supported as a leading subdomain label")
	}
	p.host = strings.ToLower(host)

	switch {
	case port == anyPort:
		p.anyPort = true
	case port != "":
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return invalid("invalid port")
		}
		p.port = elideDefaultPort(scheme, port)
	}

	if p.subdomains {
		if net.ParseIP(p.host) != nil {
			return invalid("subdomain wildcard requires a domain")
		}
		if suffix, _ := publicsuffix.PublicSuffix(p.host); suffix == p.host {
			return invalid("subdomain wildcard over a public suffix")
		}
	}
	return p, nil
}

func elideDefaultPort(scheme, port string) string {
	switch {
	case scheme == "http" && port == "80":
		return ""
	case scheme == "https" && port == "443":
		return ""
	default:
		return port
	}
}

func validScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return len(s) > 0 && len(s) <= 64
}

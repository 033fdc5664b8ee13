package cors

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

// DefaultMaxAge is the preflight cache duration used by PermitDefaults.
const DefaultMaxAge = 1800 * time.Second

// Config is a partially populated CORS configuration. A nil field is unset and
// inherits from a broader scope when merged; see Merge.
type Config struct {
	AllowedOrigins   []string       `json:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string       `json:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string       `json:"allowed_headers" mapstructure:"allowed_headers"`
	ExposedHeaders   []string       `json:"exposed_headers" mapstructure:"exposed_headers"`
	AllowCredentials *bool          `json:"allow_credentials,omitempty" mapstructure:"allow_credentials"`
	MaxAge           *time.Duration `json:"max_age,omitempty" mapstructure:"max_age"`
}

// PermitDefaults returns the "permit defaults" preset: all origins, the
// CORS-safelisted methods, all headers, no credentials and a 30 minute
// preflight cache.
func PermitDefaults() Config {
	return Config{
		AllowedOrigins:   []string{Wildcard},
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost},
		AllowedHeaders:   []string{Wildcard},
		AllowCredentials: Bool(false),
		MaxAge:           Duration(DefaultMaxAge),
	}
}

// ApplyPermitDefaultValues fills every unset field from PermitDefaults and
// leaves set fields untouched.
func (c Config) ApplyPermitDefaultValues() Config {
	return Merge(PermitDefaults(), c)
}

// Merge combines a broader-scope configuration with a more specific one.
// Each field set on override wins; unset fields inherit from base. Neither
// argument is modified.
func Merge(base, override Config) Config {
	out := Config{
		AllowedOrigins:   cloneStrings(base.AllowedOrigins),
		AllowedMethods:   cloneStrings(base.AllowedMethods),
		AllowedHeaders:   cloneStrings(base.AllowedHeaders),
		ExposedHeaders:   cloneStrings(base.ExposedHeaders),
		AllowCredentials: base.AllowCredentials,
		MaxAge:           base.MaxAge,
	}
	if override.AllowedOrigins != nil {
		out.AllowedOrigins = cloneStrings(override.AllowedOrigins)
	}
	if override.AllowedMethods != nil {
		out.AllowedMethods = cloneStrings(override.AllowedMethods)
	}
	if override.AllowedHeaders != nil {
		out.AllowedHeaders = cloneStrings(override.AllowedHeaders)
	}
	if override.ExposedHeaders != nil {
		out.ExposedHeaders = cloneStrings(override.ExposedHeaders)
	}
	if override.AllowCredentials != nil {
		out.AllowCredentials = override.AllowCredentials
	}
	if override.MaxAge != nil {
		out.MaxAge = override.MaxAge
	}
	return out
}

// Conflicts lists the fields that both configurations set to different
// values. The override still wins in Merge; callers use this to warn about
// ambiguous layering.
func Conflicts(base, override Config) []string {
	var fields []string
	if base.AllowedOrigins != nil && override.AllowedOrigins != nil &&
		!slices.Equal(base.AllowedOrigins, override.AllowedOrigins) {
		fields = append(fields, "allowed_origins")
	}
	if base.AllowedMethods != nil && override.AllowedMethods != nil &&
		!slices.Equal(base.AllowedMethods, override.AllowedMethods) {
		fields = append(fields, "allowed_methods")
	}
	if base.AllowedHeaders != nil && override.AllowedHeaders != nil &&
		!slices.Equal(base.AllowedHeaders, override.AllowedHeaders) {
		fields = append(fields, "allowed_headers")
	}
	if base.ExposedHeaders != nil && override.ExposedHeaders != nil &&
		!slices.Equal(base.ExposedHeaders, override.ExposedHeaders) {
		fields = append(fields, "exposed_headers")
	}
	if base.AllowCredentials != nil && override.AllowCredentials != nil &&
		*base.AllowCredentials != *override.AllowCredentials {
		fields = append(fields, "allow_credentials")
	}
	if base.MaxAge != nil && override.MaxAge != nil && *base.MaxAge != *override.MaxAge {
		fields = append(fields, "max_age")
	}
	return fields
}

// IsZero reports whether no field is set.
func (c Config) IsZero() bool {
	return c.AllowedOrigins == nil &&
		c.AllowedMethods == nil &&
		c.AllowedHeaders == nil &&
		c.ExposedHeaders == nil &&
		c.AllowCredentials == nil &&
		c.MaxAge == nil
}

// CredentialsAllowed reports whether AllowCredentials is set to true.
func (c Config) CredentialsAllowed() bool {
	return c.AllowCredentials != nil && *c.AllowCredentials
}

// Validate checks a configuration before it is registered. Besides the
// syntactic checks done by Compile it refuses an explicit "*" origin combined
// with credentials.
func (c Config) Validate() error {
	if err := c.validateEntries(); err != nil {
		return err
	}
	if c.CredentialsAllowed() && slices.Contains(c.AllowedOrigins, Wildcard) {
		return ErrCredentialsWildcardConflict
	}
	return nil
}

func (c Config) validateEntries() error {
	for _, o := range c.AllowedOrigins {
		if o == Wildcard {
			continue
		}
		if _, err := parseOriginPattern(o); err != nil {
			return err
		}
	}
	for _, m := range c.AllowedMethods {
		if m == Wildcard {
			continue
		}
		if !httpguts.ValidHeaderFieldName(m) {
			return fmt.Errorf("%w: %q", ErrInvalidMethod, m)
		}
	}
	for _, h := range c.AllowedHeaders {
		if h == Wildcard {
			continue
		}
		if !httpguts.ValidHeaderFieldName(h) {
			return fmt.Errorf("%w: %q in allowed_headers", ErrInvalidHeaderName, h)
		}
	}
	for _, h := range c.ExposedHeaders {
		if h == Wildcard {
			continue
		}
		if !httpguts.ValidHeaderFieldName(h) {
			return fmt.Errorf("%w: %q in exposed_headers", ErrInvalidHeaderName, h)
		}
	}
	if c.MaxAge != nil && *c.MaxAge < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMaxAge, c.MaxAge.String())
	}
	return nil
}

// String renders the configuration for logs.
func (c Config) String() string {
	var b strings.Builder
	b.WriteString("{")
	writeField := func(name, value string) {
		if b.Len() > 1 {
			b.WriteString(" ")
		}
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(value)
	}
	if c.AllowedOrigins != nil {
		writeField("origins", strings.Join(c.AllowedOrigins, ","))
	}
	if c.AllowedMethods != nil {
		writeField("methods", strings.Join(c.AllowedMethods, ","))
	}
	if c.AllowedHeaders != nil {
		writeField("headers", strings.Join(c.AllowedHeaders, ","))
	}
	if c.ExposedHeaders != nil {
		writeField("exposed", strings.Join(c.ExposedHeaders, ","))
	}
	if c.AllowCredentials != nil {
		writeField("credentials", fmt.Sprintf("%t", *c.AllowCredentials))
	}
	if c.MaxAge != nil {
		writeField("maxAge", fmt.Sprintf("%d", int64(c.MaxAge.Seconds())))
	}
	b.WriteString("}")
	return b.String()
}

func Bool(v bool) *bool { return &v }

func Duration(d time.Duration) *time.Duration { return &d }

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

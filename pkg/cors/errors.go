package cors

import "errors"

// Rejection reasons carried by a Decision. They are never returned from
// Evaluate as errors.
var (
	ErrNoMatchingPolicy = errors.New("no cors policy matches the request path")
	ErrOriginNotAllowed = errors.New("origin not allowed")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrHeaderNotAllowed = errors.New("header not allowed")
)

// Configuration errors, returned at registration time.
var (
	ErrCredentialsWildcardConflict = errors.New(`allow_credentials cannot be true when allowed_origins contains "*"`)
	ErrInvalidOriginPattern        = errors.New("invalid origin pattern")
	ErrInvalidMethod               = errors.New("invalid method")
	ErrInvalidHeaderName           = errors.New("invalid header name")
	ErrInvalidMaxAge               = errors.New("invalid max age")
)

// ReasonCode returns a short stable label for a rejection reason, suitable for
// metric labels and JSON payloads.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNoMatchingPolicy):
		return "no_matching_policy"
	case errors.Is(err, ErrOriginNotAllowed):
		return "origin_not_allowed"
	case errors.Is(err, ErrMethodNotAllowed):
		return "method_not_allowed"
	case errors.Is(err, ErrHeaderNotAllowed):
		return "header_not_allowed"
	default:
		return "unknown"
	}
}

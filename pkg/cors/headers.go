package cors

const (
	Wildcard = "*"

	HeaderOrigin                        = "Origin"
	HeaderVary                          = "Vary"
	HeaderAccessControlRequestMethod    = "Access-Control-Request-Method"
	HeaderAccessControlRequestHeaders   = "Access-Control-Request-Headers"
	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"
)

// ResponseHeaders lists every header the evaluator may write. The filter uses
// it to strip CORS headers from rejected requests.
var ResponseHeaders = []string{
	HeaderAccessControlAllowOrigin,
	HeaderAccessControlAllowMethods,
	HeaderAccessControlAllowHeaders,
	HeaderAccessControlAllowCredentials,
	HeaderAccessControlExposeHeaders,
	HeaderAccessControlMaxAge,
}

package common

type contextKey string

const (
	TraceIdKey              contextKey = "trace_id"
	CorsRequestContextKey   contextKey = "cors_request"
	CorsDecisionContextKey  contextKey = "cors_decision"
	PolicyVersionContextKey contextKey = "policy_version"
	LatencyContextKey       contextKey = "__execution_time"
)

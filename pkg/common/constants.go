package common

import "time"

const (
	DefaultDedupTTL   = time.Minute
	DefaultWorkers    = 4
	AdminTokenSubject = "corsgate-admin"

	RequestIDHeader = "X-Request-Id"
	NodeIDHeader    = "X-CorsGate-Node"
)

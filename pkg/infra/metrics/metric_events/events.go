package metric_events

import (
	"time"

	"github.com/google/uuid"
)

const ViolationType = "cors_violation"

// Event describes a rejected cross-origin request.
type Event struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Timestamp        int64    `json:"timestamp"`
	NodeID           string   `json:"node_id,omitempty"`
	Origin           string   `json:"origin"`
	Host             string   `json:"host,omitempty"`
	Path             string   `json:"path"`
	Method           string   `json:"method"`
	RequestedMethod  string   `json:"requested_method,omitempty"`
	RequestedHeaders []string `json:"requested_headers,omitempty"`
	Preflight        bool     `json:"preflight"`
	Reason           string   `json:"reason"`
	PolicyVersion    uint64   `json:"policy_version"`
	StatusCode       int      `json:"status_code"`
	IP               string   `json:"user_ip,omitempty"`

	Locale  string `json:"locale,omitempty"`
	Device  string `json:"device,omitempty"`
	Os      string `json:"os,omitempty"`
	Browser string `json:"browser,omitempty"`
}

func NewViolationEvent() *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      ViolationType,
		Timestamp: time.Now().Unix(),
	}
}

// DedupKey groups repeated violations from the same origin for the same
// reason on the same path.
func (e *Event) DedupKey() string {
	return e.Origin + "|" + e.Reason + "|" + e.Path
}

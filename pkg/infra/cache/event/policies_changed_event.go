package event

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// PoliciesChangedEvent is published after a persisted policy changes.
type PoliciesChangedEvent struct {
	PolicyID string `json:"policy_id"`
	Pattern  string `json:"pattern"`
	Action   string `json:"action"`
}

func (e PoliciesChangedEvent) Type() string {
	return PoliciesChangedEventType
}

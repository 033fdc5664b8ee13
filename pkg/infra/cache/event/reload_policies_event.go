package event

// ReloadPoliciesEvent asks every node to rebuild its snapshot, for example
// after a manual reload on the admin API.
type ReloadPoliciesEvent struct {
	RequestedBy string `json:"requested_by"`
}

func (e ReloadPoliciesEvent) Type() string {
	return ReloadPoliciesEventType
}

package response

import (
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
)

type PolicyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	PathPattern      string    `json:"path_pattern"`
	AllowedOrigins   []string  `json:"allowed_origins"`
	AllowedMethods   []string  `json:"allowed_methods"`
	AllowedHeaders   []string  `json:"allowed_headers"`
	ExposedHeaders   []string  `json:"exposed_headers"`
	AllowCredentials *bool     `json:"allow_credentials"`
	MaxAgeSeconds    *int      `json:"max_age_seconds"`
	Enabled          bool      `json:"enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewPolicyResponse(p *domainPolicy.CorsPolicy) PolicyResponse {
	cfg := p.ToConfig()
	return PolicyResponse{
		ID:               p.ID.String(),
		Name:             p.Name,
		Slug:             p.Slug,
		PathPattern:      p.PathPattern,
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAgeSeconds:    p.MaxAgeSeconds,
		Enabled:          p.Enabled,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type ListPoliciesResponse struct {
	Policies []PolicyResponse `json:"policies"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
}

func NewListPoliciesResponse(policies []domainPolicy.CorsPolicy, offset, limit int) ListPoliciesResponse {
	out := make([]PolicyResponse, 0, len(policies))
	for i := range policies {
		out = append(out, NewPolicyResponse(&policies[i]))
	}
	return ListPoliciesResponse{Policies: out, Offset: offset, Limit: limit}
}

// ActivePoliciesResponse is the live snapshot of a node, static policies
// included.
type ActivePoliciesResponse struct {
	Version       uint64                `json:"version"`
	Registrations []policy.Registration `json:"registrations"`
}

type EvaluateResponse struct {
	Outcome       string              `json:"outcome"`
	Preflight     bool                `json:"preflight"`
	Reason        string              `json:"reason,omitempty"`
	ReasonCode    string              `json:"reason_code,omitempty"`
	Headers       map[string][]string `json:"headers,omitempty"`
	PolicyMatched bool                `json:"policy_matched"`
	Effective     *cors.Config        `json:"effective_policy,omitempty"`
	PolicyVersion uint64              `json:"policy_version"`
}

func NewEvaluateResponse(d cors.Decision, p *cors.Policy, version uint64) EvaluateResponse {
	resp := EvaluateResponse{
		Outcome:       d.Outcome.String(),
		Preflight:     d.Preflight,
		Headers:       d.Header,
		PolicyMatched: p != nil,
		PolicyVersion: version,
	}
	if d.Reason != nil {
		resp.Reason = d.Reason.Error()
		resp.ReasonCode = cors.ReasonCode(d.Reason)
	}
	if p != nil {
		cfg := p.Config()
		resp.Effective = &cfg
	}
	return resp
}

package request

import "github.com/NeuralTrust/CorsGate/pkg/cors"

// EvaluateRequest describes a request to dry-run against the live policies.
type EvaluateRequest struct {
	Method                      string   `json:"method" validate:"required,max=32"`
	Path                        string   `json:"path" validate:"required,startswith=/"`
	Origin                      string   `json:"origin"`
	Scheme                      string   `json:"scheme" validate:"omitempty,oneof=http https"`
	Host                        string   `json:"host"`
	AccessControlRequestMethod  string   `json:"access_control_request_method"`
	AccessControlRequestHeaders []string `json:"access_control_request_headers"`
}

func (r *EvaluateRequest) Validate() error {
	return ValidateStruct(r)
}

func (r *EvaluateRequest) ToCorsRequest() cors.Request {
	scheme := r.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return cors.Request{
		Method:                      cors.NormalizeMethod(r.Method),
		Scheme:                      scheme,
		Host:                        r.Host,
		Path:                        r.Path,
		Origin:                      r.Origin,
		AccessControlRequestMethod:  r.AccessControlRequestMethod,
		AccessControlRequestHeaders: cors.ParseHeaderList(r.AccessControlRequestHeaders...),
	}
}

package request

import (
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/cors"
)

// PolicyRequest is the body of create and update calls. Omitted CORS fields
// stay unset and inherit from broader patterns.
type PolicyRequest struct {
	Name             string   `json:"name" validate:"required,max=128"`
	PathPattern      string   `json:"path_pattern" validate:"required,startswith=/,max=512"`
	AllowedOrigins   []string `json:"allowed_origins" validate:"omitempty,dive,required"`
	AllowedMethods   []string `json:"allowed_methods" validate:"omitempty,dive,required,excludesall= "`
	AllowedHeaders   []string `json:"allowed_headers" validate:"omitempty,dive,required"`
	ExposedHeaders   []string `json:"exposed_headers" validate:"omitempty,dive,required"`
	AllowCredentials *bool    `json:"allow_credentials"`
	MaxAgeSeconds    *int     `json:"max_age_seconds" validate:"omitempty,gte=0,lte=86400"`
	Enabled          *bool    `json:"enabled"`
}

func (r *PolicyRequest) Validate() error {
	return ValidateStruct(r)
}

func (r *PolicyRequest) ToConfig() cors.Config {
	cfg := cors.Config{
		AllowedOrigins:   r.AllowedOrigins,
		AllowedMethods:   r.AllowedMethods,
		AllowedHeaders:   r.AllowedHeaders,
		ExposedHeaders:   r.ExposedHeaders,
		AllowCredentials: r.AllowCredentials,
	}
	if r.MaxAgeSeconds != nil {
		cfg.MaxAge = cors.Duration(time.Duration(*r.MaxAgeSeconds) * time.Second)
	}
	return cfg
}

func (r *PolicyRequest) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

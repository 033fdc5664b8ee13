package policy

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CorsPolicy is a persisted path pattern to CORS configuration mapping. Nil
// array columns and nil pointers mean the field is unset and inherits from
// broader patterns.
type CorsPolicy struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string         `json:"name" gorm:"not null"`
	Slug             string         `json:"slug" gorm:"uniqueIndex;not null"`
	PathPattern      string         `json:"path_pattern" gorm:"uniqueIndex;not null"`
	AllowedOrigins   pq.StringArray `json:"allowed_origins" gorm:"type:text[]"`
	AllowedMethods   pq.StringArray `json:"allowed_methods" gorm:"type:text[]"`
	AllowedHeaders   pq.StringArray `json:"allowed_headers" gorm:"type:text[]"`
	ExposedHeaders   pq.StringArray `json:"exposed_headers" gorm:"type:text[]"`
	AllowCredentials *bool          `json:"allow_credentials"`
	MaxAgeSeconds    *int           `json:"max_age_seconds"`
	Enabled          bool           `json:"enabled" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func New(name, pathPattern string, cfg cors.Config) *CorsPolicy {
	p := &CorsPolicy{
		ID:          uuid.New(),
		Name:        name,
		PathPattern: pathPattern,
		Enabled:     true,
	}
	p.SetConfig(cfg)
	return p
}

// SetConfig replaces every CORS field with the values of cfg.
func (p *CorsPolicy) SetConfig(cfg cors.Config) {
	p.AllowedOrigins = toArray(cfg.AllowedOrigins)
	p.AllowedMethods = toArray(cfg.AllowedMethods)
	p.AllowedHeaders = toArray(cfg.AllowedHeaders)
	p.ExposedHeaders = toArray(cfg.ExposedHeaders)
	p.AllowCredentials = cfg.AllowCredentials
	p.MaxAgeSeconds = nil
	if cfg.MaxAge != nil {
		seconds := int(cfg.MaxAge.Seconds())
		p.MaxAgeSeconds = &seconds
	}
}

func (p *CorsPolicy) ToConfig() cors.Config {
	cfg := cors.Config{
		AllowedOrigins:   fromArray(p.AllowedOrigins),
		AllowedMethods:   fromArray(p.AllowedMethods),
		AllowedHeaders:   fromArray(p.AllowedHeaders),
		ExposedHeaders:   fromArray(p.ExposedHeaders),
		AllowCredentials: p.AllowCredentials,
	}
	if p.MaxAgeSeconds != nil {
		cfg.MaxAge = cors.Duration(time.Duration(*p.MaxAgeSeconds) * time.Second)
	}
	return cfg
}

func (p *CorsPolicy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.PathPattern == "" {
		return fmt.Errorf("path_pattern is required")
	}
	if err := p.ToConfig().Validate(); err != nil {
		return fmt.Errorf("invalid cors configuration: %w", err)
	}
	return nil
}

func (p *CorsPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Slug = slug.Make(p.Name)
	return p.Validate()
}

func (p *CorsPolicy) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	p.Slug = slug.Make(p.Name)
	return p.Validate()
}

func (p *CorsPolicy) TableName() string {
	return "cors_policies"
}

func toArray(values []string) pq.StringArray {
	if values == nil {
		return nil
	}
	out := make(pq.StringArray, len(values))
	copy(out, values)
	return out
}

func fromArray(values pq.StringArray) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

package policy_test

import (
	"testing"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsPolicy_ConfigRoundTrip(t *testing.T) {
	cfg := cors.Config{
		AllowedOrigins:   []string{"http://domain2.com"},
		AllowedMethods:   []string{"PUT", "DELETE"},
		AllowCredentials: cors.Bool(true),
		MaxAge:           cors.Duration(time.Hour),
	}

	p := policy.New("Api Writes", "/api/**", cfg)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.True(t, p.Enabled)
	assert.Nil(t, p.AllowedHeaders)
	require.NotNil(t, p.MaxAgeSeconds)
	assert.Equal(t, 3600, *p.MaxAgeSeconds)
	assert.Equal(t, cfg, p.ToConfig())
}

func TestCorsPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  *policy.CorsPolicy
		wantErr bool
	}{
		{
			name:   "it should accept a valid policy",
			policy: policy.New("public", "/public/**", cors.PermitDefaults()),
		},
		{
			name:    "it should require a name",
			policy:  policy.New("", "/x", cors.Config{}),
			wantErr: true,
		},
		{
			name:    "it should require a pattern",
			policy:  policy.New("x", "", cors.Config{}),
			wantErr: true,
		},
		{
			name: "it should reject credentials with a wildcard origin",
			policy: policy.New("x", "/x", cors.Config{
				AllowedOrigins:   []string{"*"},
				AllowCredentials: cors.Bool(true),
			}),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCorsPolicy_BeforeCreate(t *testing.T) {
	p := policy.New("Partner API Access", "/partner/**", cors.Config{AllowedOrigins: []string{"https://*.partner.com"}})
	p.ID = uuid.Nil

	require.NoError(t, p.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "partner-api-access", p.Slug)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, "cors_policies", p.TableName())
}

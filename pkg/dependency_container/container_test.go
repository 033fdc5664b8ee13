package dependency_container_test

import (
	"testing"

	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/config"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/dependency_container"
	"github.com/stretchr/testify/assert"
)

func TestStaticRegistrations(t *testing.T) {
	t.Run("it should mark config policies as static", func(t *testing.T) {
		regs := dependency_container.StaticRegistrations([]config.StaticPolicy{
			{Name: "api", Pattern: "/api/**", Config: cors.Config{AllowedOrigins: []string{"https://a.com"}}},
			{Pattern: "/static/*"},
		})
		assert.Len(t, regs, 2)
		assert.Equal(t, "api", regs[0].Name)
		assert.Equal(t, "/api/**", regs[0].Pattern)
		assert.Equal(t, []string{"https://a.com"}, regs[0].Config.AllowedOrigins)
		assert.Equal(t, policy.SourceStatic, regs[0].Source)
		assert.Equal(t, policy.SourceStatic, regs[1].Source)
	})

	t.Run("it should return an empty slice without policies", func(t *testing.T) {
		assert.Empty(t, dependency_container.StaticRegistrations(nil))
	})
}

package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/CorsGate/pkg/app/routing"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/domain"
	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	policyMocks "github.com/NeuralTrust/CorsGate/pkg/domain/policy/mocks"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/request"
	infraCache "github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	cacheMocks "github.com/NeuralTrust/CorsGate/pkg/infra/cache/mocks"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func changedEvent(action, pattern string) interface{} {
	return mock.MatchedBy(func(ev event.Event) bool {
		changed, ok := ev.(event.PoliciesChangedEvent)
		return ok && changed.Action == action && changed.Pattern == pattern
	})
}

func TestCreator_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("it should persist the policy and publish a created event", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		creator := NewCreator(testLogger(), repo, routing.NewPathMatcher(), publisher)

		repo.On("Create", ctx, mock.AnythingOfType("*policy.CorsPolicy")).Return(nil)
		publisher.On("Publish", ctx, infraCache.PolicyEventsChannel, changedEvent(event.ActionCreated, "/api/**")).Return(nil)

		entity, err := creator.Create(ctx, &request.PolicyRequest{
			Name:           "API",
			PathPattern:    "/api/**",
			AllowedOrigins: []string{"http://domain2.com"},
			AllowedMethods: []string{"PUT", "DELETE"},
		})

		require.NoError(t, err)
		assert.True(t, entity.Enabled)
		assert.Equal(t, []string{"PUT", "DELETE"}, entity.ToConfig().AllowedMethods)
		assert.Nil(t, entity.ToConfig().AllowedHeaders)
	})

	t.Run("it should reject credentials with a wildcard origin", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		creator := NewCreator(testLogger(), repo, routing.NewPathMatcher(), publisher)

		_, err := creator.Create(ctx, &request.PolicyRequest{
			Name:             "bad",
			PathPattern:      "/api/**",
			AllowedOrigins:   []string{"*"},
			AllowCredentials: cors.Bool(true),
		})

		assert.ErrorIs(t, err, ErrInvalidPolicy)
		assert.ErrorIs(t, err, cors.ErrCredentialsWildcardConflict)
	})

	t.Run("it should reject an invalid path pattern", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		creator := NewCreator(testLogger(), repo, routing.NewPathMatcher(), publisher)

		_, err := creator.Create(ctx, &request.PolicyRequest{Name: "bad", PathPattern: "/api/**/x"})

		assert.ErrorIs(t, err, ErrInvalidPolicy)
	})

	t.Run("it should surface duplicate patterns", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		creator := NewCreator(testLogger(), repo, routing.NewPathMatcher(), publisher)

		repo.On("Create", ctx, mock.Anything).Return(domain.ErrPolicyAlreadyExists)

		_, err := creator.Create(ctx, &request.PolicyRequest{Name: "dup", PathPattern: "/api/**"})

		assert.ErrorIs(t, err, domain.ErrPolicyAlreadyExists)
	})

	t.Run("it should not fail when publishing fails", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		creator := NewCreator(testLogger(), repo, routing.NewPathMatcher(), publisher)

		repo.On("Create", ctx, mock.Anything).Return(nil)
		publisher.On("Publish", ctx, infraCache.PolicyEventsChannel, mock.Anything).Return(errors.New("redis down"))

		_, err := creator.Create(ctx, &request.PolicyRequest{Name: "ok", PathPattern: "/ok"})

		assert.NoError(t, err)
	})
}

func TestUpdater_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("it should replace the configuration and publish an updated event", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		updater := NewUpdater(testLogger(), repo, routing.NewPathMatcher(), publisher)

		existing := domainPolicy.New("api", "/api/**", cors.Config{
			AllowedOrigins: []string{"https://a.com"},
			AllowedHeaders: []string{"X-Old"},
		})
		existing.ID = id
		repo.On("Get", ctx, id).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)
		publisher.On("Publish", ctx, infraCache.PolicyEventsChannel, changedEvent(event.ActionUpdated, "/api/v2/**")).Return(nil)

		disabled := false
		entity, err := updater.Update(ctx, id, &request.PolicyRequest{
			Name:           "api v2",
			PathPattern:    "/api/v2/**",
			AllowedOrigins: []string{"https://b.com"},
			Enabled:        &disabled,
		})

		require.NoError(t, err)
		assert.Equal(t, "/api/v2/**", entity.PathPattern)
		assert.Equal(t, []string{"https://b.com"}, entity.ToConfig().AllowedOrigins)
		assert.Nil(t, entity.ToConfig().AllowedHeaders)
		assert.False(t, entity.Enabled)
	})

	t.Run("it should return not found", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		updater := NewUpdater(testLogger(), repo, routing.NewPathMatcher(), publisher)

		repo.On("Get", ctx, id).Return(nil, domain.NewNotFoundError("cors policy", id))

		_, err := updater.Update(ctx, id, &request.PolicyRequest{Name: "x", PathPattern: "/x"})

		assert.True(t, domain.IsNotFoundError(err))
	})
}

func TestDeleter_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("it should delete and publish a deleted event", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		deleter := NewDeleter(testLogger(), repo, publisher)

		existing := domainPolicy.New("api", "/api/**", cors.Config{})
		existing.ID = id
		repo.On("Get", ctx, id).Return(existing, nil)
		repo.On("Delete", ctx, id).Return(nil)
		publisher.On("Publish", ctx, infraCache.PolicyEventsChannel, changedEvent(event.ActionDeleted, "/api/**")).Return(nil)

		assert.NoError(t, deleter.Delete(ctx, id))
	})

	t.Run("it should return not found without publishing", func(t *testing.T) {
		repo := policyMocks.NewRepository(t)
		publisher := cacheMocks.NewEventPublisher(t)
		deleter := NewDeleter(testLogger(), repo, publisher)

		repo.On("Get", ctx, id).Return(nil, domain.NewNotFoundError("cors policy", id))

		err := deleter.Delete(ctx, id)

		assert.True(t, domain.IsNotFoundError(err))
	})
}

package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/CorsGate/pkg/app/routing"
	"github.com/NeuralTrust/CorsGate/pkg/domain"
	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	"github.com/NeuralTrust/CorsGate/pkg/handlers/http/request"
	infraCache "github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Creator --dir=. --output=./mocks --filename=policy_creator_mock.go --case=underscore --with-expecter
type Creator interface {
	Create(ctx context.Context, req *request.PolicyRequest) (*domainPolicy.CorsPolicy, error)
}

type creator struct {
	logger    *logrus.Logger
	repo      domainPolicy.Repository
	matcher   routing.PathMatcher
	publisher infraCache.EventPublisher
}

func NewCreator(
	logger *logrus.Logger,
	repo domainPolicy.Repository,
	matcher routing.PathMatcher,
	publisher infraCache.EventPublisher,
) Creator {
	return &creator{
		logger:    logger,
		repo:      repo,
		matcher:   matcher,
		publisher: publisher,
	}
}

func (c *creator) Create(ctx context.Context, req *request.PolicyRequest) (*domainPolicy.CorsPolicy, error) {
	if err := validateRequest(c.matcher, req); err != nil {
		return nil, err
	}

	entity := domainPolicy.New(req.Name, req.PathPattern, req.ToConfig())
	entity.Enabled = req.IsEnabled()
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	if err := c.repo.Create(ctx, entity); err != nil {
		if errors.Is(err, domain.ErrPolicyAlreadyExists) {
			return nil, err
		}
		c.logger.WithError(err).Error("failed to create cors policy")
		return nil, fmt.Errorf("failed to create cors policy: %w", err)
	}

	publishChange(ctx, c.logger, c.publisher, entity, event.ActionCreated)
	return entity, nil
}

func validateRequest(matcher routing.PathMatcher, req *request.PolicyRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if err := matcher.Validate(req.PathPattern); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if err := req.ToConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	return nil
}

// publishChange notifies every node. A failed publish is logged only, the
// scheduled reload picks the change up later.
func publishChange(
	ctx context.Context,
	logger *logrus.Logger,
	publisher infraCache.EventPublisher,
	entity *domainPolicy.CorsPolicy,
	action string,
) {
	err := publisher.Publish(ctx, infraCache.PolicyEventsChannel, event.PoliciesChangedEvent{
		PolicyID: entity.ID.String(),
		Pattern:  entity.PathPattern,
		Action:   action,
	})
	if err != nil {
		logger.WithError(err).WithField("policy_id", entity.ID.String()).Error("failed to publish cors policy event")
	}
}

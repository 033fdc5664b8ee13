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
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Updater --dir=. --output=./mocks --filename=policy_updater_mock.go --case=underscore --with-expecter
type Updater interface {
	Update(ctx context.Context, id uuid.UUID, req *request.PolicyRequest) (*domainPolicy.CorsPolicy, error)
}

type updater struct {
	logger    *logrus.Logger
	repo      domainPolicy.Repository
	matcher   routing.PathMatcher
	publisher infraCache.EventPublisher
}

func NewUpdater(
	logger *logrus.Logger,
	repo domainPolicy.Repository,
	matcher routing.PathMatcher,
	publisher infraCache.EventPublisher,
) Updater {
	return &updater{
		logger:    logger,
		repo:      repo,
		matcher:   matcher,
		publisher: publisher,
	}
}

// Update replaces the whole configuration of a policy. Fields omitted from the
// request become unset.
func (u *updater) Update(ctx context.Context, id uuid.UUID, req *request.PolicyRequest) (*domainPolicy.CorsPolicy, error) {
	if err := validateRequest(u.matcher, req); err != nil {
		return nil, err
	}

	entity, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entity.Name = req.Name
	entity.PathPattern = req.PathPattern
	entity.SetConfig(req.ToConfig())
	if req.Enabled != nil {
		entity.Enabled = *req.Enabled
	}
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}

	if err := u.repo.Update(ctx, entity); err != nil {
		if domain.IsNotFoundError(err) || errors.Is(err, domain.ErrPolicyAlreadyExists) {
			return nil, err
		}
		u.logger.WithError(err).Error("failed to update cors policy")
		return nil, fmt.Errorf("failed to update cors policy: %w", err)
	}

	publishChange(ctx, u.logger, u.publisher, entity, event.ActionUpdated)
	return entity, nil
}

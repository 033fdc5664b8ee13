package policy

import (
	"context"

	"github.com/NeuralTrust/CorsGate/pkg/domain"
	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	infraCache "github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Deleter --dir=. --output=./mocks --filename=policy_deleter_mock.go --case=underscore --with-expecter
type Deleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type deleter struct {
	logger    *logrus.Logger
	repo      domainPolicy.Repository
	publisher infraCache.EventPublisher
}

func NewDeleter(
	logger *logrus.Logger,
	repo domainPolicy.Repository,
	publisher infraCache.EventPublisher,
) Deleter {
	return &deleter{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
	}
}

func (d *deleter) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := d.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := d.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFoundError(err) {
			return err
		}
		d.logger.WithError(err).Error("failed to delete cors policy")
		return err
	}

	publishChange(ctx, d.logger, d.publisher, entity, event.ActionDeleted)
	return nil
}

package subscriber

import (
	"context"

	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	infraCache "github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type PoliciesChangedEventSubscriber struct {
	logger *logrus.Logger
	loader policy.Loader
}

func NewPoliciesChangedEventSubscriber(
	logger *logrus.Logger,
	loader policy.Loader,
) infraCache.EventSubscriber[event.PoliciesChangedEvent] {
	return &PoliciesChangedEventSubscriber{
		logger: logger,
		loader: loader,
	}
}

func (s PoliciesChangedEventSubscriber) OnEvent(ctx context.Context, evt event.PoliciesChangedEvent) error {
	s.logger.WithFields(logrus.Fields{
		"policyID": evt.PolicyID,
		"pattern":  evt.Pattern,
		"action":   evt.Action,
	}).Debug("reloading cors policies after change")

	_, err := s.loader.Reload(ctx)
	return err
}

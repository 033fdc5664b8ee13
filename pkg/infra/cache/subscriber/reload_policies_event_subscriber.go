package subscriber

import (
	"context"

	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	infraCache "github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

type ReloadPoliciesEventSubscriber struct {
	logger *logrus.Logger
	loader policy.Loader
	nodeID string
}

// NewReloadPoliciesEventSubscriber ignores requests published by nodeID, which
// already reloaded before publishing.
func NewReloadPoliciesEventSubscriber(
	logger *logrus.Logger,
	loader policy.Loader,
	nodeID string,
) infraCache.EventSubscriber[event.ReloadPoliciesEvent] {
	return &ReloadPoliciesEventSubscriber{
		logger: logger,
		loader: loader,
		nodeID: nodeID,
	}
}

func (s ReloadPoliciesEventSubscriber) OnEvent(ctx context.Context, evt event.ReloadPoliciesEvent) error {
	if evt.RequestedBy != "" && evt.RequestedBy == s.nodeID {
		return nil
	}
	s.logger.WithField("requestedBy", evt.RequestedBy).Debug("reloading cors policies on request")

	_, err := s.loader.Reload(ctx)
	return err
}

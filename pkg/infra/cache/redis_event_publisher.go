package cache

import (
	"context"

	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
)

type redisEventPublisher struct {
	cache Client
}

func NewRedisEventPublisher(cache Client) EventPublisher {
	return &redisEventPublisher{
		cache: cache,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, channel Channel, ev event.Event) error {
	data, err := EncodePolicyEvent(ev)
	if err != nil {
		return err
	}
	return p.cache.RedisClient().Publish(ctx, string(channel), data).Err()
}

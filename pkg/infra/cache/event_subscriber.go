package cache

import (
	"context"

	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
)

// EventSubscriber handles one policy event type. Errors are logged by the
// listener and never stop dispatch.
type EventSubscriber[T event.Event] interface {
	OnEvent(ctx context.Context, ev T) error
}

type EventSubscriberFunc[T event.Event] func(ctx context.Context, ev T) error

func (f EventSubscriberFunc[T]) OnEvent(ctx context.Context, ev T) error {
	return f(ctx, ev)
}

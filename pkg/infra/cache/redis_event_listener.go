package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/sirupsen/logrus"
)

const reconnectDelay = time.Second

type redisEventListener struct {
	logger      *logrus.Logger
	cache       Client
	mu          sync.RWMutex
	subscribers map[reflect.Type]interface{}
	registry    map[string]reflect.Type
}

func NewRedisEventListener(
	logger *logrus.Logger,
	cache Client,
	registry map[string]reflect.Type,
) EventListener {
	return &redisEventListener{
		logger:      logger,
		cache:       cache,
		subscribers: make(map[reflect.Type]interface{}),
		registry:    registry,
	}
}

func RegisterEventSubscriber[T event.Event](listener EventListener, subscriber EventSubscriber[T]) {
	var evt T
	listener.Register(reflect.TypeOf(evt), subscriber)
}

func (r *redisEventListener) Register(eventType reflect.Type, subscriber interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[eventType] = subscriber
}

// Listen blocks until ctx is done, resubscribing after connection loss.
func (r *redisEventListener) Listen(ctx context.Context, channels ...Channel) {
	channelNames := make([]string, 0, len(channels))
	for _, ch := range channels {
		channelNames = append(channelNames, string(ch))
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("redis pubsub listener shutting down")
			return
		default:
		}

		r.listenOnce(ctx, channelNames)

		if ctx.Err() != nil {
			return
		}

		r.logger.Warn("redis pubsub disconnected, reconnecting in 1s...")
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (r *redisEventListener) listenOnce(ctx context.Context, channelNames []string) {
	pubSub := r.cache.RedisClient().Subscribe(ctx, channelNames...)
	defer func() { _ = pubSub.Close() }()

	r.logger.WithField("channels", channelNames).Debug("redis pubsub connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = pubSub.Close()
		case <-done:
		}
	}()

	for msg := range pubSub.Channel() {
		if ctx.Err() != nil {
			return
		}
		r.handleMessage(ctx, msg.Payload)
	}
}

func (r *redisEventListener) handleMessage(ctx context.Context, payload string) {
	ev, err := DecodePolicyEvent([]byte(payload), r.registry)
	if err != nil {
		r.logger.WithError(err).Error("failed to decode policy event")
		return
	}
	r.notifySubscribers(ctx, ev)
}

func (r *redisEventListener) notifySubscribers(ctx context.Context, concreteEvent interface{}) {
	r.mu.RLock()
	sub, ok := r.subscribers[reflect.TypeOf(concreteEvent)]
	r.mu.RUnlock()
	if !ok {
		r.logger.WithField("event", fmt.Sprintf("%T", concreteEvent)).Debug("no subscriber for event")
		return
	}

	method := reflect.ValueOf(sub).MethodByName("OnEvent")
	if !method.IsValid() {
		r.logger.Debug("subscriber does not implement OnEvent")
		return
	}
	results := method.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(concreteEvent)})
	if len(results) > 0 && !results[0].IsNil() {
		if err, ok := results[0].Interface().(error); ok {
			r.logger.WithError(err).Errorf("error executing subscriber for event %v", concreteEvent)
		}
	}
}

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
)

var ErrUnknownEventType = errors.New("unknown policy event type")

// PolicyEventMessage is what travels on the policy events channel. Event
// holds the JSON of the concrete event named by Type.
type PolicyEventMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

func EncodePolicyEvent(ev event.Event) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ev.Type(), err)
	}
	return json.Marshal(PolicyEventMessage{Type: ev.Type(), Event: body})
}

// DecodePolicyEvent returns the concrete event registered for the message
// type, by value.
func DecodePolicyEvent(payload []byte, registry map[string]reflect.Type) (event.Event, error) {
	var msg PolicyEventMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode policy event message: %w", err)
	}
	concreteType, ok := registry[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, msg.Type)
	}
	ptr := reflect.New(concreteType)
	if len(msg.Event) > 0 {
		if err := json.Unmarshal(msg.Event, ptr.Interface()); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", msg.Type, err)
		}
	}
	ev, ok := ptr.Elem().Interface().(event.Event)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an event", ErrUnknownEventType, concreteType)
	}
	return ev, nil
}

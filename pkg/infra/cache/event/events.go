package event

import "reflect"

type Event interface {
	Type() string
}

var (
	PoliciesChangedEventType = "PoliciesChangedEvent"
	ReloadPoliciesEventType  = "ReloadPoliciesEvent"
)

var Registry = map[string]reflect.Type{
	PoliciesChangedEventType: reflect.TypeOf(PoliciesChangedEvent{}),
	ReloadPoliciesEventType:  reflect.TypeOf(ReloadPoliciesEvent{}),
}

package cache

type Channel string

const PolicyEventsChannel Channel = "cors_policy_events"

package orchestration

import "github.com/rapidanswer/rapidanswer-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

package engine

import "time"

// Event is a per-tick diagnostic. Events are advisory: the engine keeps
// ticking whether or not anyone drains the channel.
type Event struct {
	Time    time.Time
	Mapping string
	Reason  string
}

const eventBuffer = 64

// Events returns the diagnostic channel. The channel is bounded; when
// the consumer falls behind, new events are dropped rather than blocking
// the tick loop.
func (e *Engine) Events() <-chan Event {
	return e.events
}

func (e *Engine) emit(mapping, reason string) {
	ev := Event{Time: e.now(), Mapping: mapping, Reason: reason}
	e.logger.Debug("mapping skipped", "mapping", mapping, "reason", reason)
	select {
	case e.events <- ev:
	default:
	}
}

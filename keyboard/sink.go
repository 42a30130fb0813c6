package keyboard

import "log/slog"

// Sink receives edge-triggered key events from the mapping engine. Down
// and Up are only called when the mapped output actually changes state,
// never once per tick.
type Sink interface {
	KeyDown(k Key, mods Modifier) error
	KeyUp(k Key, mods Modifier) error
}

// LogSink writes key events to a logger. It stands in for an OS-level
// injection backend when none is wired up (check/dry-run modes).
type LogSink struct {
	Logger *slog.Logger
}

func (s *LogSink) KeyDown(k Key, mods Modifier) error {
	s.Logger.Debug("key down", "key", k.String(), "mods", mods.String())
	return nil
}

func (s *LogSink) KeyUp(k Key, mods Modifier) error {
	s.Logger.Debug("key up", "key", k.String(), "mods", mods.String())
	return nil
}

// NopSink discards key events.
type NopSink struct{}

func (NopSink) KeyDown(Key, Modifier) error { return nil }
func (NopSink) KeyUp(Key, Modifier) error   { return nil }

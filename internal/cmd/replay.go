package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/hsokol/vjmap/engine"
)

// replayFrame is one line of a replay stream: device name to state.
type replayFrame map[string]struct {
	Axes    []float64 `json:"axes"`
	Buttons []bool    `json:"buttons"`
	Hats    []int     `json:"hats"`
}

// replayProvider serves the most recently read frame as the physical
// snapshot. With no replay source wired it serves an empty snapshot,
// so every mapping reports its input device as missing.
type replayProvider struct {
	mu   sync.Mutex
	snap engine.Snapshot
}

func newReplayProvider() *replayProvider {
	return &replayProvider{snap: engine.Snapshot{}}
}

func (p *replayProvider) Snapshot() engine.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(engine.Snapshot, len(p.snap))
	for name, st := range p.snap {
		out[name] = st
	}
	return out
}

func (p *replayProvider) set(frame replayFrame) {
	snap := make(engine.Snapshot, len(frame))
	for name, st := range frame {
		snap[name] = engine.DeviceInputState{
			DeviceName: name,
			Axes:       st.Axes,
			Buttons:    st.Buttons,
			Hats:       st.Hats,
		}
	}
	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()
}

// feed consumes frames until the reader is exhausted. Malformed lines
// are logged and skipped.
func (p *replayProvider) feed(r io.Reader, logger *slog.Logger) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var frame replayFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			logger.Warn("bad replay frame", "line", line, "error", err)
			continue
		}
		p.set(frame)
	}
	if err := sc.Err(); err != nil {
		logger.Error("replay stream error", "error", err)
	}
	logger.Info("replay stream ended", "frames", line)
}

// openProvider wires a snapshot provider for the given replay source.
func openProvider(replay string, logger *slog.Logger) (engine.SnapshotProvider, error) {
	p := newReplayProvider()
	switch replay {
	case "":
		logger.Warn("no input source configured, mappings will idle")
	case "-":
		go p.feed(os.Stdin, logger)
	default:
		f, err := os.Open(replay)
		if err != nil {
			return nil, fmt.Errorf("open replay source: %w", err)
		}
		go func() {
			defer f.Close()
			p.feed(f, logger)
		}()
	}
	return p, nil
}

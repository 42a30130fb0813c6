package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/hsokol/vjmap/engine"
)

// Detect waits for the first significant physical control movement and
// prints its identity, for building mappings by wiggling a control.
type Detect struct {
	Replay string `help:"Read physical input as JSON lines from this file ('-' for stdin)" default:"-"`
	JSON   bool   `help:"Force machine-readable output"`
}

func (d *Detect) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := openProvider(d.Replay, logger)
	if err != nil {
		return err
	}

	logger.Info("waiting for input, move the control to map", "timeout", engine.DetectTimeout)
	det := engine.NewDetector(provider)
	res := <-det.Detect(ctx)

	switch res.Outcome {
	case engine.Detected:
	case engine.TimedOut:
		return fmt.Errorf("no input detected within %s", engine.DetectTimeout)
	default:
		return fmt.Errorf("detection %s", res.Outcome)
	}

	// Humans at a terminal get prose; pipes get JSON.
	if d.JSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		out := struct {
			DeviceID string  `json:"deviceId"`
			Type     string  `json:"type"`
			Index    int     `json:"index"`
			Value    float64 `json:"value"`
		}{res.Source.DeviceID, string(res.Source.Type), res.Source.Index, res.Value}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Printf("detected %s %d on %q (value %.2f)\n",
		res.Source.Type, res.Source.Index, res.Source.DeviceID, res.Value)
	return nil
}

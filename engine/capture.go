package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hsokol/vjmap/profile"
)

const (
	// DetectTimeout bounds how long a capture wait may run.
	DetectTimeout = 15 * time.Second
	// DetectThreshold is the minimum axis delta from the baseline that
	// counts as deliberate movement rather than noise.
	DetectThreshold = 0.15

	detectPoll = 10 * time.Millisecond
)

// DetectOutcome is the typed result of a capture wait.
type DetectOutcome int

const (
	Detected DetectOutcome = iota
	TimedOut
	Cancelled
)

func (o DetectOutcome) String() string {
	switch o {
	case Detected:
		return "detected"
	case TimedOut:
		return "timed out"
	default:
		return "cancelled"
	}
}

// Detection is what a capture wait resolved to. Source and Value are
// only meaningful when Outcome is Detected.
type Detection struct {
	Outcome DetectOutcome
	Source  profile.InputSource
	Value   float64
}

// Detector runs capture waits against the physical snapshot provider.
// At most one wait is in flight; starting a new one cancels the
// previous, which resolves to Cancelled.
type Detector struct {
	provider SnapshotProvider
	timeout  time.Duration
	poll     time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewDetector creates a detector with the default timeout.
func NewDetector(provider SnapshotProvider) *Detector {
	return &Detector{provider: provider, timeout: DetectTimeout, poll: detectPoll}
}

// Detect starts a capture wait and returns a single-result channel. The
// wait ends on the first input moved past the threshold, on timeout, or
// when ctx (or a newer Detect call) cancels it.
func (d *Detector) Detect(ctx context.Context) <-chan Detection {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	result := make(chan Detection, 1)
	baseline := d.provider.Snapshot()

	go func() {
		defer cancel()
		deadline := time.NewTimer(d.timeout)
		defer deadline.Stop()
		ticker := time.NewTicker(d.poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				result <- Detection{Outcome: Cancelled}
				return
			case <-deadline.C:
				result <- Detection{Outcome: TimedOut}
				return
			case <-ticker.C:
				if det, ok := diffSnapshots(baseline, d.provider.Snapshot()); ok {
					result <- det
					return
				}
			}
		}
	}()
	return result
}

// Cancel aborts the in-flight wait, if any.
func (d *Detector) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// diffSnapshots finds the first input that moved meaningfully since the
// baseline. Buttons trip on a new press, axes on a delta past the
// threshold, hats on any change away from neutral.
func diffSnapshots(base, cur Snapshot) (Detection, bool) {
	for id, dev := range cur {
		bdev := base[id]
		for i, v := range dev.Axes {
			var bv float64
			if i < len(bdev.Axes) {
				bv = bdev.Axes[i]
			}
			if math.Abs(v-bv) >= DetectThreshold {
				return Detection{
					Outcome: Detected,
					Source:  profile.InputSource{DeviceID: id, DeviceName: dev.DeviceName, Type: profile.InputAxis, Index: i},
					Value:   v,
				}, true
			}
		}
		for i, v := range dev.Buttons {
			bv := i < len(bdev.Buttons) && bdev.Buttons[i]
			if v && !bv {
				return Detection{
					Outcome: Detected,
					Source:  profile.InputSource{DeviceID: id, DeviceName: dev.DeviceName, Type: profile.InputButton, Index: i},
					Value:   1,
				}, true
			}
		}
		for i, v := range dev.Hats {
			bv := -1
			if i < len(bdev.Hats) {
				bv = bdev.Hats[i]
			}
			if v != bv && v >= 0 {
				return Detection{
					Outcome: Detected,
					Source:  profile.InputSource{DeviceID: id, DeviceName: dev.DeviceName, Type: profile.InputHat, Index: i},
					Value:   float64(v),
				}, true
			}
		}
	}
	return Detection{}, false
}

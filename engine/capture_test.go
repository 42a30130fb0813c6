package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsokol/vjmap/profile"
)

func testDetector(inputs *fakeInputs, timeout time.Duration) *Detector {
	d := NewDetector(inputs)
	d.timeout = timeout
	d.poll = time.Millisecond
	return d
}

func TestDetectAxisMovement(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 4, 8, 1)
	inputs.setAxis("devA", 2, 0.05)

	d := testDetector(inputs, time.Second)
	ch := d.Detect(context.Background())

	// Below the threshold: noise, must not resolve.
	inputs.setAxis("devA", 2, 0.12)
	time.Sleep(20 * time.Millisecond)
	select {
	case det := <-ch:
		t.Fatalf("resolved on noise: %+v", det)
	default:
	}

	inputs.setAxis("devA", 2, 0.6)
	det := <-ch
	require.Equal(t, Detected, det.Outcome)
	assert.Equal(t, profile.InputAxis, det.Source.Type)
	assert.Equal(t, "devA", det.Source.DeviceID)
	assert.Equal(t, 2, det.Source.Index)
	assert.InDelta(t, 0.6, det.Value, 1e-9)
}

func TestDetectButtonPress(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 0, 8, 0)

	d := testDetector(inputs, time.Second)
	ch := d.Detect(context.Background())
	inputs.press("devA", 5, true)

	det := <-ch
	require.Equal(t, Detected, det.Outcome)
	assert.Equal(t, profile.InputButton, det.Source.Type)
	assert.Equal(t, 5, det.Source.Index)
}

func TestDetectHatMovement(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 0, 0, 2)

	d := testDetector(inputs, time.Second)
	ch := d.Detect(context.Background())
	inputs.setHat("devA", 1, 18000)

	det := <-ch
	require.Equal(t, Detected, det.Outcome)
	assert.Equal(t, profile.InputHat, det.Source.Type)
	assert.Equal(t, 1, det.Source.Index)
}

func TestDetectTimesOut(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 2, 2, 0)

	d := testDetector(inputs, 30*time.Millisecond)
	det := <-d.Detect(context.Background())
	assert.Equal(t, TimedOut, det.Outcome)
}

func TestDetectCancelled(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 2, 2, 0)

	d := testDetector(inputs, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	ch := d.Detect(ctx)
	cancel()
	det := <-ch
	assert.Equal(t, Cancelled, det.Outcome)
}

func TestNewDetectCancelsPrevious(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 2, 2, 0)

	d := testDetector(inputs, time.Second)
	first := d.Detect(context.Background())
	second := d.Detect(context.Background())

	det := <-first
	assert.Equal(t, Cancelled, det.Outcome, "starting a new wait cancels the old one")

	inputs.press("devA", 0, true)
	det = <-second
	assert.Equal(t, Detected, det.Outcome)
}

func TestExplicitCancel(t *testing.T) {
	inputs := newFakeInputs()
	inputs.add("devA", 2, 2, 0)

	d := testDetector(inputs, time.Second)
	ch := d.Detect(context.Background())
	d.Cancel()
	det := <-ch
	assert.Equal(t, Cancelled, det.Outcome)
}

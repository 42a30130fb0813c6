package cmd

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsokol/vjmap/vdev"
)

func TestParseDeviceSpec(t *testing.T) {
	tests := []struct {
		spec    string
		id      int
		caps    vdev.Capabilities
		wantErr bool
	}{
		{spec: "1:8:32:1", id: 1, caps: vdev.Capabilities{AxisCount: 8, ButtonCount: 32, ContPovCount: 1}},
		{spec: "3:4:16:0", id: 3, caps: vdev.Capabilities{AxisCount: 4, ButtonCount: 16}},
		{spec: "1:8:32", wantErr: true},
		{spec: "0:8:32:1", wantErr: true},
		{spec: "one:8:32:1", wantErr: true},
		{spec: "1:-2:32:1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			id, caps, err := parseDeviceSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.caps, caps)
		})
	}
}

func TestBuildRegistryConfiguresDevices(t *testing.T) {
	reg, err := buildRegistry(t.TempDir(), []string{"1:8:32:1", "2:4:8:0"})
	require.NoError(t, err)

	caps, ok := reg.Capabilities(1)
	require.True(t, ok)
	assert.Equal(t, 8, caps.AxisCount)

	caps, ok = reg.Capabilities(2)
	require.True(t, ok)
	assert.Equal(t, 8, caps.ButtonCount)

	_, ok = reg.Capabilities(3)
	assert.False(t, ok)
}

func TestReplayProviderFeed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stream := strings.Join([]string{
		`{"stick":{"axes":[0.1,0.2],"buttons":[true,false],"hats":[-1]}}`,
		`not json`,
		`{"stick":{"axes":[0.5,0.2],"buttons":[true,false],"hats":[9000]}}`,
	}, "\n")

	p := newReplayProvider()
	p.feed(strings.NewReader(stream), logger)

	snap := p.Snapshot()
	v, ok := snap.Axis("stick", 0)
	require.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-9)

	h, ok := snap.Hat("stick", 0)
	require.True(t, ok)
	assert.Equal(t, 9000, h)
}

func TestReplayProviderEmptySnapshot(t *testing.T) {
	p := newReplayProvider()
	snap := p.Snapshot()
	_, ok := snap.Axis("stick", 0)
	assert.False(t, ok)
}

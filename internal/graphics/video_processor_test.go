package graphics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVideoProcessorIdentityLeavesFrameUnchanged(t *testing.T) {
	vp := NewVideoProcessor(1.0, 1.0, 1.0)
	var frame [256 * 240]uint32
	frame[0] = 0x112233
	out := vp.ProcessFrame(frame)
	require.Equal(t, frame, out)
}

func TestVideoProcessorBrightnessScalesChannels(t *testing.T) {
	vp := NewVideoProcessor(0.5, 1.0, 1.0)
	var frame [256 * 240]uint32
	frame[0] = 0x808080
	out := vp.ProcessFrame(frame)
	r := (out[0] >> 16) & 0xFF
	require.Less(t, r, uint32(0x80))
}

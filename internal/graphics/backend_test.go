package graphics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateBackendDispatchesByType(t *testing.T) {
	headless, err := CreateBackend(BackendHeadless)
	require.NoError(t, err)
	require.Equal(t, "Headless", headless.GetName())

	terminal, err := CreateBackend(BackendTerminal)
	require.NoError(t, err)
	require.Equal(t, "Terminal", terminal.GetName())

	unknown, err := CreateBackend(BackendType("nonsense"))
	require.NoError(t, err)
	require.Equal(t, "Ebitengine", unknown.GetName())
}

func TestHeadlessBackendInitializeTwiceFails(t *testing.T) {
	b := NewHeadlessBackend()
	require.NoError(t, b.Initialize(Config{}))
	require.Error(t, b.Initialize(Config{}))
}

func TestHeadlessWindowRendersFramesAndKeepsLast(t *testing.T) {
	b := NewHeadlessBackend()
	require.NoError(t, b.Initialize(Config{}))
	win, err := b.CreateWindow("nes", 256, 240)
	require.NoError(t, err)

	var frame [256 * 240]uint32
	frame[0] = 0xFF0000
	require.NoError(t, win.RenderFrame(frame))

	hw := win.(*HeadlessWindow)
	require.Equal(t, 1, hw.FrameCount())
	require.Equal(t, uint32(0xFF0000), hw.LastFrame()[0])
}

func TestTerminalWindowRenderFrameDoesNotPanic(t *testing.T) {
	b := NewTerminalBackend()
	require.NoError(t, b.Initialize(Config{}))
	win, err := b.CreateWindow("nes", 256, 240)
	require.NoError(t, err)

	var frame [256 * 240]uint32
	require.NoError(t, win.RenderFrame(frame))
	require.False(t, win.ShouldClose())
	win.Cleanup()
	require.True(t, win.ShouldClose())
}

package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/graphics"
	"gones/internal/input"
)

func TestKeyStateTracksPressAndRelease(t *testing.T) {
	var k keyState
	k.Apply(graphics.InputEvent{Type: graphics.InputEventTypeButton, Button: graphics.ButtonA, Pressed: true})
	require.Equal(t, uint8(input.A), k.Poll1())

	k.Apply(graphics.InputEvent{Type: graphics.InputEventTypeButton, Button: graphics.ButtonA, Pressed: false})
	require.Equal(t, uint8(0), k.Poll1())
}

func TestKeyStateKeepsPortsIndependent(t *testing.T) {
	var k keyState
	k.Apply(graphics.InputEvent{Type: graphics.InputEventTypeButton, Button: graphics.ButtonStart, Pressed: true})
	k.Apply(graphics.InputEvent{Type: graphics.InputEventTypeButton, Button: graphics.Button2B, Pressed: true})

	require.Equal(t, uint8(input.Start), k.Poll1())
	require.Equal(t, uint8(input.B), k.Poll2())
}

func TestKeyStateIgnoresNonButtonEvents(t *testing.T) {
	var k keyState
	k.Apply(graphics.InputEvent{Type: graphics.InputEventTypeKey, Key: graphics.KeyEscape, Pressed: true})
	require.Equal(t, uint8(0), k.Poll1())
}

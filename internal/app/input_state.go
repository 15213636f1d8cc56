package app

import (
	"sync/atomic"

	"gones/internal/graphics"
	"gones/internal/input"
)

// keyState tracks the live button bitmask for both controller ports,
// updated from graphics.InputEvent as the host drains them and read
// back by input.PollFunc on every strobe/read — the poll-callback model
// spec.md §4.5 asks the scheduler to drive controllers through.
type keyState struct {
	port1 atomic.Uint32
	port2 atomic.Uint32
}

// Apply folds one input event into the held button state. Unrecognized
// events (plain key events with no NES button mapping) are ignored.
func (k *keyState) Apply(event graphics.InputEvent) {
	if event.Type != graphics.InputEventTypeButton {
		return
	}
	if bit, port2 := buttonBit(event.Button); bit != 0 {
		reg := &k.port1
		if port2 {
			reg = &k.port2
		}
		for {
			old := reg.Load()
			next := old | uint32(bit)
			if !event.Pressed {
				next = old &^ uint32(bit)
			}
			if reg.CompareAndSwap(old, next) {
				return
			}
		}
	}
}

// Poll1/Poll2 satisfy input.PollFunc for ports 1 and 2 respectively.
func (k *keyState) Poll1() uint8 { return uint8(k.port1.Load()) }
func (k *keyState) Poll2() uint8 { return uint8(k.port2.Load()) }

// buttonBit maps a graphics.Button to its input.Button bit and whether
// it belongs to the second controller port.
func buttonBit(b graphics.Button) (input.Button, bool) {
	switch b {
	case graphics.ButtonA:
		return input.A, false
	case graphics.ButtonB:
		return input.B, false
	case graphics.ButtonSelect:
		return input.Select, false
	case graphics.ButtonStart:
		return input.Start, false
	case graphics.ButtonUp:
		return input.Up, false
	case graphics.ButtonDown:
		return input.Down, false
	case graphics.ButtonLeft:
		return input.Left, false
	case graphics.ButtonRight:
		return input.Right, false
	case graphics.Button2A:
		return input.A, true
	case graphics.Button2B:
		return input.B, true
	case graphics.Button2Select:
		return input.Select, true
	case graphics.Button2Start:
		return input.Start, true
	case graphics.Button2Up:
		return input.Up, true
	case graphics.Button2Down:
		return input.Down, true
	case graphics.Button2Left:
		return input.Left, true
	case graphics.Button2Right:
		return input.Right, true
	default:
		return 0, false
	}
}

package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrobeLatchesAndShiftsOutButtons(t *testing.T) {
	c := New()
	c.SetPollFuncs(func() uint8 { return uint8(A | Start | Right) }, nil)

	c.Write(0x01) // strobe high
	c.Write(0x00) // strobe low, latch holds last-polled snapshot

	var bits []uint8
	for i := 0; i < 8; i++ {
		bits = append(bits, c.Read(0))
	}
	require.Equal(t, []uint8{1, 0, 0, 1, 0, 0, 0, 1}, bits)

	// reads beyond the 8th button return the open-bus fill value (1).
	require.Equal(t, uint8(1), c.Read(0))
}

func TestStrobeHeldHighAlwaysReportsButtonA(t *testing.T) {
	c := New()
	calls := 0
	c.SetPollFuncs(func() uint8 { calls++; return uint8(A) }, nil)

	c.Write(0x01)
	require.Equal(t, uint8(1), c.Read(0))
	require.Equal(t, uint8(1), c.Read(0))
	require.Equal(t, 3, calls) // once on Write, once per Read while strobed
}

func TestPort1ReadsCarryOpenBusBitSix(t *testing.T) {
	c := New()
	c.SetPollFuncs(nil, func() uint8 { return 0 })
	c.Write(0x01)
	c.Write(0x00)
	require.Equal(t, uint8(0x40), c.Read(1))
}

func TestControllersAreIndependent(t *testing.T) {
	c := New()
	c.SetPollFuncs(func() uint8 { return uint8(A) }, func() uint8 { return uint8(B) })
	c.Write(0x01)
	c.Write(0x00)
	require.Equal(t, uint8(1), c.Read(0))
	require.Equal(t, uint8(0x40), c.Read(1)) // B bit (0x02) shifted out is bit0=0, open-bus bit6 set
}

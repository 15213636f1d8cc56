package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	mem [0x4000]byte
}

func (b *fakeBus) Read(addr uint16) uint8        { return b.mem[addr&0x3FFF] }
func (b *fakeBus) Write(addr uint16, value uint8) { b.mem[addr&0x3FFF] = value }

func TestPaletteMirroring(t *testing.T) {
	p := New(&fakeBus{})
	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x10)
	p.WriteRegister(0x2007, 0x0A)

	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x00)
	require.Equal(t, uint8(0x0A), p.readPalette(0x3F00))

	p.WriteRegister(0x2006, 0x3F)
	p.WriteRegister(0x2006, 0x04)
	p.WriteRegister(0x2007, 0x0B)
	require.Equal(t, uint8(0x0B), p.readPalette(0x3F14))
}

func TestVBlankSetsStatusAndNMILine(t *testing.T) {
	p := New(&fakeBus{})
	p.WriteRegister(0x2000, ctrlNMIEnable)
	p.Scanline, p.Dot = 241, 1
	p.Tick()
	require.True(t, p.status&statusVBlank != 0)
	require.True(t, p.NMI())
}

func TestReadStatusClearsVBlankAndWriteToggle(t *testing.T) {
	p := New(&fakeBus{})
	p.status |= statusVBlank
	p.nmiOccurred = true
	p.w = true
	v := p.ReadRegister(0x2002)
	require.True(t, v&statusVBlank != 0)
	require.False(t, p.status&statusVBlank != 0)
	require.False(t, p.nmiOccurred)
	require.False(t, p.w)
}

func TestPreRenderClearsVBlankSprite0Overflow(t *testing.T) {
	p := New(&fakeBus{})
	p.status = statusVBlank | statusSprite0 | statusOverflow
	p.Scanline, p.Dot = 261, 1
	p.Tick()
	require.Equal(t, uint8(0), p.status)
}

func TestOAMDMAWritesSequentially(t *testing.T) {
	p := New(&fakeBus{})
	p.WriteRegister(0x2003, 0x10)
	data := make([]byte, 256)
	for i := range data {
		data[i] = uint8(i)
	}
	p.WriteOAMDMA(data)
	require.Equal(t, uint8(0), p.oam[0x10])
	require.Equal(t, uint8(0xEF), p.oam[0xFF])
}

func TestScrollWritesLoadTRegister(t *testing.T) {
	p := New(&fakeBus{})
	p.WriteRegister(0x2005, 0x7D) // coarse X = 15, fine X = 5
	require.Equal(t, uint16(15), p.t&0x1F)
	require.Equal(t, uint8(5), p.x)
	p.WriteRegister(0x2005, 0x5E) // fine Y, coarse Y
	require.False(t, p.w)
}

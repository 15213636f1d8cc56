package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/addrspace"
)

func newTestCPU(t *testing.T) (*CPU, *addrspace.Space) {
	t.Helper()
	bus := addrspace.New("cpu")
	require.NoError(t, bus.AddSegment(addrspace.Segment{Start: 0x0000, Length: 0x10000, Backing: make([]byte, 0x10000), Perm: addrspace.PermReadWrite}))
	c := New(bus)
	bus.Write(resetVector, 0x00)
	bus.Write(resetVector+1, 0x80)
	c.Reset()
	return c, bus
}

func load(bus *addrspace.Space, addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		bus.Write(addr+uint16(i), b)
	}
}

func run(c *CPU, steps int) {
	for i := 0; i < steps; i++ {
		c.Step()
	}
}

func TestLoadStoreChain(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xA9, 0x05, // LDA #$05
		0x8D, 0x00, 0x02, // STA $0200
		0xA9, 0x00, // LDA #$00
		0xAD, 0x00, 0x02, // LDA $0200
	)
	run(c, 4)
	require.Equal(t, uint8(0x05), c.A)
	require.False(t, c.Z)
	require.False(t, c.N)
}

func TestDecimalAdd(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xF8,       // SED
		0x18,       // CLC
		0xA9, 0x18, // LDA #$18
		0x69, 0x06, // ADC #$06
	)
	run(c, 4)
	require.Equal(t, uint8(0x24), c.A)
	require.False(t, c.C)
	require.False(t, c.Z)
}

func TestDecimalOverflow(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xF8,       // SED
		0x18,       // CLC
		0xA9, 0x99, // LDA #$99
		0x69, 0x01, // ADC #$01
	)
	run(c, 4)
	require.Equal(t, uint8(0x00), c.A)
	require.True(t, c.C)
	require.True(t, c.Z)
}

func TestIndirectJMPPageBug(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.Write(0x02FF, 0x34)
	bus.Write(0x0200, 0x12)
	bus.Write(0x0300, 0x99) // must NOT be used as the high byte
	load(bus, 0x8000, 0x6C, 0xFF, 0x02)
	run(c, 1)
	require.Equal(t, uint16(0x1234), c.PC)
}

func TestPHAPLARoundTrip(t *testing.T) {
	c, bus := newTestCPU(t)
	sp := c.SP
	load(bus, 0x8000,
		0xA9, 0x42, // LDA #$42
		0x48,       // PHA
		0xA9, 0x00, // LDA #$00
		0x68, // PLA
	)
	run(c, 4)
	require.Equal(t, uint8(0x42), c.A)
	require.Equal(t, sp, c.SP)
}

func TestPHPPLPRoundTrip(t *testing.T) {
	c, bus := newTestCPU(t)
	c.C, c.N = true, true
	sp := c.SP
	load(bus, 0x8000,
		0x08, // PHP
		0x18, // CLC (clears C so we can observe PLP restoring it)
		0x28, // PLP
	)
	run(c, 3)
	require.True(t, c.C)
	require.True(t, c.N)
	require.Equal(t, sp, c.SP)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU(t)
	sp := c.SP
	load(bus, 0x8000, 0x20, 0x00, 0x90) // JSR $9000
	load(bus, 0x9000, 0x60)             // RTS
	run(c, 2)
	require.Equal(t, uint16(0x8003), c.PC)
	require.Equal(t, sp, c.SP)
}

func TestBranchTakenSkipsInstruction(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xA9, 0x00, // LDA #$00 -> Z=1
		0xF0, 0x02, // BEQ +2 (taken)
		0xA9, 0xFF, // (skipped) LDA #$FF
		0xA9, 0x01, // LDA #$01
	)
	run(c, 3)
	require.Equal(t, uint8(0x01), c.A)
}

func TestBranchNotTakenLeavesPC(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xA9, 0x00, // LDA #$00 -> Z=1
		0xD0, 0x10, // BNE +16, not taken since Z=1
	)
	run(c, 2)
	require.Equal(t, uint16(0x8004), c.PC)
}

func TestAdcOverflowFlag(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0x18,       // CLC
		0xA9, 0x7F, // LDA #$7F
		0x69, 0x01, // ADC #$01 -> 0x80, V set (pos+pos=neg)
	)
	run(c, 3)
	require.Equal(t, uint8(0x80), c.A)
	require.True(t, c.V)
	require.True(t, c.N)
	require.False(t, c.C)
}

func TestCompareFlags(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xA9, 0x10, // LDA #$10
		0xC9, 0x10, // CMP #$10
	)
	run(c, 2)
	require.True(t, c.C)
	require.True(t, c.Z)
	require.False(t, c.N)
}

func TestIncDecWrapModulo256(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xA2, 0xFF, // LDX #$FF
		0xE8, // INX -> 0x00
	)
	run(c, 2)
	require.Equal(t, uint8(0x00), c.X)
	require.True(t, c.Z)
}

func TestJamHaltsNonFatallyWithoutHaltReason(t *testing.T) {
	c, bus := newTestCPU(t)
	// JAM (0x02) must not set HaltReason; it must keep ticking cycles so
	// the scheduler can still advance PPU/APU.
	load(bus, 0x8000, 0x02)
	run(c, 1)
	require.NoError(t, c.HaltReason)
	require.True(t, c.Jammed())
}

func TestStatusByteRoundTrip(t *testing.T) {
	c, _ := newTestCPU(t)
	c.N, c.V, c.D, c.I, c.Z, c.C = true, true, true, true, true, true
	b := c.statusByte(true)
	require.Equal(t, uint8(0xFF), b)
	c.setStatusByte(0x00)
	require.False(t, c.C)
	require.False(t, c.N)
}

func TestDecimalSubtractWithBorrow(t *testing.T) {
	c, bus := newTestCPU(t)
	load(bus, 0x8000,
		0xF8,       // SED
		0xA9, 0x12, // LDA #$12
		0x38,       // SEC (no incoming borrow)
		0xE9, 0x21, // SBC #$21 -> borrow, decimal-adjusted result
	)
	run(c, 4)
	require.Equal(t, uint8(0x91), c.A)
	require.False(t, c.C)
}

func TestIndexedIndirectAddressingNonBuggy(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.Write(0x0010, 0x00)
	bus.Write(0x0011, 0x90)
	bus.Write(0x9000, 0x77)
	load(bus, 0x8000,
		0xA2, 0x05, // LDX #$05
		0xA1, 0x0B, // LDA ($0B,X) -> base ($0B+5)&0xFF = $10
	)
	run(c, 2)
	require.Equal(t, uint8(0x77), c.A)
}

func TestOAMDMAStallConsumedWholesale(t *testing.T) {
	c, _ := newTestCPU(t)
	c.Stall(513)
	n := c.Step()
	require.Equal(t, uint64(513), n)
}

package apu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLengthCounterZeroSilencesChannel(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x01) // enable pulse 1
	a.WriteRegister(0x4000, 0x3F) // constant volume, duty 0, no halt
	a.WriteRegister(0x4002, 0x00)
	a.WriteRegister(0x4003, 0x08) // load length counter

	require.NotZero(t, a.pulse1.lengthCounter)

	a.pulse1.lengthCounter = 0
	require.Equal(t, uint8(0), a.pulse1.output())
}

func TestChannelDisableClearsLengthCounter(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4003, 0x08)
	require.NotZero(t, a.pulse1.lengthCounter)

	a.WriteRegister(0x4015, 0x00)
	require.Equal(t, uint8(0), a.pulse1.lengthCounter)
}

func TestFrameSequencerFourStepFiresIRQUnlessInhibited(t *testing.T) {
	a := New()
	a.WriteRegister(0x4017, 0x00) // 4-step, IRQ enabled
	for i := 0; i < irqSeq4; i++ {
		a.TickCPUCycle()
	}
	require.True(t, a.FrameIRQPending())

	b := New()
	b.WriteRegister(0x4017, 0x40) // 4-step, IRQ inhibited
	for i := 0; i < irqSeq4; i++ {
		b.TickCPUCycle()
	}
	require.False(t, b.FrameIRQPending())
}

func TestFrameCounterFiveStepNeverIRQs(t *testing.T) {
	a := New()
	a.WriteRegister(0x4017, 0x80) // 5-step mode
	for i := 0; i < step4Seq5+10; i++ {
		a.TickCPUCycle()
	}
	require.False(t, a.FrameIRQPending())
}

func TestMixerTableZeroIsSilence(t *testing.T) {
	require.Equal(t, float32(0), pulseTable[0])
	require.Equal(t, float32(0), tndTable[0])
	require.InDelta(t, -1.0, mix(0, 0, 0, 0, 0), 0.001)
}

func TestMixerTableMonotonicForPulse(t *testing.T) {
	for i := 1; i < len(pulseTable)-1; i++ {
		require.Greater(t, pulseTable[i+1], pulseTable[i])
	}
}

func TestDMCFetchesViaCallbackAndStallsCPU(t *testing.T) {
	a := New()
	reads := []uint16{}
	stalls := 0
	a.SetDMCReader(func(addr uint16) uint8 {
		reads = append(reads, addr)
		return 0xFF
	}, func(cycles int) {
		stalls += cycles
	})

	a.WriteRegister(0x4010, 0x00)
	a.WriteRegister(0x4012, 0x00) // sample address $C000
	a.WriteRegister(0x4013, 0x00) // sample length 1 byte
	a.WriteRegister(0x4015, 0x10) // enable DMC, triggers restart

	a.dmc.fillBuffer()

	require.Equal(t, []uint16{0xC000}, reads)
	require.Equal(t, 4, stalls)
}

func TestRingBufferProducerConsumer(t *testing.T) {
	r := &Ring{}
	for i := 0; i < 100; i++ {
		r.Push(float32(i))
	}
	require.Equal(t, 100, r.Available())

	dst := make([]float32, 50)
	n := r.Read(dst)
	require.Equal(t, 50, n)
	require.Equal(t, float32(0), dst[0])
	require.Equal(t, float32(49), dst[49])
	require.Equal(t, 50, r.Available())
}

func TestRingBufferOverrunDropsOldest(t *testing.T) {
	r := &Ring{}
	for i := 0; i < ringSize+10; i++ {
		r.Push(float32(i))
	}
	require.Equal(t, ringSize, r.Available())

	dst := make([]float32, 1)
	r.Read(dst)
	require.Equal(t, float32(10), dst[0])
}

func TestRingBufferUnderrunYieldsZero(t *testing.T) {
	r := &Ring{}
	r.Push(1)
	dst := make([]float32, 4)
	n := r.Read(dst)
	require.Equal(t, 1, n)
	require.Equal(t, float32(1), dst[0])
	require.Equal(t, float32(0), dst[1])
}

func TestPulseSweepMutesOnOverflow(t *testing.T) {
	a := New()
	a.WriteRegister(0x4015, 0x01)
	a.WriteRegister(0x4000, 0x3F)
	a.WriteRegister(0x4002, 0xFF)
	a.WriteRegister(0x4003, 0x07) // period = 0x7FF
	a.WriteRegister(0x4001, 0x81) // sweep enabled, shift 1, no negate
	a.pulse1.lengthCounter = 5

	_, muted := a.pulse1.sweepTarget()
	require.True(t, muted)
	require.Equal(t, uint8(0), a.pulse1.output())
}

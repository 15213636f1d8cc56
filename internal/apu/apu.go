// Package apu implements the 2A03 audio processing unit: two pulse
// channels, a triangle channel, a noise channel, a delta-modulation
// channel, the frame sequencer that clocks their envelopes/sweeps/length
// counters, and a non-linear mixer feeding a lock-free sample ring.
package apu

// Frame sequencer step boundaries, in CPU cycles, for 4-step and 5-step
// modes. These are CPU-cycle counts, not APU-cycle counts: the frame
// sequencer's divider runs at the CPU clock.
const (
	step1 = 7457
	step2 = 14913
	step3 = 22371
	step4Seq4 = 29829
	irqSeq4   = 29830
	step4Seq5 = 37281
)

// APU emulates the NES's 2A03 sound generator. TickCPUCycle must be called
// once per CPU cycle by the owning scheduler.
type APU struct {
	pulse1 *pulse
	pulse2 *pulse
	tri    *triangle
	noi    *noise
	dmc    *dmc

	frameMode4Step bool
	irqInhibit     bool
	frameIRQ       bool
	frameCounter   uint32
	halfApuTick    bool

	ring *Ring

	dmcReader func(addr uint16) uint8
	stallFunc func(cycles int)
}

// New constructs an APU with all channels silent and the frame sequencer
// in 4-step mode.
func New() *APU {
	a := &APU{
		pulse1: &pulse{onesComplementSweep: true},
		pulse2: &pulse{onesComplementSweep: false},
		tri:    &triangle{},
		noi:    newNoise(),
		dmc:    &dmc{bufferEmpty: true},
		ring:   &Ring{},
	}
	a.frameMode4Step = true
	return a
}

// SetDMCReader installs the CPU-bus read callback the DMC channel uses to
// fetch sample bytes, and the stall function charged for each fetch.
func (a *APU) SetDMCReader(reader func(addr uint16) uint8, stall func(cycles int)) {
	a.dmcReader = reader
	a.stallFunc = stall
	a.dmc.reader = reader
	a.dmc.stall = stall
}

// Ring returns the sample ring buffer the host audio callback should drain.
func (a *APU) Ring() *Ring {
	return a.ring
}

// TickCPUCycle advances the APU by one CPU cycle. The triangle channel and
// frame sequencer divider run at the full CPU clock; pulse, noise and DMC
// timers run at half that rate (the "APU clock"), toggled by halfApuTick.
func (a *APU) TickCPUCycle() {
	a.tri.stepTimer()

	a.halfApuTick = !a.halfApuTick
	if a.halfApuTick {
		a.pulse1.stepTimer()
		a.pulse2.stepTimer()
		a.noi.stepTimer()
		a.dmc.stepTimer()

		sample := mix(a.pulse1.output(), a.pulse2.output(), a.tri.output(), a.noi.output(), a.dmc.output)
		a.ring.Push(sample)
	}

	a.stepFrameSequencer()
}

func (a *APU) stepFrameSequencer() {
	a.frameCounter++
	if a.frameMode4Step {
		switch a.frameCounter {
		case step1, step3:
			a.clockEnvelopesAndLinear()
		case step2:
			a.clockEnvelopesAndLinear()
			a.clockLengthAndSweep()
		case step4Seq4:
			a.clockEnvelopesAndLinear()
			a.clockLengthAndSweep()
		case irqSeq4:
			if !a.irqInhibit {
				a.frameIRQ = true
			}
			a.frameCounter = 0
		}
	} else {
		switch a.frameCounter {
		case step1, step3:
			a.clockEnvelopesAndLinear()
		case step2:
			a.clockEnvelopesAndLinear()
			a.clockLengthAndSweep()
		case step4Seq5:
			a.clockEnvelopesAndLinear()
			a.clockLengthAndSweep()
			a.frameCounter = 0
		}
	}
}

func (a *APU) clockEnvelopesAndLinear() {
	a.pulse1.stepEnvelope()
	a.pulse2.stepEnvelope()
	a.noi.stepEnvelope()
	a.tri.stepLinear()
}

func (a *APU) clockLengthAndSweep() {
	a.pulse1.stepLength()
	a.pulse1.stepSweep()
	a.pulse2.stepLength()
	a.pulse2.stepSweep()
	a.noi.stepLength()
	a.tri.stepLength()
}

// FrameIRQPending reports whether the frame sequencer's IRQ flag is set.
func (a *APU) FrameIRQPending() bool {
	return a.frameIRQ
}

// DMCIRQPending reports whether the DMC channel's IRQ flag is set.
func (a *APU) DMCIRQPending() bool {
	return a.dmc.irqFlag
}

// Package system wires the CPU, PPU, APU, cartridge mapper and
// controller ports into one cycle-driven scheduler: the "master clock"
// of spec.md §4.5.
package system

import (
	"strings"

	"gones/internal/addrspace"
	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/input"
	"gones/internal/ppu"
	"gones/internal/tracelog"
)

// HostHooks are the scheduler's only collaboration points with the host
// application, per spec.md §9's design note.
type HostHooks struct {
	// BeforeExecute/AfterExecute run around each CPU.Step call, e.g. for
	// breakpoint checks or single-step debugging.
	BeforeExecute func(s *System)
	AfterExecute  func(s *System)

	// FrameReady is invoked once per completed frame with the PPU's
	// framebuffer; the host must copy the pixels before returning, since
	// the same backing array is reused for the next frame.
	FrameReady func(frame *[256 * 240]uint32)

	// PollP1/PollP2 return the live button bitmask for each controller
	// port (spec.md §6's controller byte layout).
	PollP1 input.PollFunc
	PollP2 input.PollFunc
}

// System is the top-level emulated machine: one CPU, one PPU, one APU,
// one cartridge mapper, two controller ports, sharing the CPU and PPU
// address spaces.
type System struct {
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Input *input.Controllers

	Trace *tracelog.Ring

	cpuSpace *addrspace.Space
	ppuSpace *addrspace.Space
	mapper   cartridge.Mapper
	prog     *cartridge.Program
	hooks    HostHooks
}

// New builds a System around prog, wiring every component's bus and
// cross-component callback.
func New(prog *cartridge.Program, hooks HostHooks) (*System, error) {
	mapper, err := cartridge.New(prog)
	if err != nil {
		return nil, err
	}

	cpuSpace := addrspace.New("cpu")
	ppuSpace := addrspace.New("ppu")
	if err := cpuSpace.AddSegment(addrspace.Segment{
		Start: 0x0000, Length: 0x2000, Backing: make([]byte, 0x0800),
		Perm: addrspace.PermReadWrite, Region: addrspace.RegionRAM,
	}); err != nil {
		return nil, err
	}
	if err := cartridge.Install(mapper, prog, cpuSpace, ppuSpace); err != nil {
		return nil, err
	}

	s := &System{
		Input:    input.New(),
		Trace:    tracelog.NewRing(tracelog.DefaultSize),
		cpuSpace: cpuSpace,
		ppuSpace: ppuSpace,
		mapper:   mapper,
		prog:     prog,
		hooks:    hooks,
	}
	s.Input.SetPollFuncs(hooks.PollP1, hooks.PollP2)
	s.PPU = ppu.New(ppuSpace)
	s.APU = apu.New()
	s.CPU = cpu.New(s)
	s.APU.SetDMCReader(func(addr uint16) uint8 { return s.cpuSpace.Read(addr) }, s.CPU.Stall)
	s.CPU.Trace = s.recordTrace

	s.Reset()
	return s, nil
}

// Reset re-initializes the CPU and PPU to their power-up/reset state.
func (s *System) Reset() {
	s.CPU.Reset()
	s.PPU.Reset()
}

// Step executes one CPU instruction (or stall/interrupt slice) and
// advances the PPU by 3 dots and the APU by one tick per CPU cycle
// consumed, per spec.md §4.5. It returns the CPU cycles consumed.
func (s *System) Step() uint64 {
	if s.hooks.BeforeExecute != nil {
		s.hooks.BeforeExecute(s)
	}

	cycles := s.CPU.Step()

	for i := uint64(0); i < cycles*3; i++ {
		s.PPU.Tick()
		if s.PPU.ConsumeFrameReady() && s.hooks.FrameReady != nil {
			s.hooks.FrameReady(s.PPU.FrameBuffer())
		}
	}
	for i := uint64(0); i < cycles; i++ {
		s.APU.TickCPUCycle()
	}

	s.CPU.SetNMI(s.PPU.NMI())
	s.CPU.SetIRQLine(s.APU.FrameIRQPending() || s.APU.DMCIRQPending() || s.mapper.IRQ())

	if err := s.Fault(); err != nil && s.CPU.HaltReason == nil {
		s.CPU.HaltReason = err
	}

	if s.hooks.AfterExecute != nil {
		s.hooks.AfterExecute(s)
	}
	return cycles
}

// Halted reports whether the CPU has stopped advancing (unimplemented
// opcode or segmentation fault) — distinct from Jammed, which keeps the
// scheduler running.
func (s *System) Halted() bool { return s.CPU.HaltReason != nil }

func (s *System) recordTrace(pc uint16, opcode uint8, operands []uint8, mnemonic, operand string) {
	var e tracelog.Entry
	e.PC = pc
	e.Bytes[0] = opcode
	e.NumBytes = 1 + len(operands)
	for i, b := range operands {
		if i+1 < len(e.Bytes) {
			e.Bytes[i+1] = b
		}
	}
	e.Mnemonic = mnemonic
	e.Operand = operand
	e.A, e.X, e.Y, e.SP = s.CPU.A, s.CPU.X, s.CPU.Y, s.CPU.SP
	e.Status = s.statusByte()
	e.PPUDot, e.PPULine = s.PPU.Dot, s.PPU.Scanline
	e.Cycles = s.CPU.Cycles
	s.Trace.Push(e)
}

func (s *System) statusByte() uint8 {
	var v uint8
	set := func(cond bool, bit uint8) {
		if cond {
			v |= bit
		}
	}
	set(s.CPU.N, 0x80)
	set(s.CPU.V, 0x40)
	v |= 0x20
	set(s.CPU.D, 0x08)
	set(s.CPU.I, 0x04)
	set(s.CPU.Z, 0x02)
	set(s.CPU.C, 0x01)
	return v
}

// TestStatus reads the blargg test-harness status byte at $6000
// (spec.md §9 "test_mode").
func (s *System) TestStatus() uint8 {
	return s.cpuSpace.Read(0x6000)
}

// TestMessage reads the NUL-terminated ASCII message blargg test ROMs
// write starting at $6004.
func (s *System) TestMessage() string {
	const maxLen = 0x8000 - 0x6004 // bounds the scan to the PRG-RAM window holding it
	var sb strings.Builder
	for i := 0; i < maxLen; i++ {
		b := s.cpuSpace.Read(0x6004 + uint16(i))
		if b == 0 {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

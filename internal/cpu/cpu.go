// Package cpu implements the 6502-family CPU at the heart of the NES:
// official and documented-illegal opcodes, decimal-mode arithmetic,
// page-crossing timing and the RESET/NMI/IRQ interrupt sequence.
package cpu

import "fmt"

// AddressingMode selects how an instruction's operand address is computed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	zeroPageMask = 0xFF
	pageMask     = 0xFF00

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Instruction describes one opcode's mnemonic, size and base timing.
type Instruction struct {
	Name   string
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
}

// Bus is the memory interface the CPU executes against — satisfied by
// *addrspace.Space.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	Fault() error
	ClearFault()
}

// UnimplementedError reports an opcode with no decode table entry.
type UnimplementedError struct{ Opcode uint8 }

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("cpu: unimplemented opcode $%02X", e.Opcode)
}

// CPU is the 6502-family core: registers, flags, and a reference to the
// address space it executes against.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, B, V, N bool

	bus    Bus
	Cycles uint64

	instructions [256]Instruction

	nmiLine  bool // edge-latched, set by the PPU
	nmiPrev  bool
	irqLevel bool // level-sensitive OR of frame/DMC/mapper IRQ sources

	stallCycles int
	jammed      bool

	// HaltReason is non-nil once the core stops advancing: an
	// unimplemented opcode or a segmentation fault. The PPU/APU may
	// keep running; only CPU.Step becomes a no-op.
	HaltReason error

	// Trace, when non-nil, is invoked with the formatted register/PPU
	// state for every instruction Step executes.
	Trace func(pc uint16, opcode uint8, operands []uint8, mnemonic, operand string)
}

// New creates a CPU wired to bus. Call Reset before the first Step.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus, SP: 0xFD}
	c.initInstructions()
	return c
}

// Reset performs the 6502 power-up/reset sequence: flags forced to
// I=1, SP -= 3 (without writing), PC loaded from the reset vector.
func (c *CPU) Reset() {
	c.SP -= 3
	c.I = true
	c.HaltReason = nil
	c.jammed = false
	lo := uint16(c.bus.Read(resetVector))
	hi := uint16(c.bus.Read(resetVector + 1))
	c.PC = (hi << 8) | lo
	c.Cycles = 7
}

// SetNMI sets the NMI input line; a false→true transition is latched as
// a pending NMI on the next Step.
func (c *CPU) SetNMI(line bool) { c.nmiLine = line }

// SetIRQLine sets the level-sensitive IRQ input (the OR of APU frame
// IRQ, APU DMC IRQ and mapper IRQ).
func (c *CPU) SetIRQLine(line bool) { c.irqLevel = line }

// Stall charges extra CPU cycles for OAM-DMA or DMC-DMA, consumed on
// the next Step before any instruction executes.
func (c *CPU) Stall(cycles int) { c.stallCycles += cycles }

// Jammed reports whether a JAM opcode halted instruction dispatch. The
// scheduler keeps ticking the PPU/APU even while true.
func (c *CPU) Jammed() bool { return c.jammed }

// Step executes at most one instruction (or services a stall/interrupt)
// and returns the CPU cycles consumed.
func (c *CPU) Step() uint64 {
	if c.HaltReason != nil {
		return 0
	}
	if c.stallCycles > 0 {
		n := c.stallCycles
		c.stallCycles = 0
		c.Cycles += uint64(n)
		return uint64(n)
	}
	if c.jammed {
		c.Cycles++
		return 1
	}

	if n := c.serviceInterrupts(); n > 0 {
		c.Cycles += n
		return n
	}

	pc := c.PC
	opcode := c.bus.Read(c.PC)
	inst := c.instructions[opcode]
	if inst.Bytes == 0 {
		c.HaltReason = &UnimplementedError{Opcode: opcode}
		return 0
	}

	var operands []uint8
	for i := uint8(1); i < inst.Bytes; i++ {
		operands = append(operands, c.bus.Read(c.PC+uint16(i)))
	}

	addr, pageCrossed := c.operandAddress(inst.Mode)
	extra := c.execute(opcode, addr, pageCrossed)
	if pageCrossed && readPenalizesPageCross(opcode) {
		extra++
	}

	if c.Trace != nil {
		c.Trace(pc, opcode, operands, inst.Name, operandText(inst.Mode, operands, addr))
	}

	total := uint64(inst.Cycles) + uint64(extra)
	c.Cycles += total

	if err := c.bus.Fault(); err != nil {
		c.HaltReason = err
	}
	return total
}

func readPenalizesPageCross(opcode uint8) bool {
	switch opcode {
	case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC, 0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
		0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51, 0xDD, 0xD9, 0xD1,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0xBF, 0xB3:
		return true
	}
	return false
}

// serviceInterrupts checks NMI>IRQ priority before each fetch (RESET is
// performed by Reset, not here). A
// serviced interrupt takes 7 cycles and returns that count; otherwise 0.
func (c *CPU) serviceInterrupts() uint64 {
	nmiEdge := c.nmiLine && !c.nmiPrev
	c.nmiPrev = c.nmiLine
	if nmiEdge {
		c.interrupt(nmiVector, false)
		return 7
	}
	if c.irqLevel && !c.I {
		c.interrupt(irqVector, false)
		return 7
	}
	return 0
}

func (c *CPU) interrupt(vector uint16, brk bool) {
	c.pushWord(c.PC)
	status := c.statusByte(brk)
	c.push(status)
	c.I = true
	lo := uint16(c.bus.Read(vector))
	hi := uint16(c.bus.Read(vector + 1))
	c.PC = (hi << 8) | lo
}

// operandAddress computes the effective address for mode, advancing PC
// past the instruction's operand bytes, and reports a page crossing.
func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false
	case Immediate:
		addr := c.PC + 1
		c.PC += 2
		return addr, false
	case ZeroPage:
		addr := uint16(c.bus.Read(c.PC + 1))
		c.PC += 2
		return addr, false
	case ZeroPageX:
		base := c.bus.Read(c.PC + 1)
		addr := uint16((base + c.X) & zeroPageMask)
		c.PC += 2
		return addr, false
	case ZeroPageY:
		base := c.bus.Read(c.PC + 1)
		addr := uint16((base + c.Y) & zeroPageMask)
		c.PC += 2
		return addr, false
	case Relative:
		offset := int8(c.bus.Read(c.PC + 1))
		oldPC := c.PC + 2
		newPC := uint16(int32(oldPC) + int32(offset))
		c.PC = oldPC
		return newPC, (oldPC & pageMask) != (newPC & pageMask)
	case Absolute:
		lo := uint16(c.bus.Read(c.PC + 1))
		hi := uint16(c.bus.Read(c.PC + 2))
		c.PC += 3
		return (hi << 8) | lo, false
	case AbsoluteX:
		lo := uint16(c.bus.Read(c.PC + 1))
		hi := uint16(c.bus.Read(c.PC + 2))
		base := (hi << 8) | lo
		addr := base + uint16(c.X)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)
	case AbsoluteY:
		lo := uint16(c.bus.Read(c.PC + 1))
		hi := uint16(c.bus.Read(c.PC + 2))
		base := (hi << 8) | lo
		addr := base + uint16(c.Y)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)
	case Indirect:
		loPtr := uint16(c.bus.Read(c.PC + 1))
		hiPtr := uint16(c.bus.Read(c.PC + 2))
		ptr := (hiPtr << 8) | loPtr
		var addr uint16
		if ptr&zeroPageMask == zeroPageMask {
			lo := uint16(c.bus.Read(ptr))
			hi := uint16(c.bus.Read(ptr & pageMask))
			addr = (hi << 8) | lo
		} else {
			lo := uint16(c.bus.Read(ptr))
			hi := uint16(c.bus.Read(ptr + 1))
			addr = (hi << 8) | lo
		}
		c.PC += 3
		return addr, false
	case IndexedIndirect:
		base := c.bus.Read(c.PC + 1)
		ptr := (base + c.X) & zeroPageMask
		lo := uint16(c.bus.Read(uint16(ptr)))
		hi := uint16(c.bus.Read(uint16((ptr + 1) & zeroPageMask)))
		c.PC += 2
		return (hi << 8) | lo, false
	case IndirectIndexed:
		ptr := uint16(c.bus.Read(c.PC + 1))
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr + 1) & zeroPageMask))
		base := (hi << 8) | lo
		addr := base + uint16(c.Y)
		c.PC += 2
		return addr, (base & pageMask) != (addr & pageMask)
	default:
		return 0, false
	}
}

func (c *CPU) push(v uint8) {
	c.bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return (hi << 8) | lo
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// statusByte packs the flags exactly as pushed on real hardware: the
// Unused bit always reads 1, Break is 1 for PHP/BRK and 0 for NMI/IRQ.
func (c *CPU) statusByte(brk bool) uint8 {
	var s uint8
	if c.N {
		s |= nFlagMask
	}
	if c.V {
		s |= vFlagMask
	}
	s |= unusedMask
	if brk {
		s |= bFlagMask
	}
	if c.D {
		s |= dFlagMask
	}
	if c.I {
		s |= iFlagMask
	}
	if c.Z {
		s |= zFlagMask
	}
	if c.C {
		s |= cFlagMask
	}
	return s
}

func (c *CPU) setStatusByte(s uint8) {
	c.N = s&nFlagMask != 0
	c.V = s&vFlagMask != 0
	c.D = s&dFlagMask != 0
	c.I = s&iFlagMask != 0
	c.Z = s&zFlagMask != 0
	c.C = s&cFlagMask != 0
}

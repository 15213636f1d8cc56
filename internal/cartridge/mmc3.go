package cartridge

// mmc3 is mapper 4 (TxROM/TQROM family): eight bank-select registers
// loaded through a $8000/$8001 command pair, independently swappable
// PRG and CHR layouts, and a scanline counter clocked by A12 rising
// edges on the PPU bus that drives a CPU IRQ.
type mmc3 struct {
	prog *Program

	bankSelect uint8 // R0-R7 target + PRG/CHR layout bits
	reg        [8]uint8
	mirror     uint8 // 0=vertical, 1=horizontal (board register, overridden by four-screen)

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool

	a12Low     bool
	prgBanks8k uint32
}

func newMMC3(prog *Program) *mmc3 {
	return &mmc3{prog: prog, a12Low: true, prgBanks8k: uint32(len(prog.PRG)) / 0x2000}
}

func (m *mmc3) RemapRAM(_ uint16, _, offset uint32) uint32 { return offset }

func (m *mmc3) prgFixedToLast() bool { return m.bankSelect&0x40 != 0 }
func (m *mmc3) chrInverted() bool    { return m.bankSelect&0x80 != 0 }

func (m *mmc3) RemapPRG(vaddr uint16, _, offset uint32) uint32 {
	bank := func(n uint8) uint32 { return (uint32(n) % m.prgBanks8k) * 0x2000 }
	last := (m.prgBanks8k - 1) * 0x2000
	secondLast := (m.prgBanks8k - 2) * 0x2000
	switch {
	case vaddr < 0xA000: // $8000-9FFF
		if m.prgFixedToLast() {
			return secondLast + offset
		}
		return bank(m.reg[6]) + offset
	case vaddr < 0xC000: // $A000-BFFF: always switchable
		return bank(m.reg[7]) + (offset - 0x2000)
	case vaddr < 0xE000: // $C000-DFFF
		if m.prgFixedToLast() {
			return bank(m.reg[6]) + (offset - 0x4000)
		}
		return secondLast + (offset - 0x4000)
	default: // $E000-FFFF: always fixed to the last bank
		return last + (offset - 0x6000)
	}
}

func (m *mmc3) RemapCHR(vaddr uint16, _, offset uint32) uint32 {
	// Six 1KB windows; R0/R1 double as 2KB pairs when not inverted.
	type window struct {
		start uint32
		reg   uint8
		size  uint32
	}
	var layout [6]window
	if !m.chrInverted() {
		layout = [6]window{
			{0x0000, m.reg[0] &^ 1, 0x800}, {0x0800, m.reg[1] &^ 1, 0x800},
			{0x1000, m.reg[2], 0x400}, {0x1400, m.reg[3], 0x400},
			{0x1800, m.reg[4], 0x400}, {0x1C00, m.reg[5], 0x400},
		}
	} else {
		layout = [6]window{
			{0x0000, m.reg[2], 0x400}, {0x0400, m.reg[3], 0x400},
			{0x0800, m.reg[4], 0x400}, {0x0C00, m.reg[5], 0x400},
			{0x1000, m.reg[0] &^ 1, 0x800}, {0x1800, m.reg[1] &^ 1, 0x800},
		}
	}
	for _, w := range layout {
		if offset >= w.start && offset < w.start+w.size {
			return uint32(w.reg)*0x400 + (offset - w.start)
		}
	}
	_ = vaddr
	return offset
}

func (m *mmc3) RemapNTS(vaddr uint16, _, _ uint32) uint32 {
	if m.prog.Mirror == MirrorFourScreen {
		return uint32(vaddr) & 0x0FFF
	}
	if m.mirror == 1 {
		return mirrorNTS(MirrorHorizontal, vaddr)
	}
	return mirrorNTS(MirrorVertical, vaddr)
}

func (m *mmc3) Monitor(vaddr uint16, value uint8, isWrite bool) {
	m.clockA12(vaddr)
	if !isWrite {
		return
	}
	switch {
	case vaddr >= 0x8000 && vaddr < 0xA000 && vaddr%2 == 0:
		m.bankSelect = value
	case vaddr >= 0x8000 && vaddr < 0xA000:
		m.reg[m.bankSelect&0x07] = value
	case vaddr >= 0xA000 && vaddr < 0xC000 && vaddr%2 == 0:
		m.mirror = value & 0x01
	case vaddr >= 0xA000 && vaddr < 0xC000:
		// PRG-RAM write protect / enable: left permissive, matching
		// most emulators' default-on behavior.
	case vaddr >= 0xC000 && vaddr < 0xE000 && vaddr%2 == 0:
		m.irqLatch = value
	case vaddr >= 0xC000 && vaddr < 0xE000:
		m.irqReload = true
	case vaddr >= 0xE000 && vaddr%2 == 0:
		m.irqEnabled = false
		m.irqPending = false
	case vaddr >= 0xE000:
		m.irqEnabled = true
	}
}

// clockA12 detects a PPU-bus address rising through A12 (crossing from
// below $1000 to $1000 or above) and clocks the scanline counter once
// per such edge. There is no minimum-low-time filter: every rising edge
// counts.
func (m *mmc3) clockA12(vaddr uint16) {
	if vaddr >= 0x2000 {
		return // not a PPU-bus pattern-table fetch
	}
	high := vaddr >= 0x1000
	if high && m.a12Low {
		if m.irqCounter == 0 || m.irqReload {
			m.irqCounter = m.irqLatch
			m.irqReload = false
		} else {
			m.irqCounter--
		}
		if m.irqCounter == 0 && m.irqEnabled {
			m.irqPending = true
		}
	}
	m.a12Low = !high
}

func (m *mmc3) IRQ() bool { return m.irqPending }

package cartridge

// mmc2 is mapper 9 (PxROM), built for Punch-Out!!'s two-screen sprite
// trick: each 4KB CHR half has two selectable 4KB pages, and reading
// tile $FD or $FE out of a half latches which page that half uses on
// the next fetch. PRG is a single switchable 8KB bank at $8000, with
// the final three 8KB banks fixed at $A000-FFFF.
type mmc2 struct {
	prog *Program

	prgBank uint8
	prgMask uint8

	chr0FD, chr0FE uint8
	chr1FD, chr1FE uint8
	latch0, latch1 bool // false selects the FD page, true selects FE

	mirror Mirror
}

func newMMC2(prog *Program) *mmc2 {
	return &mmc2{
		prog:    prog,
		mirror:  prog.Mirror,
		prgMask: uint8(prog.PRGBankCount16K()*2 - 1),
	}
}

func (m *mmc2) RemapRAM(_ uint16, _, offset uint32) uint32 { return offset }

func (m *mmc2) RemapPRG(vaddr uint16, _, offset uint32) uint32 {
	total8k := uint32(len(m.prog.PRG)) / 0x2000
	if vaddr < 0xA000 {
		return uint32(m.prgBank)*0x2000 + offset
	}
	// vaddr in [0xA000,0xFFFF): fixed last three 8KB banks, in order.
	bankIdx := total8k - 3 + uint32(vaddr-0xA000)/0x2000
	within := uint32(vaddr-0xA000) % 0x2000
	return bankIdx*0x2000 + within
}

func (m *mmc2) RemapCHR(vaddr uint16, _, offset uint32) uint32 {
	if offset < 0x1000 {
		bank := m.chr0FD
		if m.latch0 {
			bank = m.chr0FE
		}
		return uint32(bank)*0x1000 + offset
	}
	bank := m.chr1FD
	if m.latch1 {
		bank = m.chr1FE
	}
	_ = vaddr
	return uint32(bank)*0x1000 + (offset - 0x1000)
}

func (m *mmc2) RemapNTS(vaddr uint16, _, _ uint32) uint32 {
	if m.mirror == MirrorFourScreen {
		return uint32(vaddr) & 0x0FFF
	}
	return mirrorNTS(m.mirror, vaddr)
}

func (m *mmc2) Monitor(vaddr uint16, value uint8, isWrite bool) {
	if isWrite {
		switch {
		case vaddr >= 0xA000 && vaddr < 0xB000:
			m.prgBank = value & 0x0F & m.prgMask
		case vaddr >= 0xB000 && vaddr < 0xC000:
			m.chr0FD = value & 0x1F
		case vaddr >= 0xC000 && vaddr < 0xD000:
			m.chr0FE = value & 0x1F
		case vaddr >= 0xD000 && vaddr < 0xE000:
			m.chr1FD = value & 0x1F
		case vaddr >= 0xE000 && vaddr < 0xF000:
			m.chr1FE = value & 0x1F
		case vaddr >= 0xF000:
			m.mirror = MirrorVertical
			if value&0x01 == 0 {
				m.mirror = MirrorHorizontal
			}
		}
		return
	}
	// PPU pattern-table reads in $0FD8-$0FDF/$0FE8-$0FEF and their
	// $1xxx counterparts latch the bank used by the following fetches
	// from that half.
	switch {
	case vaddr >= 0x0FD8 && vaddr <= 0x0FDF:
		m.latch0 = false
	case vaddr >= 0x0FE8 && vaddr <= 0x0FEF:
		m.latch0 = true
	case vaddr >= 0x1FD8 && vaddr <= 0x1FDF:
		m.latch1 = false
	case vaddr >= 0x1FE8 && vaddr <= 0x1FEF:
		m.latch1 = true
	}
}

func (m *mmc2) IRQ() bool { return false }

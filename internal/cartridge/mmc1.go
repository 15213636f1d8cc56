package cartridge

// mmc1 is mapper 1 (SxROM): a single-bit serial shift register loads one
// of four internal registers every 5th consecutive write. A write with
// bit 7 set resets the shift register and forces 16KB PRG mode with the
// last bank fixed at $C000, independent of the shift position.
type mmc1 struct {
	prog *Program

	shift    uint8
	shiftPos uint8

	control uint8 // bit0-1 mirror, bit2-3 prg mode, bit4 chr mode
	chr0    uint8
	chr1    uint8
	prg     uint8

	prgBanks16k uint8
	chrBanks4k  uint8
	hasCHRRAM   bool
}

func newMMC1(prog *Program) *mmc1 {
	m := &mmc1{
		prog:        prog,
		control:     0x0C, // PRG mode 3 (fix last bank) on power-up
		prgBanks16k: uint8(prog.PRGBankCount16K()),
		hasCHRRAM:   prog.HasCHRRAM,
	}
	chrBanks := uint8(len(prog.CHR) / 0x1000)
	if chrBanks == 0 {
		chrBanks = 1
	}
	m.chrBanks4k = chrBanks
	return m
}

func (m *mmc1) RemapRAM(_ uint16, _, offset uint32) uint32 { return offset }

func (m *mmc1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mmc1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mmc1) RemapPRG(vaddr uint16, _, offset uint32) uint32 {
	bank16k := func(n uint8) uint32 { return uint32(n%orOne(m.prgBanks16k))*0x4000 + offset }
	switch m.prgMode() {
	case 0, 1: // 32KB switch, ignoring low bit of the select register
		base := (m.prg &^ 1) % orOne(m.prgBanks16k)
		return uint32(base)*0x4000 + offset
	case 2: // fix first bank at $8000, switch 16KB at $C000
		if vaddr < 0xC000 {
			return offset
		}
		return bank16k(m.prg)
	default: // 3: switch 16KB at $8000, fix last bank at $C000
		if vaddr < 0xC000 {
			return bank16k(m.prg)
		}
		return uint32(m.prgBanks16k-1)*0x4000 + (offset - 0x4000)
	}
}

func orOne(n uint8) uint8 {
	if n == 0 {
		return 1
	}
	return n
}

func (m *mmc1) RemapCHR(vaddr uint16, _, offset uint32) uint32 {
	if m.hasCHRRAM {
		return offset % uint32(len(m.prog.CHR))
	}
	if m.chrMode() == 0 { // single 8KB switch, ignoring low bit
		base := (m.chr0 &^ 1) % orOne(m.chrBanks4k)
		return uint32(base)*0x1000 + offset
	}
	if vaddr < 0x1000 {
		return uint32(m.chr0%orOne(m.chrBanks4k))*0x1000 + offset
	}
	return uint32(m.chr1%orOne(m.chrBanks4k))*0x1000 + (offset - 0x1000)
}

func (m *mmc1) RemapNTS(vaddr uint16, _, _ uint32) uint32 {
	if m.prog.Mirror == MirrorFourScreen {
		return uint32(vaddr) & 0x0FFF
	}
	switch m.control & 0x03 {
	case 0:
		return mirrorNTS(MirrorSingleLower, vaddr)
	case 1:
		return mirrorNTS(MirrorSingleUpper, vaddr)
	case 2:
		return mirrorNTS(MirrorVertical, vaddr)
	default:
		return mirrorNTS(MirrorHorizontal, vaddr)
	}
}

func (m *mmc1) Monitor(vaddr uint16, value uint8, isWrite bool) {
	if !isWrite || vaddr < 0x8000 {
		return
	}
	if value&0x80 != 0 {
		m.shift = 0
		m.shiftPos = 0
		m.control |= 0x0C
		return
	}
	m.shift |= (value & 0x01) << m.shiftPos
	m.shiftPos++
	if m.shiftPos < 5 {
		return
	}
	result := m.shift
	m.shift = 0
	m.shiftPos = 0
	switch {
	case vaddr < 0xA000:
		m.control = result & 0x1F
	case vaddr < 0xC000:
		m.chr0 = result & 0x1F
	case vaddr < 0xE000:
		m.chr1 = result & 0x1F
	default:
		m.prg = result & 0x0F
	}
}

func (m *mmc1) IRQ() bool { return false }

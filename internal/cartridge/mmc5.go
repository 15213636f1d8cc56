package cartridge

// mmc5 is a working subset of mapper 5 (ExROM), the most elaborate
// board in the supported set: independent PRG and CHR bank-switching
// granularity selects, a hardware multiplier at $5205/$5206, and
// $5105 nametable quadrant mapping. The fill-mode tile/colour registers
// ($5106/$5107) are stored and exposed, but nothing renders them: a
// fill-mode quadrant maps to the first nametable page. Split-screen rendering and
// the extended-attribute nametable mode (which need per-scanline PPU
// cooperation) are intentionally out of scope here; ExRAM behaves as
// plain CPU-addressable RAM in every mode.
type mmc5 struct {
	prog *Program

	prgMode uint8 // $5100 bits 0-1
	chrMode uint8 // $5101 bits 0-1
	prgReg  [5]uint8
	chrReg  [12]uint8

	nametableMode uint8 // $5105: 2 bits per quadrant
	fillTile      uint8
	fillColor     uint8

	multiplicandA uint8
	multiplicandB uint8

	// registers backs the $5000-$5FFF window (extended registers plus
	// ExRAM). It is handed to addrspace as the segment's Backing slice,
	// so Monitor can write computed values (the multiplier product)
	// directly into it and have them read back at the matching offset.
	registers []byte

	prgBanks8k uint32
	chrBanks   uint32
}

func newMMC5(prog *Program) *mmc5 {
	m := &mmc5{prog: prog, prgMode: 3, chrMode: 3, registers: make([]byte, 0x1000)}
	m.prgBanks8k = uint32(len(prog.PRG)) / 0x2000
	m.chrBanks = uint32(len(prog.CHR)) / 0x400
	if m.chrBanks == 0 {
		m.chrBanks = 1
	}
	return m
}

// RegisterBacking exposes the $5000-$5FFF backing slice so Install can
// register it as a dedicated segment; unique to this mapper among the
// supported set, since no other board has CPU-visible registers below
// $6000.
func (m *mmc5) RegisterBacking() []byte { return m.registers }

func (m *mmc5) RemapRAM(_ uint16, _, offset uint32) uint32 { return offset }

func (m *mmc5) RemapPRG(_ uint16, _, offset uint32) uint32 {
	bank := func(n uint8) uint32 { return uint32(n) % m.prgBanks8k }
	idx := offset / 0x2000
	within := offset % 0x2000
	var sel uint32
	switch m.prgMode {
	case 0:
		sel = bank(m.prgReg[4] &^ 3)
		return sel*0x2000 + offset
	case 1:
		if idx < 2 {
			sel = bank(m.prgReg[2] &^ 1)
		} else {
			sel = bank(m.prgReg[4] &^ 1)
		}
		return sel*0x2000 + offset%0x4000
	case 2:
		switch idx {
		case 0, 1:
			sel = bank(m.prgReg[2] &^ 1)
			return sel*0x2000 + offset
		case 2:
			sel = bank(m.prgReg[3])
		default:
			sel = bank(m.prgReg[4])
		}
		return sel*0x2000 + within
	default: // mode 3: four independently switchable 8KB banks
		sel = bank(m.prgReg[idx+1])
		return sel*0x2000 + within
	}
}

func (m *mmc5) RemapCHR(_ uint16, _, offset uint32) uint32 {
	bank := func(n uint8) uint32 { return uint32(n) % m.chrBanks }
	switch m.chrMode {
	case 0:
		return bank(m.chrReg[7]&^7)*0x400 + offset
	case 1:
		reg := m.chrReg[3]
		if offset >= 0x1000 {
			reg = m.chrReg[7]
		}
		return bank(reg&^3)*0x400 + offset%0x1000
	case 2:
		idx := offset / 0x800
		reg := m.chrReg[idx*2+1]
		return bank(reg&^1)*0x400 + offset%0x800
	default:
		idx := offset / 0x400
		return bank(m.chrReg[idx%8])*0x400 + offset%0x400
	}
}

func (m *mmc5) RemapNTS(vaddr uint16, _, _ uint32) uint32 {
	a := uint32(vaddr) & 0x0FFF
	quadrant := a / 0x400
	within := a % 0x400
	sel := (m.nametableMode >> (quadrant * 2)) & 0x03
	switch sel {
	case 0:
		return within
	case 1:
		return 0x400 + within
	case 3:
		return within // fill mode: same page as mode 0; FillTile/FillColor are not read by the PPU
	default:
		return within
	}
}

// FillTile and FillColor expose the fill-mode tile and colour written to
// $5106/$5107. The PPU does not call them, so fill mode is not rendered.
func (m *mmc5) FillTile() uint8  { return m.fillTile }
func (m *mmc5) FillColor() uint8 { return m.fillColor }

// NametableQuadrantIsFill reports whether quadrant q (0-3) is in fill
// mode, per $5105.
func (m *mmc5) NametableQuadrantIsFill(q uint8) bool {
	return (m.nametableMode>>(q*2))&0x03 == 3
}

func (m *mmc5) Monitor(vaddr uint16, value uint8, isWrite bool) {
	if !isWrite {
		return
	}
	switch {
	case vaddr == 0x5100:
		m.prgMode = value & 0x03
	case vaddr == 0x5101:
		m.chrMode = value & 0x03
	case vaddr == 0x5105:
		m.nametableMode = value
	case vaddr == 0x5106:
		m.fillTile = value
	case vaddr == 0x5107:
		m.fillColor = value & 0x03
	case vaddr >= 0x5113 && vaddr <= 0x5117:
		m.prgReg[vaddr-0x5113] = value
	case vaddr >= 0x5120 && vaddr <= 0x512B:
		if vaddr-0x5120 < 12 {
			m.chrReg[vaddr-0x5120] = value
		}
	case vaddr == 0x5205:
		m.multiplicandA = value
		m.recompute()
	case vaddr == 0x5206:
		m.multiplicandB = value
		m.recompute()
	}
}

func (m *mmc5) recompute() {
	p := uint16(m.multiplicandA) * uint16(m.multiplicandB)
	m.registers[0x205] = uint8(p)
	m.registers[0x206] = uint8(p >> 8)
}

func (m *mmc5) IRQ() bool { return false }

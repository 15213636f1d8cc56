package system

// Read implements cpu.Bus. Addresses route to RAM/cartridge through
// cpuSpace except for the PPU's mirrored register window and the
// APU/controller/OAM-DMA registers, matching the teacher's
// switch-on-address-range memory map.
func (s *System) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return s.cpuSpace.Read(addr)
	case addr < 0x4000:
		return s.PPU.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4015:
		return s.APU.ReadStatus()
	case addr == 0x4016:
		return s.Input.Read(0)
	case addr == 0x4017:
		return s.Input.Read(1)
	default:
		return s.cpuSpace.Read(addr)
	}
}

// Write implements cpu.Bus.
func (s *System) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		s.cpuSpace.Write(addr, value)
	case addr < 0x4000:
		s.PPU.WriteRegister(0x2000+addr&0x0007, value)
	case addr == 0x4014:
		s.triggerOAMDMA(value)
	case addr == 0x4016:
		s.Input.Write(value)
	case addr >= 0x4000 && addr <= 0x4013:
		s.APU.WriteRegister(addr, value)
	case addr == 0x4015:
		s.APU.WriteRegister(addr, value)
	case addr == 0x4017:
		s.APU.WriteRegister(addr, value)
	default:
		s.cpuSpace.Write(addr, value)
	}
}

// Fault implements cpu.Bus, surfacing either bus's recorded fault — a
// PPU-bus fault (e.g. a mapper remap bug) is just as fatal as a CPU-bus
// one, per spec.md §4.1.
func (s *System) Fault() error {
	if err := s.cpuSpace.Fault(); err != nil {
		return err
	}
	return s.ppuSpace.Fault()
}

// ClearFault implements cpu.Bus.
func (s *System) ClearFault() {
	s.cpuSpace.ClearFault()
	s.ppuSpace.ClearFault()
}

// triggerOAMDMA handles a $4014 write: stall the CPU 513 or 514 cycles
// (odd/even parity of the CPU's own cycle counter decides the extra
// cycle) and copy 256 bytes from page<<8 into PPU OAM.
func (s *System) triggerOAMDMA(page uint8) {
	cycles := 513
	if s.CPU.Cycles%2 == 1 {
		cycles = 514
	}
	s.CPU.Stall(cycles)

	base := uint16(page) << 8
	data := make([]byte, 256)
	for i := range data {
		data[i] = s.cpuSpace.Read(base + uint16(i))
	}
	s.PPU.WriteOAMDMA(data)
}

package cartridge

import (
	"fmt"

	"gones/internal/addrspace"
)

// Mapper is the cartridge-side policy object. It is exactly
// addrspace.Mapper and adds no methods; save-file persistence goes
// through Program.PRGRAM and nametable sizing is done by Install.
type Mapper interface {
	addrspace.Mapper
}

// New picks and constructs the concrete mapper for prog, or reports an
// unsupported-mapper error (spec.md §7 "unsupported mapper: fatal").
func New(prog *Program) (Mapper, error) {
	switch prog.MapperID {
	case 0:
		return newNROM(prog), nil
	case 1:
		return newMMC1(prog), nil
	case 2:
		return newUxROM(prog), nil
	case 3:
		return newCNROM(prog), nil
	case 4:
		return newMMC3(prog), nil
	case 5:
		return newMMC5(prog), nil
	case 9:
		return newMMC2(prog), nil
	case 34:
		return newBNROM(prog), nil
	default:
		return nil, fmt.Errorf("cartridge: unsupported mapper %d", prog.MapperID)
	}
}

// nametableBacking returns the physical VRAM backing the mapper's
// RemapNTS hook indexes into: 2KB for the four hardwired mirroring
// modes, 4KB when the board wires four-screen mirroring with its own
// extra RAM.
func nametableBacking(prog *Program) []byte {
	if prog.Mirror == MirrorFourScreen {
		return make([]byte, 0x1000)
	}
	return make([]byte, 0x800)
}

// mirrorNTS applies one of the four hardwired mirroring arrangements to
// a nametable-region vaddr. Four-screen cartridges never call this —
// they address all 4KB of their own VRAM directly.
func mirrorNTS(mirror Mirror, vaddr uint16) uint32 {
	a := uint32(vaddr) & 0x0FFF
	table := uint32(a / 0x400)
	within := a % 0x400
	switch mirror {
	case MirrorVertical:
		return (table%2)*0x400 + within
	case MirrorSingleLower:
		return within
	case MirrorSingleUpper:
		return 0x400 + within
	default: // MirrorHorizontal
		return (table/2)*0x400 + within
	}
}

// Install registers prog's segments on the CPU and PPU address spaces
// through m, wiring PRG-RAM, PRG-ROM, CHR and nametable VRAM. Each
// concrete mapper owns its own bank-select state; Install only needs to
// know the memory shapes common to every board.
func Install(m Mapper, prog *Program, cpuBus, ppuBus *addrspace.Space) error {
	cpuBus.SetMapper(m)
	ppuBus.SetMapper(m)

	if owner, ok := m.(interface{ RegisterBacking() []byte }); ok {
		if err := cpuBus.AddSegment(addrspace.Segment{
			Start: 0x5000, Length: 0x1000, Backing: owner.RegisterBacking(),
			Perm: addrspace.PermReadWrite, Region: addrspace.RegionRAM,
		}); err != nil {
			return err
		}
	}

	if ram := prog.PRGRAM(); len(ram) > 0 {
		if err := cpuBus.AddSegment(addrspace.Segment{
			Start: 0x6000, Length: 0x2000, Backing: ram,
			Perm: addrspace.PermReadWrite, Region: addrspace.RegionRAM,
		}); err != nil {
			return err
		}
	}
	if err := cpuBus.AddSegment(addrspace.Segment{
		Start: 0x8000, Length: 0x8000, Backing: prog.PRG,
		Perm: addrspace.PermRead, Region: addrspace.RegionPRG,
	}); err != nil {
		return err
	}

	chrPerm := addrspace.PermRead
	if prog.HasCHRRAM {
		chrPerm = addrspace.PermReadWrite
	}
	if err := ppuBus.AddSegment(addrspace.Segment{
		Start: 0x0000, Length: 0x2000, Backing: prog.CHR,
		Perm: chrPerm, Region: addrspace.RegionCHR,
	}); err != nil {
		return err
	}

	vram := nametableBacking(prog)
	if err := ppuBus.AddSegment(addrspace.Segment{
		Start: 0x2000, Length: 0x1000, Backing: vram,
		Perm: addrspace.PermReadWrite, Region: addrspace.RegionNametable,
	}); err != nil {
		return err
	}
	return ppuBus.AddSegment(addrspace.Segment{
		Start: 0x3000, Length: 0x0F00, Backing: vram,
		Perm: addrspace.PermReadWrite, Region: addrspace.RegionNametable,
	})
}

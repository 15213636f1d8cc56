package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"gones/internal/addrspace"
)

func inesHeader(mapperID uint8, prgBanks, chrBanks uint8, flag6Extra byte) []byte {
	h := make([]byte, 16)
	copy(h, []byte("NES\x1A"))
	h[4] = prgBanks
	h[5] = chrBanks
	h[6] = (mapperID << 4) | flag6Extra
	h[7] = mapperID & 0xF0
	return h
}

func buildROM(mapperID uint8, prgBanks, chrBanks uint8) []byte {
	var buf bytes.Buffer
	buf.Write(inesHeader(mapperID, prgBanks, chrBanks, 0))
	buf.Write(make([]byte, int(prgBanks)*prgUnit))
	if chrBanks > 0 {
		buf.Write(make([]byte, int(chrBanks)*chrUnit))
	}
	return buf.Bytes()
}

func TestLoadRejectsBadSignature(t *testing.T) {
	_, err := Load(bytes.NewReader(make([]byte, 16)))
	require.Error(t, err)
}

func TestLoadRejectsNES20(t *testing.T) {
	h := inesHeader(0, 1, 1, 0)
	h[7] |= 0x08
	_, err := Load(bytes.NewReader(append(h, make([]byte, prgUnit+chrUnit)...)))
	require.Error(t, err)
}

func TestLoadParsesNROM(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(0, 2, 1)))
	require.NoError(t, err)
	require.Equal(t, uint8(0), prog.MapperID)
	require.Len(t, prog.PRG, 2*prgUnit)
	require.Len(t, prog.CHR, chrUnit)
	require.False(t, prog.HasCHRRAM)
}

func TestLoadSynthesizesCHRRAMWhenAbsent(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(0, 1, 0)))
	require.NoError(t, err)
	require.True(t, prog.HasCHRRAM)
	require.Len(t, prog.CHR, chrUnit)
}

func installed(t *testing.T, prog *Program) (Mapper, *addrspace.Space, *addrspace.Space) {
	t.Helper()
	m, err := New(prog)
	require.NoError(t, err)
	cpu := addrspace.New("cpu")
	ppu := addrspace.New("ppu")
	require.NoError(t, cpu.AddSegment(addrspace.Segment{Start: 0x0000, Length: 0x2000, Backing: make([]byte, 0x800), Perm: addrspace.PermReadWrite}))
	require.NoError(t, Install(m, prog, cpu, ppu))
	return m, cpu, ppu
}

func TestNROMMirrorsSmallPRGAcrossBothHalves(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(0, 1, 1)))
	require.NoError(t, err)
	prog.PRG[0] = 0x42
	_, cpu, _ := installed(t, prog)

	require.Equal(t, uint8(0x42), cpu.Read(0x8000))
	require.Equal(t, uint8(0x42), cpu.Read(0xC000))
	require.Nil(t, cpu.Fault())
}

func TestUxROMSwitchesLowBankLeavesLastFixed(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(2, 4, 0)))
	require.NoError(t, err)
	prog.PRG[0*0x4000] = 0x11
	prog.PRG[1*0x4000] = 0x22
	prog.PRG[3*0x4000] = 0x99
	_, cpu, _ := installed(t, prog)

	require.Equal(t, uint8(0x11), cpu.Read(0x8000))
	require.Equal(t, uint8(0x99), cpu.Read(0xC000))

	cpu.Write(0x8000, 0x01)
	require.Equal(t, uint8(0x22), cpu.Read(0x8000))
	require.Equal(t, uint8(0x99), cpu.Read(0xC000), "the last bank stays fixed regardless of the select register")
}

func TestMMC1SerialWriteLoadsControlRegister(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(1, 4, 2)))
	require.NoError(t, err)
	m, cpu, _ := installed(t, prog)

	// Five consecutive writes shift in bit 0 of each value, LSB-first,
	// landing 0b00110 in the control register.
	for _, bit := range []uint8{0, 1, 1, 0, 0} {
		cpu.Write(0x8000, bit)
	}
	mmcOne := asMMC1(t, m)
	require.Equal(t, uint8(0x06), mmcOne.control&0x1F)
}

func TestMMC1ResetBitRestoresPRGMode3(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(1, 4, 2)))
	require.NoError(t, err)
	m, cpu, _ := installed(t, prog)

	cpu.Write(0x8000, 0x80) // reset bit
	mmcOne := asMMC1(t, m)
	require.Equal(t, uint8(0), mmcOne.shiftPos)
	require.Equal(t, uint8(0x0C), mmcOne.control&0x0C)
}

func asMMC1(t *testing.T, m Mapper) *mmc1 {
	t.Helper()
	mm, ok := m.(*mmc1)
	require.True(t, ok)
	return mm
}

func TestMMC3BankSelectRoutesDataWrites(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(4, 8, 8)))
	require.NoError(t, err)
	m, err := New(prog)
	require.NoError(t, err)
	m3 := m.(*mmc3)

	m3.Monitor(0x8000, 0x06, true) // select R6 (PRG $8000-9FFF)
	m3.Monitor(0x8001, 0x02, true) // R6 = bank 2
	require.Equal(t, uint8(0x02), m3.reg[6])
}

func TestMMC3IRQFiresWhenCounterReachesZero(t *testing.T) {
	prog, err := Load(bytes.NewReader(buildROM(4, 8, 8)))
	require.NoError(t, err)
	m, err := New(prog)
	require.NoError(t, err)
	m3 := m.(*mmc3)

	m3.Monitor(0xC000, 2, true) // IRQ latch = 2
	m3.Monitor(0xC001, 0, true) // force reload
	m3.Monitor(0xE001, 0, true) // enable IRQ

	for i := 0; i < 3; i++ {
		m3.Monitor(0x0000, 0, false) // A12 low
		m3.Monitor(0x1000, 0, false) // A12 rising edge clocks the counter
	}
	require.True(t, m3.IRQ())
}

func TestCartridgeRejectsUnsupportedMapper(t *testing.T) {
	prog := &Program{MapperID: 255, PRG: make([]byte, prgUnit)}
	_, err := New(prog)
	require.Error(t, err)
}

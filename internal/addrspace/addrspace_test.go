package addrspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	s := New("test")
	ram := make([]byte, 0x800)
	require.NoError(t, s.AddSegment(Segment{Start: 0x0000, Length: 0x800, Backing: ram, Perm: PermReadWrite}))

	s.Write(0x0200, 0x05)
	require.Equal(t, uint8(0x05), s.Read(0x0200))
	require.Nil(t, s.Fault())
}

func TestWriteWithoutPermissionFaults(t *testing.T) {
	s := New("test")
	rom := []byte{0xAA, 0xBB}
	require.NoError(t, s.AddSegment(Segment{Start: 0x8000, Length: 2, Backing: rom, Perm: PermRead}))

	s.Write(0x8000, 0xFF)
	require.Error(t, s.Fault())
	require.Equal(t, uint8(0xAA), rom[0], "write without permission must not mutate backing store")
}

func TestUnmappedReadFaults(t *testing.T) {
	s := New("test")
	require.NoError(t, s.AddSegment(Segment{Start: 0x0000, Length: 0x10, Backing: make([]byte, 0x10), Perm: PermReadWrite}))

	_ = s.Read(0x1000)
	require.Error(t, s.Fault())
}

func TestOverlappingSegmentRejected(t *testing.T) {
	s := New("test")
	require.NoError(t, s.AddSegment(Segment{Start: 0x0000, Length: 0x100, Backing: make([]byte, 0x100), Perm: PermReadWrite}))
	err := s.AddSegment(Segment{Start: 0x0080, Length: 0x10, Backing: make([]byte, 0x10), Perm: PermReadWrite})
	require.Error(t, err)
}

type recordingMapper struct {
	writes []uint16
}

func (m *recordingMapper) RemapRAM(vaddr uint16, base, offset uint32) uint32 { return offset }
func (m *recordingMapper) RemapPRG(vaddr uint16, base, offset uint32) uint32 { return offset }
func (m *recordingMapper) RemapCHR(vaddr uint16, base, offset uint32) uint32 { return offset }
func (m *recordingMapper) RemapNTS(vaddr uint16, base, offset uint32) uint32 { return offset }
func (m *recordingMapper) Monitor(vaddr uint16, value uint8, isWrite bool) {
	if isWrite {
		m.writes = append(m.writes, vaddr)
	}
}
func (m *recordingMapper) IRQ() bool { return false }

func TestMapperMonitorSeesEveryWrite(t *testing.T) {
	s := New("cpu")
	mapper := &recordingMapper{}
	s.SetMapper(mapper)
	require.NoError(t, s.AddSegment(Segment{Start: 0x8000, Length: 0x8000, Backing: make([]byte, 0x8000), Perm: PermRead, Region: RegionPRG}))

	s.Write(0x8123, 0x01)
	require.Equal(t, []uint16{0x8123}, mapper.writes)
}

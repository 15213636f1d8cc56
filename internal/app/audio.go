package app

import (
	"encoding/binary"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"gones/internal/apu"
)

// ringReader adapts an apu.Ring into the io.Reader ebiten's audio
// player streams from: one mono float32 sample becomes one 16-bit
// stereo PCM frame (duplicated to both channels), scaled by volume.
type ringReader struct {
	ring   *apu.Ring
	volume float32
	scratch []float32
}

func newRingReader(ring *apu.Ring, volume float32) *ringReader {
	return &ringReader{ring: ring, volume: volume}
}

// Read implements io.Reader. It never returns io.EOF — ebiten's player
// treats that as end of stream, but this source is a live, unbounded
// feed for as long as the emulator runs.
func (r *ringReader) Read(p []byte) (int, error) {
	frames := len(p) / 4 // 2 channels * 2 bytes/sample
	if frames == 0 {
		return 0, nil
	}
	if cap(r.scratch) < frames {
		r.scratch = make([]float32, frames)
	}
	buf := r.scratch[:frames]
	r.ring.Read(buf)

	for i, sample := range buf {
		v := sample * r.volume
		switch {
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		pcm := int16(v * 32767)
		binary.LittleEndian.PutUint16(p[i*4:], uint16(pcm))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(pcm))
	}
	return frames * 4, nil
}

// startAudio wires the APU's sample ring into an ebiten audio player at
// sampleRate, returning the player so Cleanup can stop it. It always
// creates a player; LoadROM calls it only when audio is enabled in config.
func startAudio(ring *apu.Ring, sampleRate int, volume float32) (*audio.Player, error) {
	ctx := audio.NewContext(sampleRate)
	player, err := ctx.NewPlayer(newRingReader(ring, volume))
	if err != nil {
		return nil, err
	}
	player.Play()
	return player, nil
}

var _ io.Reader = (*ringReader)(nil)

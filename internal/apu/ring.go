package apu

import "sync/atomic"

// ringSize is the audio ring buffer capacity in samples.
const ringSize = 65536

// Ring is a lock-free single-producer/single-consumer float32 ring
// buffer: the APU is the sole producer, the host audio callback the
// sole consumer. Overrun (producer catches the reader) drops the oldest
// samples by advancing the read cursor; underrun (consumer drains an
// empty ring) yields zeroes.
type Ring struct {
	buf   [ringSize]float32
	write atomic.Uint64
	read  atomic.Uint64
}

// Push appends one sample, dropping the oldest sample if the ring is full.
func (r *Ring) Push(sample float32) {
	w := r.write.Load()
	read := r.read.Load()
	if w-read >= ringSize {
		r.read.Store(read + 1)
	}
	r.buf[w%ringSize] = sample
	r.write.Store(w + 1)
}

// Read drains up to len(dst) samples into dst, zero-filling on underrun,
// and returns the count actually copied from the ring.
func (r *Ring) Read(dst []float32) int {
	read := r.read.Load()
	w := r.write.Load()
	n := 0
	for n < len(dst) && read+uint64(n) < w {
		dst[n] = r.buf[(read+uint64(n))%ringSize]
		n++
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	r.read.Store(read + uint64(n))
	return n
}

// Available reports how many unread samples are currently buffered.
func (r *Ring) Available() int {
	return int(r.write.Load() - r.read.Load())
}

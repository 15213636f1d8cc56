package apu

// lengthTable maps a 5-bit length-counter load value to its initial count.
var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// dutyTable holds the 8-step waveform for each of the four pulse duty cycles.
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25% negated
}

// triangleTable is the 32-step triangle waveform, falling then rising.
var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// noisePeriodTable holds the NTSC noise-channel timer periods.
var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// dmcRateTable holds the NTSC DMC sample-rate timer periods.
var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

// pulseTable and tndTable are precomputed non-linear mixer lookup tables,
// indexed by the raw channel sums, so mixing is a table read instead of a
// division per sample. Derived from the standard NES mixer formulas:
//
//	pulse_out = 95.88 / (8128/(pulse1+pulse2) + 100)
//	tnd_out   = 159.79 / (1 / (triangle/8227 + noise/12241 + dmc/22638) + 100)
//
// tndTable uses the usual lookup form of tnd_out, indexed by
// n = 3*triangle + 2*noise + dmc: 163.67 / (24329/n + 100).
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for i := range pulseTable {
		if i == 0 {
			continue
		}
		pulseTable[i] = float32(95.88 / (8128.0/float64(i) + 100.0))
	}
	for i := range tndTable {
		if i == 0 {
			continue
		}
		tndTable[i] = float32(163.67 / (24329.0/float64(i) + 100.0))
	}
}

// mix combines raw channel outputs into a signed [-1, 1] sample via the
// precomputed lookup tables.
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	p := pulseTable[pulse1+pulse2]
	tnd := tndTable[int(triangle)*3+int(noise)*2+int(dmc)]
	return (p + tnd) * 2.0 - 1.0
}

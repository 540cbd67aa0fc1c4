package core

// TimerBase is the fixed-frequency hardware counter rate that all
// step timing is derived from, in ticks per second.
const TimerBase = 8000000

// DistnWidth is the number of slots in a timing distribution table.
// Must be a power of two: the step handler masks the segment counter
// with DistnWidth-1.
const DistnWidth = 32

// Reload clamp for the hardware compare register.
const (
	minReload = 128
	maxReload = 65535
)

// RateTable is the cyclic per-axis table of interrupt reload values.
// Its sum over one full cycle approximates DistnWidth*TimerBase/divisor
// to within one tick, spreading the fractional remainder across the
// slots so the average rate is sub-tick accurate.
type RateTable [DistnWidth]uint16

// BuildRateTable computes the distribution table for the given tick
// divisor. Integer math splits the division first; only the small
// remainder goes through float, where precision is fine.
// Never call this from the tick handler: tables are rebuilt in the
// foreground when sidereal or steps-per-rotation config changes.
func BuildRateTable(divisor uint32) RateTable {
	var t RateTable
	if divisor == 0 {
		divisor = 1
	}

	rate := uint32(TimerBase) / divisor
	remainder := uint32(TimerBase) % divisor

	// Extra whole ticks to spread across the cycle.
	extra := uint32(float32(remainder)/float32(divisor)*float32(DistnWidth) + 0.5)

	if rate > maxReload {
		rate = maxReload
	} else if rate < minReload {
		rate = minReload
	}

	for i := range t {
		t[i] = uint16(rate)
	}

	// Distribute the extra ticks as evenly as possible: each unit is
	// placed at the ceiling of its ideal fractional slot position.
	for i := uint32(0); i < extra; i++ {
		slot := ceilDiv32(i*DistnWidth, extra)
		t[slot&(DistnWidth-1)]++
	}

	return t
}

func ceilDiv32(n, d uint32) uint32 {
	if d == 0 {
		return 0
	}
	return (n + d - 1) / d
}

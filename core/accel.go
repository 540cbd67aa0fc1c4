package core

// AccelTableLength is the fixed number of entries in each axis ramp.
const AccelTableLength = 14

// highSpeedDecelScale compensates the deceleration profile for the
// gear-changed microstep mode. 3 is the integer approximation of
// sqrt(8); hand controllers are tuned against exactly this value.
const highSpeedDecelScale = 3

// AccelEntry is one rung of the acceleration ramp: an interval in
// timer ticks per microstep and the number of extra steps spent at
// that interval before moving to the next rung.
type AccelEntry struct {
	Speed   uint16 `json:"speed"`
	Repeats uint8  `json:"repeats"`
}

// AccelTable is the per-axis ramp, ordered slowest first (highest tick
// count at index 0, intervals non-increasing from there).
type AccelTable [AccelTableLength]AccelEntry

// Validate checks the monotonicity invariant: entry i must be no
// faster than entry i+1.
func (t *AccelTable) Validate() error {
	for i := 1; i < AccelTableLength; i++ {
		if t[i].Speed > t[i-1].Speed {
			return ErrAccelOrder
		}
	}
	return nil
}

// TopSpeed returns the fastest interval in the table. Commanded slew
// speeds are clamped here so a move never skips the end of the ramp.
func (t *AccelTable) TopSpeed() uint16 {
	return t[AccelTableLength-1].Speed
}

// DecelSteps computes the number of steps needed to accelerate from
// rest to target, walking the ramp from the slowest entry until the
// first entry at or below the target interval. By symmetry the same
// count is the deceleration distance back to rest.
func (t *AccelTable) DecelSteps(target uint16) uint16 {
	var steps uint16
	for i := 0; i < AccelTableLength; i++ {
		if t[i].Speed <= target {
			break
		}
		steps += uint16(t[i].Repeats) + 1
	}
	return steps
}

// repeatsReload returns the repeat counter value loaded when the ramp
// advances to entry idx. In high-speed mode the motor covers 8 normal
// microsteps per step, so repeats are stretched to keep the physical
// ramp shape (see the sqrt(8) note on highSpeedDecelScale).
func (t *AccelTable) repeatsReload(idx uint8, highSpeed bool) uint8 {
	if highSpeed {
		return t[idx].Repeats*highSpeedDecelScale + 2
	}
	return t[idx].Repeats
}

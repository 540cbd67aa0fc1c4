package core

// modePattern is the microstep mode-pin drive state for one speed
// regime. A floating pin (DRV8834 MODE2 tri-state) is configured as an
// input instead of being driven.
type modePattern struct {
	level [3]bool
	float [3]bool
}

// modeMap holds the normal and gear-changed pin patterns for the
// configured driver class and microstep count.
type modeMap struct {
	normal modePattern
	fast   modePattern
}

// buildModeMap generates the mode-pin mapping. Microstep counts below
// 8 cannot gear change: the lookup scales them by 8 and the controller
// then runs permanently on the fast pattern, which is the pin state
// that produces the configured stepping.
func buildModeMap(microsteps, driverClass uint8) modeMap {
	if microsteps < 8 {
		microsteps *= 8
	}
	switch microsteps {
	case 8:
		return modeMap{
			normal: modePattern{level: [3]bool{true, true, false}},   // 1/8
			fast:   modePattern{level: [3]bool{false, false, false}}, // 1/1
		}
	case 32:
		if driverClass == DriverDRV8834 {
			return modeMap{
				normal: modePattern{level: [3]bool{false, true, false}, float: [3]bool{false, false, true}},  // 1/32
				fast:   modePattern{level: [3]bool{false, false, false}, float: [3]bool{false, false, true}}, // 1/4
			}
		}
		return modeMap{
			normal: modePattern{level: [3]bool{true, true, true}},   // 1/32
			fast:   modePattern{level: [3]bool{false, true, false}}, // 1/4
		}
	default: // 16, and anything unknown falls back to half/sixteenth
		if driverClass == DriverDRV882x {
			return modeMap{
				normal: modePattern{level: [3]bool{true, false, false}}, // 1/16
				fast:   modePattern{level: [3]bool{false, false, true}}, // 1/2
			}
		}
		return modeMap{
			normal: modePattern{level: [3]bool{true, true, true}},   // 1/16
			fast:   modePattern{level: [3]bool{true, false, false}}, // 1/2
		}
	}
}

package store

import "eqmount/core"

// DefaultConfig returns a runnable configuration for a typical mid-size
// equatorial mount, used by the simulator and as a starting point for
// programming real hardware.
func DefaultConfig() core.MountConfig {
	accel := core.AccelTable{
		{Speed: 1200, Repeats: 8},
		{Speed: 1000, Repeats: 8},
		{Speed: 850, Repeats: 7},
		{Speed: 720, Repeats: 7},
		{Speed: 610, Repeats: 6},
		{Speed: 520, Repeats: 6},
		{Speed: 440, Repeats: 5},
		{Speed: 380, Repeats: 5},
		{Speed: 320, Repeats: 4},
		{Speed: 270, Repeats: 4},
		{Speed: 230, Repeats: 3},
		{Speed: 190, Repeats: 3},
		{Speed: 160, Repeats: 2},
		{Speed: 135, Repeats: 1},
	}

	axis := core.AxisConfig{
		AVal:             5184000, // steps per axis revolution
		BVal:             20000,   // sidereal rate divisor
		SVal:             28800,   // steps per worm rotation
		GVal:             8,
		SiderealInterval: 600,
		GotoSpeed:        135,
		AccelTable:       accel,
	}

	return core.MountConfig{
		DriverClass:      core.DriverDRV882x,
		Microsteps:       16,
		GearChangeEnable: true,
		Axes:             [core.NumAxes]core.AxisConfig{axis, axis},
	}
}

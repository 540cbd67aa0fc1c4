// Package core implements the motion engine of an equatorial mount
// controller: sidereal tracking, slewing and goto moves on two stepper
// axes, driven by per-axis hardware timer callbacks.
package core

import "errors"

// Axis identifies one of the two motor channels.
type Axis uint8

const (
	RA  Axis = 0 // right ascension
	Dec Axis = 1 // declination

	NumAxes = 2
)

// Direction of travel along an axis.
type Direction uint8

const (
	DirForward Direction = 0
	DirReverse Direction = 1
)

// Motor driver classes supported by the mode-pin mapping.
const (
	DriverA498x   uint8 = 0
	DriverDRV882x uint8 = 1
	DriverDRV8834 uint8 = 2
)

const (
	// HomePosition is the encoder value representing the axis home.
	// Positions are 24-bit values centered here.
	HomePosition uint32 = 0x800000

	// PositionMask truncates an encoder value to its 24-bit wire form.
	PositionMask uint32 = 0xFFFFFF

	// Sidereal interval bounds accepted by config validation,
	// in timer ticks per microstep.
	MinSiderealInterval = 50
	MaxSiderealInterval = 1200
)

// AxisConfig holds the persisted per-axis mount parameters.
type AxisConfig struct {
	AVal uint32 `json:"a_val"` // steps per axis revolution
	BVal uint32 `json:"b_val"` // sidereal tick rate divisor
	SVal uint32 `json:"s_val"` // steps per worm rotation
	GVal uint8  `json:"g_val"` // high speed multiplier (8 when gear change possible, else 1)

	SiderealInterval uint16 `json:"sidereal_interval"` // ticks per microstep at sidereal rate
	GotoSpeed        uint16 `json:"goto_speed"`        // cruise interval for goto moves
	Reverse          bool   `json:"reverse"`           // invert encoded direction

	AccelTable AccelTable `json:"accel_table"`
}

// MountConfig is the full persisted configuration of the controller.
type MountConfig struct {
	DriverClass      uint8 `json:"driver_class"`
	Microsteps       uint8 `json:"microsteps"`
	GearChangeEnable bool  `json:"gear_change_enable"`
	AdvancedHCDetect bool  `json:"advanced_hc_detect"`
	ST4Reverse       bool  `json:"st4_reverse"` // allow jog input to reverse RA

	Axes [NumAxes]AxisConfig `json:"axes"`
}

var (
	ErrDriverClass      = errors.New("unknown motor driver class")
	ErrMicrosteps       = errors.New("microstep setting out of range for driver class")
	ErrSiderealInterval = errors.New("sidereal interval outside valid bounds")
	ErrGotoSpeed        = errors.New("goto speed must be nonzero")
	ErrAccelOrder       = errors.New("acceleration table not monotonic")
)

// Validate rejects obviously corrupt configuration before motion is
// allowed to start. The checks mirror what the controller needs to run
// safely: a known driver class, a microstep setting the driver can
// produce, bounded sidereal intervals and a usable goto speed.
func (m *MountConfig) Validate() error {
	if m.DriverClass > DriverDRV8834 {
		return ErrDriverClass
	}
	if m.DriverClass == DriverA498x && m.Microsteps > 16 {
		return ErrMicrosteps
	}
	if m.Microsteps > 32 {
		return ErrMicrosteps
	}
	for axis := range m.Axes {
		a := &m.Axes[axis]
		if a.SiderealInterval < MinSiderealInterval || a.SiderealInterval > MaxSiderealInterval {
			return ErrSiderealInterval
		}
		if a.GotoSpeed == 0 {
			return ErrGotoSpeed
		}
		if err := a.AccelTable.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CanHighSpeed reports whether the gear-change jump to the coarser
// microstep mode is available. The jump divides the microstep count by
// 8, so it needs at least 1/8 stepping to begin with.
func (m *MountConfig) CanHighSpeed() bool {
	return m.Microsteps >= 8 && m.GearChangeEnable
}

package core

// Arming states for the foreground move sequencer. A commanded move is
// deferred until the axis reports stopped; slews stay re-armable so
// speed changes apply without a stop/start cycle.
const (
	armIdle    uint8 = 0 // nothing pending
	armPending uint8 = 1 // start requested, waiting for stopped
	armRunning uint8 = 2 // slew running, speed updates allowed live
)

// axisState is the volatile per-axis record shared between the
// foreground and that axis's timer callback.
//
// Ownership discipline: once a move starts, position, currentSpeed,
// accelIndex, accelRepeatsLeft, distSegment, irqCountdown and the
// motion flags belong to the tick handler. The foreground only
// requests transitions, and may write fields directly only while
// stopped is true. Multi-word reads (position) are done under the
// axis critical section.
type axisState struct {
	// Encoder position. 24-bit on the wire, kept as raw uint32 here so
	// the goto marker comparison sees exactly the value the handler
	// wrote.
	position uint32

	currentSpeed uint16 // interval now being stepped at (ticks/step)
	targetSpeed  uint16 // interval the ramp is walking toward
	commandSpeed uint16 // last commanded slew/goto interval
	stopSpeed    uint16 // decelerating past this interval means halt
	minSpeed     uint16 // slowest ramp interval; slower targets start direct

	dir     Direction
	stepDir int8 // signed encoder increment per step: ±1, or ±GVal in high speed

	stopped   bool
	enabled   bool // driver energised
	highSpeed bool // gear-changed microstep mode

	gotoEn      bool // goto requested (J armed a goto)
	gotoRunning bool
	gotoDecel   bool
	gotoTarget  uint32 // position at which deceleration begins
	gotoDist    uint32 // commanded relative distance (H)

	mode uint8 // commanded mode value from G: bit0 slew, bit1 fast

	// Ramp walk state, owned by the tick handler while running.
	accelIndex       uint8
	accelRepeatsLeft uint8

	// Sub-step timing, owned by the tick handler.
	distSegment  uint8  // distribution table cursor
	irqCountdown uint16 // timer callbacks left until the next step edge
	stepPinHigh  bool

	arm uint8 // armIdle / armPending / armRunning
}

// Status word bit layout, one hex digit each, matching the mount
// protocol's axis status reply.
const (
	statusSlewMode  = 1 << 0 // digit 1: slew (1) vs goto (0)
	statusReverse   = 1 << 1
	statusHighSpeed = 1 << 2
	statusRunning   = 1 << 4 // digit 2
	statusEnabled   = 1 << 8 // digit 3
)

// statusWord packs the externally visible axis flags. Safe to call
// from the foreground at any time: every field is a single byte and
// an inconsistent snapshot only ever misreports transient flags.
func (a *axisState) statusWord() uint32 {
	var w uint32
	if a.mode&1 != 0 {
		w |= statusSlewMode
	}
	if a.dir == DirReverse {
		w |= statusReverse
	}
	if a.highSpeed {
		w |= statusHighSpeed
	}
	if !a.stopped {
		w |= statusRunning
	}
	if a.enabled {
		w |= statusEnabled
	}
	return w
}

// setStepDir updates the signed per-step encoder increment for the
// configured magnitude and current direction.
func (a *axisState) setStepDir(magnitude uint8) {
	if a.dir == DirReverse {
		a.stepDir = -int8(magnitude)
	} else {
		a.stepDir = int8(magnitude)
	}
}

func (a *axisState) stepMagnitude() uint32 {
	if a.stepDir < 0 {
		return uint32(-a.stepDir)
	}
	return uint32(a.stepDir)
}

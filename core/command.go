package core

import "eqmount/protocol"

// Dispatch processes one decoded command frame from the host link:
// a single-letter command code, the target axis and the fixed-width
// hex payload. It returns the assembled response packet and whether a
// controller reset was requested. Unknown commands and malformed
// payloads produce an error packet and change no state.
//
// Dispatch runs in the foreground loop; it never blocks, and touches
// in-progress motion state only through the transition requests the
// tick handler honours.
func (c *Controller) Dispatch(cmd byte, axis Axis, payload string) (resp string, reset bool) {
	if axis >= NumAxes {
		return protocol.AssembleError(protocol.ErrCodeBadValue), false
	}
	a := &c.axes[axis]
	ac := &c.cfg.Axes[axis]

	var data uint32
	fail := byte(0)

	switch cmd {
	case 'e':
		data = protocol.Version
	case 'a':
		data = ac.AVal
	case 'b':
		data = ac.BVal
		// Correction for the rounding the host-side driver applies when
		// it derives rates from b. Skipped when the sidereal interval is
		// unset (unvalidated config forced back to run mode).
		if correction := uint32(ac.SiderealInterval) << 1; c.progMode == RunMode && correction != 0 {
			data = data * (correction + 1) / correction
		}
	case 'g':
		data = uint32(ac.GVal)
	case 's':
		data = ac.SVal
	case 'f':
		data = a.statusWord()
	case 'j':
		data = c.Position(axis)

	case 'K':
		c.MotorStop(axis, false)
		a.arm = armIdle
	case 'L':
		c.MotorStop(axis, true)
		c.MotorDisable(axis)

	case 'G':
		if len(payload) < 2 {
			fail = protocol.ErrCodeBadPayload
			break
		}
		a.mode = payload[0] - '0'
		if payload[1] != '0' {
			a.dir = DirReverse
		} else {
			a.dir = DirForward
		}
		a.arm = armIdle
	case 'H':
		v, err := protocol.DecodeUint24(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		a.gotoDist = v
		a.arm = armIdle
	case 'I':
		v, err := protocol.DecodeUint24(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		// Clamp to the fastest ramp entry so a slew can never demand a
		// speed past the end of the acceleration table.
		if top := uint32(ac.AccelTable.TopSpeed()); v < top {
			v = top
		}
		a.commandSpeed = uint16(v)
		if a.arm == armRunning {
			c.motorStart(axis) // live speed update
		} else {
			a.arm = armIdle
		}
	case 'E':
		v, err := protocol.DecodeUint24(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		c.SetPosition(axis, v)
	case 'F':
		if c.progMode == RunMode {
			c.MotorEnable(axis)
		} else {
			fail = protocol.ErrCodeNotStopped
		}

	case 'A':
		fail = c.setConfig24(payload, &ac.AVal)
	case 'B':
		fail = c.setConfig24(payload, &ac.BVal)
	case 'S':
		fail = c.setConfig24(payload, &ac.SVal)
	case 'n':
		data = uint32(ac.SiderealInterval)
	case 'N':
		v, err := protocol.DecodeUint24(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		ac.SiderealInterval = uint16(v)
		c.applyConfig()
	case 'd':
		if axis == Dec {
			data = uint32(c.cfg.Microsteps)
		} else {
			data = uint32(c.cfg.DriverClass)
		}
	case 'D':
		v, err := protocol.DecodeUint8(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		if axis == Dec {
			c.cfg.Microsteps = uint8(v)
		} else {
			c.cfg.DriverClass = uint8(v)
		}
		c.applyConfig()
	case 'z':
		data = uint32(ac.GotoSpeed)
	case 'Z':
		v, err := protocol.DecodeUint8(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		ac.GotoSpeed = uint16(v)
		c.applyConfig()
	case 'c':
		if ac.Reverse {
			data = 1
		}
	case 'C':
		if len(payload) < 1 {
			fail = protocol.ErrCodeBadPayload
			break
		}
		ac.Reverse = payload[0] != '0'
	case 'q':
		if axis == Dec {
			if !c.cfg.GearChangeEnable {
				data = 1
			}
		} else {
			if !c.cfg.AdvancedHCDetect {
				data = 1
			}
		}
	case 'Q':
		v, err := protocol.DecodeUint8(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		if axis == Dec {
			c.cfg.GearChangeEnable = v == 0
		} else {
			c.cfg.AdvancedHCDetect = v == 0
		}
		c.applyConfig()

	case 'x':
		entry := ac.AccelTable[c.accelCursor[axis]]
		data = uint32(entry.Repeats)<<16 | uint32(entry.Speed)
		c.advanceCursor(axis)
	case 'X':
		v, err := protocol.DecodeUint24(payload)
		if err != nil {
			fail = protocol.ErrCodeBadPayload
			break
		}
		ac.AccelTable[c.accelCursor[axis]] = AccelEntry{
			Speed:   uint16(v),
			Repeats: uint8(v >> 16),
		}
		c.advanceCursor(axis)
		c.applyConfig()
	case 'Y':
		v, err := protocol.DecodeUint8(payload)
		if err != nil || v >= AccelTableLength {
			fail = protocol.ErrCodeBadValue
			break
		}
		c.accelCursor[axis] = uint8(v)

	case 'O':
		if len(payload) < 1 {
			fail = protocol.ErrCodeBadPayload
			break
		}
		c.progMode = payload[0] - '0'
		if c.progMode != RunMode {
			for ax := Axis(0); ax < NumAxes; ax++ {
				c.MotorStop(ax, true)
				c.MotorDisable(ax)
			}
		}
	case 'T':
		if c.progMode&StoreMode != 0 {
			var err error
			if c.progMode&ValidateMode != 0 {
				err = c.store.Rebuild()
			} else {
				err = c.store.Save(c.cfg)
			}
			if err != nil {
				fail = protocol.ErrCodeBadValue
			}
		} else if c.progMode&ValidateMode != 0 {
			if c.cfg.Validate() != nil {
				fail = protocol.ErrCodeBadValue
			}
		}

	case 'J', 'M':
		// Handled below ('J' arms after the response; 'M' is accepted
		// for host compatibility and does nothing).
	case 'R':
		// Reset is reported to the caller after the response is
		// assembled; the target layer owns the watchdog.
	default:
		fail = protocol.ErrCodeUnknownCmd
	}

	if fail != 0 {
		return protocol.AssembleError(fail), false
	}

	if cmd == 'J' && c.progMode == RunMode {
		// Ready: the pending move starts from Poll once the previous
		// one has fully stopped.
		a.arm = armPending
		if a.mode&1 == 0 {
			a.gotoEn = true
		}
	}

	return protocol.AssembleReply(cmd, data), cmd == 'R'
}

func (c *Controller) setConfig24(payload string, dst *uint32) byte {
	v, err := protocol.DecodeUint24(payload)
	if err != nil {
		return protocol.ErrCodeBadPayload
	}
	*dst = v
	c.applyConfig()
	return 0
}

// advanceCursor post-increments the acceleration table cursor with
// wraparound, so sequential reads and writes need no explicit
// addressing between entries.
func (c *Controller) advanceCursor(axis Axis) {
	c.accelCursor[axis]++
	if c.accelCursor[axis] >= AccelTableLength {
		c.accelCursor[axis] = 0
	}
}

// ProgMode reports the current programming mode; motion commands only
// act in RunMode.
func (c *Controller) ProgMode() uint8 {
	return c.progMode
}

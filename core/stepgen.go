package core

// HandleTick is the per-axis timer compare callback: the real-time
// core. It runs once per compare match, rewrites the reload value from
// the distribution table at each step boundary, and alternates the step
// pin between its two edges. Rising edge starts a step; the following
// falling edge commits it: position update, goto marker check and
// stop-speed check happen atomically within that one invocation, so
// the foreground can never observe a partial step.
//
// No allocation, no locking, no calls out of the core except the pin
// writes and timer register writes.
func (c *Controller) HandleTick(axis Axis) {
	a := &c.axes[axis]

	// One logical step spans currentSpeed invocations; count them off.
	countdown := a.irqCountdown - 1
	if countdown != 0 {
		a.irqCountdown = countdown
		return
	}

	t := c.timers[axis]

	// Step boundary: pick the next base interval from the cyclic
	// distribution table. The dithered reload values keep the average
	// rate sub-tick accurate at sidereal speeds.
	seg := a.distSegment
	t.SetReload(c.rateTables[axis][seg&(DistnWidth-1)])
	a.distSegment = seg + 1

	speed := a.currentSpeed
	a.irqCountdown = speed

	if a.stepPinHigh {
		// Falling edge: the step commits here.
		c.gpio.SetPin(c.pins[axis].Step, false)
		a.stepPinHigh = false

		a.position += uint32(int32(a.stepDir))

		if a.gotoRunning && !a.gotoDecel {
			if a.gotoTarget == a.position {
				// Deceleration marker reached: retarget past the stop
				// speed so the ramp walks down to a halt.
				a.gotoDecel = true
				a.targetSpeed = a.stopSpeed + 1
				a.accelRepeatsLeft = 0
				c.events.record(EvtGotoDecel, axis, a.position)
			}
		}

		if speed > a.stopSpeed {
			// Slower than the stopping threshold: the move is over.
			if a.gotoRunning {
				a.gotoEn = false
				a.gotoRunning = false
			}
			a.stopped = true
			t.DisableClock()
			c.events.record(EvtStopped, axis, a.position)
		}
		return
	}

	// Rising edge: start the next step, then walk the ramp one notch
	// toward the target speed.
	c.gpio.SetPin(c.pins[axis].Step, true)
	a.stepPinHigh = true

	repeats := a.accelRepeatsLeft
	if repeats != 0 {
		a.accelRepeatsLeft = repeats - 1
		return
	}

	table := &c.cfg.Axes[axis].AccelTable
	target := a.targetSpeed

	if speed > target {
		// Going too slow: accelerate.
		idx := a.accelIndex
		if idx >= AccelTableLength-1 {
			// Ramp exhausted at the fast end: snap to target.
			speed = target
		} else {
			idx++
			a.accelIndex = idx
			speed = table[idx].Speed
			if speed <= target {
				speed = target
			} else {
				a.accelRepeatsLeft = table.repeatsReload(idx, a.highSpeed)
			}
		}
	} else if speed < target {
		// Going too fast: decelerate.
		idx := a.accelIndex
		if idx == 0 {
			speed = target
		} else {
			idx--
			a.accelIndex = idx
			speed = table[idx].Speed
			if speed >= target || speed >= a.stopSpeed {
				// A stopping ramp (target is stopSpeed+1) snaps at the
				// first rung at or past the stop threshold, so the
				// final step commits exactly decel-length past the
				// goto marker.
				speed = target
			} else {
				a.accelRepeatsLeft = table.repeatsReload(idx, a.highSpeed)
			}
		}
	}
	a.currentSpeed = speed
}

package core

// Programming modes. Outside runMode the motors are held stopped and
// disabled, and only configuration commands act.
const (
	RunMode      uint8 = 0
	ValidateMode uint8 = 1
	StoreMode    uint8 = 2
	RebuildMode  uint8 = 3
)

// ConfigStore is the persistence surface the controller loads from and
// commits to. Implementations live in the store package.
type ConfigStore interface {
	Load() (MountConfig, error)
	Save(MountConfig) error
	// Rebuild re-creates the backing store identity so a following
	// Save produces a loadable image.
	Rebuild() error
}

// Controller owns both axes: configuration, runtime state, rate and
// deceleration tables, and the hardware handles. All foreground
// entry points (commands, Poll, jog edges) are run-to-completion and
// must be called from a single goroutine; the timer callbacks are the
// only concurrent context, bounded by the axis critical sections.
type Controller struct {
	cfg   MountConfig
	store ConfigStore
	gpio  GPIODriver

	pins   [NumAxes]AxisPins
	jog    [NumAxes]JogPins
	timers [NumAxes]StepTimer

	axes       [NumAxes]axisState
	rateTables [NumAxes]RateTable
	decelSteps [NumAxes]uint16

	modes        modeMap
	canHighSpeed bool
	defaultFast  bool // microsteps < 8: always run in the fast regime

	progMode uint8
	st4      st4Speeds

	accelCursor [NumAxes]uint8 // auto-incrementing table access cursor

	events EventRing
}

// NewController wires a controller to its hardware and loads the
// persisted configuration. A config that fails validation leaves the
// controller in ValidateMode with motion blocked, mirroring a blank or
// corrupt store: it answers config commands but refuses motion.
func NewController(st ConfigStore, gpio GPIODriver, pins [NumAxes]AxisPins, jog [NumAxes]JogPins, timers [NumAxes]StepTimer) (*Controller, error) {
	c := &Controller{
		store:  st,
		gpio:   gpio,
		pins:   pins,
		jog:    jog,
		timers: timers,
	}

	cfg, err := st.Load()
	if err != nil || cfg.Validate() != nil {
		c.progMode = ValidateMode
	}
	c.cfg = cfg

	for axis := Axis(0); axis < NumAxes; axis++ {
		a := &c.axes[axis]
		a.position = HomePosition
		a.stopped = true
		a.dir = DirForward
		a.stepDir = 1
		ax := axis
		c.timers[axis].SetCallback(func() { c.HandleTick(ax) })
	}

	c.applyConfig()
	c.initPins()
	return c, err
}

// applyConfig recomputes everything derived from the persisted
// configuration: rate and deceleration tables, ramp floor speeds, the
// microstep mode mapping and jog override rates. Foreground only.
func (c *Controller) applyConfig() {
	c.canHighSpeed = c.cfg.CanHighSpeed()
	c.defaultFast = c.cfg.Microsteps < 8
	c.modes = buildModeMap(c.cfg.Microsteps, c.cfg.DriverClass)

	for axis := Axis(0); axis < NumAxes; axis++ {
		ac := &c.cfg.Axes[axis]
		c.rateTables[axis] = BuildRateTable(ac.BVal)
		c.decelSteps[axis] = ac.AccelTable.DecelSteps(ac.GotoSpeed)
		c.axes[axis].minSpeed = ac.AccelTable[0].Speed
	}
	c.configureST4Speeds(st4Guide)
}

// initPins drives every output to its safe initial state and releases
// the motor drivers from reset.
func (c *Controller) initPins() {
	for axis := Axis(0); axis < NumAxes; axis++ {
		p := &c.pins[axis]
		c.gpio.ConfigureOutput(p.Step)
		c.gpio.SetPin(p.Step, false)
		c.gpio.ConfigureOutput(p.Dir)
		c.gpio.SetPin(p.Dir, false)
		c.gpio.ConfigureOutput(p.Enable)
		c.gpio.SetPin(p.Enable, true) // disabled
		c.gpio.ConfigureOutput(p.Reset)
		c.gpio.SetPin(p.Reset, false)

		j := &c.jog[axis]
		c.gpio.ConfigureInput(j.Plus, true)
		c.gpio.ConfigureInput(j.Minus, true)
	}

	pattern := c.modes.normal
	if c.defaultFast {
		pattern = c.modes.fast
	}
	for axis := Axis(0); axis < NumAxes; axis++ {
		c.applyModePattern(axis, pattern)
		c.gpio.SetPin(c.pins[axis].Reset, true) // out of reset
	}
}

func (c *Controller) applyModePattern(axis Axis, p modePattern) {
	for i, pin := range c.pins[axis].Mode {
		if pin == NoPin {
			continue
		}
		if p.float[i] {
			c.gpio.ConfigureInput(pin, false)
			continue
		}
		c.gpio.ConfigureOutput(pin)
		c.gpio.SetPin(pin, p.level[i])
	}
}

// MotorEnable energises the driver for one axis.
func (c *Controller) MotorEnable(axis Axis) {
	c.gpio.SetPin(c.pins[axis].Enable, false)
	c.axes[axis].enabled = true
}

// MotorDisable removes driver power. The axis keeps its position.
func (c *Controller) MotorDisable(axis Axis) {
	c.gpio.SetPin(c.pins[axis].Enable, true)
	c.axes[axis].enabled = false
}

// Position returns the absolute encoder value for the axis, read
// under the axis critical section so a step committed mid-read can
// never produce a torn value.
func (c *Controller) Position(axis Axis) uint32 {
	t := c.timers[axis]
	t.MaskIRQ()
	p := c.axes[axis].position
	t.UnmaskIRQ()
	return p & PositionMask
}

// SetPosition overwrites the encoder value (host sync). Written under
// the axis critical section in case the motor is running.
func (c *Controller) SetPosition(axis Axis, pos uint32) {
	t := c.timers[axis]
	t.MaskIRQ()
	c.axes[axis].position = pos & PositionMask
	t.UnmaskIRQ()
}

// Status returns the packed axis status flags.
func (c *Controller) Status(axis Axis) uint32 {
	return c.axes[axis].statusWord()
}

// Stopped reports whether the axis is quiescent.
func (c *Controller) Stopped(axis Axis) bool {
	return c.axes[axis].stopped
}

// slewMode begins or retargets a continuous move at the commanded
// speed.
func (c *Controller) slewMode(axis Axis) {
	c.motorStart(axis)
}

// gotoMode arms an automated move of the commanded relative distance:
// computes the deceleration marker position and starts the motor at
// the goto cruise speed. Deceleration never begins before the midpoint
// of the move, so the cruise phase has at least zero length and the
// axis cannot run past the destination.
func (c *Controller) gotoMode(axis Axis) {
	a := &c.axes[axis]
	ac := &c.cfg.Axes[axis]

	decel := uint32(c.decelSteps[axis])
	if a.highSpeed {
		// Stretch the profile for the coarser microstepping, keeping
		// the same physical deceleration shape.
		decel *= highSpeedDecelScale
	}

	mag := a.stepMagnitude()
	if a.gotoDist < 2*mag {
		a.gotoDist = 2 * mag
	}
	decel *= mag

	dist := a.gotoDist
	half := dist >> 1
	if mag == 8 {
		// Steps land on multiples of 8: clear the low bits so the
		// marker comparison cannot be stepped over.
		dist &^= 7
		half &^= 7
	}
	if half < decel {
		decel = half
	}
	dist -= decel

	if a.dir == DirReverse {
		a.gotoTarget = a.position - dist
	} else {
		a.gotoTarget = a.position + dist
	}

	a.commandSpeed = ac.GotoSpeed
	a.gotoDecel = false
	a.gotoRunning = true
	c.motorStart(axis)
}

// motorStart commits the commanded speed and direction to the axis
// and, if it was stopped, boots the step generator. Callable while
// running to retarget a slew; the tick handler then walks the ramp to
// the new speed.
func (c *Controller) motorStart(axis Axis) {
	a := &c.axes[axis]
	t := c.timers[axis]

	t.MaskIRQ()
	current := a.currentSpeed
	t.UnmaskIRQ()

	commanded := a.commandSpeed
	stopping := commanded
	if stopping < a.minSpeed {
		stopping = a.minSpeed
	}

	var start uint16
	switch {
	case a.stopped:
		start = stopping
	case current < a.minSpeed:
		start = current
	default:
		start = stopping
	}

	t.MaskIRQ()
	a.targetSpeed = commanded
	a.currentSpeed = start
	a.stopSpeed = stopping
	c.gpio.SetPin(c.pins[axis].Dir, c.cfg.Axes[axis].Reverse != (a.dir == DirReverse))

	if a.stopped {
		a.irqCountdown = 1
		a.accelRepeatsLeft = c.cfg.Axes[axis].AccelTable[0].Repeats
		a.accelIndex = 0
		a.distSegment = 0
		t.ZeroCount()
		t.SetReload(c.rateTables[axis][0])
		t.EnableClock()
		a.stopped = false
		c.events.record(EvtMotorStart, axis, uint32(start))
	}
	t.UnmaskIRQ()
}

// MotorStop halts the axis. Emergency stops are immediate and
// unconditional: the timer is disabled before state is touched, so no
// quiescence handshake is needed. Graceful stops raise the target
// interval past the stop threshold and let the tick handler decelerate
// to a halt over the ramp.
func (c *Controller) MotorStop(axis Axis, emergency bool) {
	a := &c.axes[axis]
	t := c.timers[axis]

	if emergency {
		t.DisableClock()
		a.gotoEn = false
		a.gotoRunning = false
		a.stopped = true
		a.mode = 0
		a.arm = armIdle
		c.events.record(EvtEmergencyStop, axis, 0)
		return
	}

	if a.stopped {
		return
	}
	a.gotoEn = false
	a.gotoRunning = false
	a.mode = 0
	t.MaskIRQ()
	if a.targetSpeed < a.minSpeed {
		if a.stopSpeed > a.minSpeed {
			a.stopSpeed = a.minSpeed
		}
	}
	a.targetSpeed = a.stopSpeed + 1
	t.UnmaskIRQ()
	c.events.record(EvtStopRequest, axis, 0)
}

// Poll is the foreground arming step: a deferred move starts once its
// axis has come to rest. Speed-regime selection and the step magnitude
// are decided here, while the axis is quiescent and foreground writes
// are permitted.
func (c *Controller) Poll() {
	for axis := Axis(0); axis < NumAxes; axis++ {
		a := &c.axes[axis]
		if a.arm != armPending || !a.stopped {
			continue
		}

		if c.canHighSpeed {
			if a.mode == 1 || a.mode == 2 {
				c.applyModePattern(axis, c.modes.normal)
				a.setStepDir(1)
				a.highSpeed = false
			} else {
				c.applyModePattern(axis, c.modes.fast)
				a.setStepDir(c.cfg.Axes[axis].GVal)
				a.highSpeed = true
			}
		} else {
			a.setStepDir(1)
			a.highSpeed = false
		}

		if a.mode&1 != 0 {
			c.slewMode(axis)
			a.arm = armRunning
		} else {
			c.gotoMode(axis)
			a.arm = armIdle
		}
	}
}

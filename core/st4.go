package core

// Manual jog (ST4 guide port) handling. The edge interrupt samples the
// two active-low inputs per axis and maps them through a small
// decision table to an immediate speed/direction override. Overrides
// are refused while either axis runs a goto.

// ST4 speed profiles. Guide rates are offsets around sidereal so a
// pulse nudges the tracking; the high-speed profile is used by the
// basic hand controller for coarse pointing.
type st4Profile uint8

const (
	st4Guide st4Profile = 0
	st4Fast  st4Profile = 1
)

// st4Speeds holds the precomputed override intervals. Computed in the
// foreground whenever the sidereal configuration changes; the edge
// handler only reads them.
type st4Speeds struct {
	raPlus   uint16 // RA speed-up rate (1.25x sidereal)
	raMinus  uint16 // RA slow/reverse rate (0.75x sidereal)
	dec      uint16 // Dec nudge rate (0.25x sidereal)
	sidereal uint16 // RA revert rate
}

// configureST4Speeds derives the override intervals from the sidereal
// intervals. Speeds are intervals: a 1.25x speed is the sidereal
// interval scaled by 4/5.
func (c *Controller) configureST4Speeds(p st4Profile) {
	ra := uint32(c.cfg.Axes[RA].SiderealInterval)
	dec := uint32(c.cfg.Axes[Dec].SiderealInterval)

	switch p {
	case st4Fast:
		// Basic hand controller fast mode: 8x sidereal both axes.
		c.st4 = st4Speeds{
			raPlus:   clampSpeed16(ra / 8),
			raMinus:  clampSpeed16(ra / 8),
			dec:      clampSpeed16(dec / 8),
			sidereal: uint16(ra),
		}
	default:
		c.st4 = st4Speeds{
			raPlus:   clampSpeed16(ra * 4 / 5),
			raMinus:  clampSpeed16(ra * 4 / 3),
			dec:      clampSpeed16(dec * 4),
			sidereal: uint16(ra),
		}
	}
}

func clampSpeed16(v uint32) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	if v == 0 {
		return 1
	}
	return uint16(v)
}

// jogDecision is the pure outcome of the decision table for one axis.
type jogDecision struct {
	speed    uint16
	dir      Direction
	override bool // engage/retarget the motor
	release  bool // no input: axis-specific revert behaviour
}

// decideJogRA maps the RA pin states to an override. Precondition: if
// the axis is travelling in reverse under a previous command and
// reverse jogging is not allowed, the inputs are ignored and the rate
// reverts to sidereal.
func decideJogRA(plus, minus, movingReverse, allowReverse bool, sp st4Speeds) jogDecision {
	if movingReverse && !allowReverse {
		return jogDecision{speed: sp.sidereal, dir: DirForward, release: true}
	}
	switch {
	case minus:
		if allowReverse {
			return jogDecision{speed: sp.raMinus, dir: DirReverse, override: true}
		}
		return jogDecision{speed: sp.raMinus, dir: DirForward, override: true}
	case plus:
		return jogDecision{speed: sp.raPlus, dir: DirForward, override: true}
	default:
		return jogDecision{speed: sp.sidereal, dir: DirForward, release: true}
	}
}

// decideJogDec maps the Dec pin states to an override. Releasing both
// pins decelerates the axis to a stop.
func decideJogDec(plus, minus bool, sp st4Speeds) jogDecision {
	switch {
	case minus:
		return jogDecision{speed: sp.dec, dir: DirReverse, override: true}
	case plus:
		return jogDecision{speed: sp.dec, dir: DirForward, override: true}
	default:
		return jogDecision{release: true}
	}
}

// JogEdge is the pin-change interrupt entry point: it samples the four
// jog inputs (active low) and applies the decision table. Ignored
// entirely while a goto is armed or running on either axis.
func (c *Controller) JogEdge() {
	if c.axes[RA].gotoEn || c.axes[Dec].gotoEn {
		return
	}

	raPlus := !c.gpio.GetPin(c.jog[RA].Plus)
	raMinus := !c.gpio.GetPin(c.jog[RA].Minus)

	ra := &c.axes[RA]
	movingReverse := !ra.stopped && ra.dir == DirReverse
	d := decideJogRA(raPlus, raMinus, movingReverse, c.cfg.ST4Reverse, c.st4)
	c.applyJogRA(d)

	decPlus := !c.gpio.GetPin(c.jog[Dec].Plus)
	decMinus := !c.gpio.GetPin(c.jog[Dec].Minus)
	c.applyJogDec(decideJogDec(decPlus, decMinus, c.st4))
}

func (c *Controller) applyJogRA(d jogDecision) {
	a := &c.axes[RA]
	a.commandSpeed = d.speed
	a.targetSpeed = d.speed
	// With reverse jogging enabled the motor restarts on every
	// override, so a direction flip takes effect mid-motion instead of
	// only adjusting the rate.
	if (a.stopped || c.cfg.ST4Reverse) && d.override {
		a.dir = d.dir
		a.setStepDir(1)
		a.mode = 1 // slew
		c.motorStart(RA)
		c.events.record(EvtJogOverride, RA, uint32(d.speed))
	} else if a.stopSpeed < a.targetSpeed {
		// Keep tracking alive: never let a jog rate trip the stop
		// threshold.
		a.stopSpeed = a.targetSpeed
	}
}

func (c *Controller) applyJogDec(d jogDecision) {
	a := &c.axes[Dec]
	if d.release {
		// Decelerate to a stop.
		a.targetSpeed = a.stopSpeed + 1
		a.commandSpeed = a.targetSpeed
		return
	}
	a.dir = d.dir
	a.setStepDir(1)
	a.commandSpeed = d.speed
	a.targetSpeed = d.speed
	a.mode = 1
	c.motorStart(Dec)
	c.events.record(EvtJogOverride, Dec, uint32(d.speed))
}

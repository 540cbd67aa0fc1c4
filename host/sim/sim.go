// Package sim provides a software rendition of the controller's
// hardware: per-axis compare timers driven tick-by-tick from a single
// clock, and a pin map standing in for GPIO. It exists so the motion
// engine can run, and be observed, off-target.
package sim

import "eqmount/core"

// Timer implements core.StepTimer with compare-match semantics: the
// counter runs up to the reload value, fires the callback, and wraps.
// A match that lands while the interrupt is masked stays pending and
// delivers on unmask, the way the hardware flag register behaves.
type Timer struct {
	cb      func()
	top     uint32
	count   uint32
	running bool
	masked  bool
	pending bool

	// Fires counts delivered callbacks, for tests.
	Fires uint64
}

func (t *Timer) SetCallback(fn func()) { t.cb = fn }

func (t *Timer) EnableClock() {
	t.running = true
	t.masked = false
}

func (t *Timer) DisableClock() {
	t.running = false
	t.pending = false
}

func (t *Timer) MaskIRQ() { t.masked = true }

func (t *Timer) UnmaskIRQ() {
	t.masked = false
	if t.pending {
		t.pending = false
		t.fire()
	}
}

func (t *Timer) SetReload(ticks uint16) { t.top = uint32(ticks) }

func (t *Timer) ZeroCount() { t.count = 0 }

// Running reports whether the counter clock is enabled.
func (t *Timer) Running() bool { return t.running }

func (t *Timer) fire() {
	t.Fires++
	if t.cb != nil {
		t.cb()
	}
}

// advance moves the counter forward one tick, firing on compare
// match.
func (t *Timer) advance() {
	if !t.running {
		return
	}
	t.count++
	if t.top != 0 && t.count >= t.top {
		t.count = 0
		if t.masked {
			t.pending = true
			return
		}
		t.fire()
	}
}

// Clock owns both axis timers and advances them in lockstep.
type Clock struct {
	Timers [core.NumAxes]*Timer
}

// NewClock returns a clock with both axis timers allocated.
func NewClock() *Clock {
	return &Clock{Timers: [core.NumAxes]*Timer{{}, {}}}
}

// StepTimers returns the timer pair in the shape the controller
// constructor wants.
func (c *Clock) StepTimers() [core.NumAxes]core.StepTimer {
	return [core.NumAxes]core.StepTimer{c.Timers[core.RA], c.Timers[core.Dec]}
}

// Run advances the clock by n ticks.
func (c *Clock) Run(n int) {
	for i := 0; i < n; i++ {
		for _, t := range c.Timers {
			t.advance()
		}
	}
}

// RunUntilStopped ticks until the axis reports stopped or the budget
// runs out, returning the ticks consumed.
func (c *Clock) RunUntilStopped(ctl *core.Controller, axis core.Axis, budget int) int {
	for i := 0; i < budget; i++ {
		if ctl.Stopped(axis) {
			return i
		}
		c.Run(1)
	}
	return budget
}

// GPIO is a map-backed pin driver for simulation and tests.
type GPIO struct {
	Pins   map[core.GPIOPin]bool
	Inputs map[core.GPIOPin]bool // pins configured as inputs
}

// NewGPIO returns an empty pin map. Unconfigured input reads float
// high, matching the pull-ups on the jog port.
func NewGPIO() *GPIO {
	return &GPIO{
		Pins:   make(map[core.GPIOPin]bool),
		Inputs: make(map[core.GPIOPin]bool),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	delete(g.Inputs, pin)
	return nil
}

func (g *GPIO) ConfigureInput(pin core.GPIOPin, pullUp bool) error {
	g.Inputs[pin] = true
	g.Pins[pin] = pullUp
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) {
	g.Pins[pin] = value
}

func (g *GPIO) GetPin(pin core.GPIOPin) bool {
	return g.Pins[pin]
}

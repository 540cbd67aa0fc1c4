//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"eqmount/core"
)

// The two step interrupt sources are PWM slices used purely as
// counters: the slice counts at core.TimerBase (8 MHz) and raises a
// wrap interrupt every reload counts. No pin is bound to the slice, so
// the step pads stay free for GPIO/PIO.
const (
	pwmBase      = 0x40050000
	pwmSliceSize = 0x14

	pwmCSR = 0x00
	pwmDIV = 0x04
	pwmCTR = 0x08
	pwmTOP = 0x10

	pwmINTR = 0xA4
	pwmINTE = 0xA8
	pwmINTS = 0xB0

	// RP2040 atomic register aliases
	atomicSet = 0x2000
	atomicClr = 0x3000

	// 125 MHz / (15 + 10/16) = 8 MHz
	pwmDivInt  = 15
	pwmDivFrac = 10
)

func pwmReg(offset uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(pwmBase) + offset))
}

func sliceReg(slice uint8, offset uintptr) *volatile.Register32 {
	return pwmReg(uintptr(slice)*pwmSliceSize + offset)
}

// stepTimer implements core.StepTimer on one PWM slice.
type stepTimer struct {
	slice    uint8
	callback func()
}

var stepTimers [core.NumAxes]*stepTimer

// initStepTimers claims PWM slices 0 and 1 for the two axes and
// installs the shared wrap interrupt.
func initStepTimers() [core.NumAxes]core.StepTimer {
	var out [core.NumAxes]core.StepTimer
	for i := range stepTimers {
		t := &stepTimer{slice: uint8(i)}
		sliceReg(t.slice, pwmDIV).Set(pwmDivInt<<4 | pwmDivFrac)
		sliceReg(t.slice, pwmTOP).Set(0xFFFF)
		stepTimers[i] = t
		out[i] = t
	}
	intr := interrupt.New(rp.IRQ_PWM_IRQ_WRAP, pwmWrapHandler)
	intr.Enable()
	return out
}

func pwmWrapHandler(interrupt.Interrupt) {
	status := pwmReg(pwmINTS).Get()
	for _, t := range stepTimers {
		bit := uint32(1) << t.slice
		if status&bit == 0 {
			continue
		}
		pwmReg(pwmINTR).Set(bit) // write 1 to clear
		if t.callback != nil {
			t.callback()
		}
	}
}

func (t *stepTimer) SetCallback(fn func()) { t.callback = fn }

func (t *stepTimer) EnableClock() {
	sliceReg(t.slice, pwmCTR).Set(0)
	pwmReg(atomicSet + pwmINTE).Set(1 << t.slice)
	sliceReg(t.slice, atomicSet+pwmCSR).Set(1) // CSR.EN
}

func (t *stepTimer) DisableClock() {
	sliceReg(t.slice, atomicClr+pwmCSR).Set(1)
	pwmReg(atomicClr + pwmINTE).Set(1 << t.slice)
	pwmReg(pwmINTR).Set(1 << t.slice) // drop any pending wrap
}

// MaskIRQ gates delivery without stopping the counter. A wrap that
// lands while masked stays latched in INTR and fires on UnmaskIRQ.
func (t *stepTimer) MaskIRQ() {
	pwmReg(atomicClr + pwmINTE).Set(1 << t.slice)
}

func (t *stepTimer) UnmaskIRQ() {
	pwmReg(atomicSet + pwmINTE).Set(1 << t.slice)
}

func (t *stepTimer) SetReload(reload uint16) {
	top := uint32(reload)
	if top > 0 {
		top--
	}
	sliceReg(t.slice, pwmTOP).Set(top)
}

func (t *stepTimer) ZeroCount() {
	sliceReg(t.slice, pwmCTR).Set(0)
}

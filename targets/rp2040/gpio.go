//go:build rp2040

package main

import (
	"machine"

	"eqmount/core"
	"eqmount/targets/pio"
)

// rpGPIO implements core.GPIODriver on the RP2040. Step pins may be
// handed to a PIO pulser, in which case a rising edge on that pin is
// translated into a hardware-timed pulse instead of a plain level
// write.
type rpGPIO struct {
	configured map[core.GPIOPin]machine.Pin
	pulsers    map[core.GPIOPin]*pio.Pulser
}

func newRPGPIO() *rpGPIO {
	return &rpGPIO{
		configured: make(map[core.GPIOPin]machine.Pin),
		pulsers:    make(map[core.GPIOPin]*pio.Pulser),
	}
}

// AttachPulser routes future rising edges on pin to a PIO state
// machine. Must be called before the controller configures its pins.
func (d *rpGPIO) AttachPulser(pin core.GPIOPin, p *pio.Pulser) error {
	if err := p.Init(machine.Pin(pin)); err != nil {
		return err
	}
	d.pulsers[pin] = p
	return nil
}

func (d *rpGPIO) ConfigureOutput(pin core.GPIOPin) error {
	if pin == core.NoPin {
		return nil
	}
	if _, ok := d.pulsers[pin]; ok {
		// The PIO state machine owns the pad.
		return nil
	}
	mp := machine.Pin(pin)
	mp.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configured[pin] = mp
	return nil
}

func (d *rpGPIO) ConfigureInput(pin core.GPIOPin, pullUp bool) error {
	if pin == core.NoPin {
		return nil
	}
	mp := machine.Pin(pin)
	mode := machine.PinInput
	if pullUp {
		mode = machine.PinInputPullup
	}
	mp.Configure(machine.PinConfig{Mode: mode})
	d.configured[pin] = mp
	return nil
}

func (d *rpGPIO) SetPin(pin core.GPIOPin, value bool) {
	if pin == core.NoPin {
		return
	}
	if p, ok := d.pulsers[pin]; ok {
		if value {
			p.Trigger()
		}
		return
	}
	if mp, ok := d.configured[pin]; ok {
		mp.Set(value)
	}
}

func (d *rpGPIO) GetPin(pin core.GPIOPin) bool {
	if pin == core.NoPin {
		return false
	}
	if mp, ok := d.configured[pin]; ok {
		return mp.Get()
	}
	return false
}

//go:build rp2040

// Package pio generates step pulses on a PIO state machine, so the
// pulse width on the driver's STEP input is fixed in hardware instead
// of depending on the gap between two timer interrupts.
package pio

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// PIO program. Each FIFO word produces one fixed-width step pulse:
//
//  1. Pull a word (value ignored, the pull is the trigger)
//  2. Drive the step pin high for 8 cycles
//  3. Drive it low and wait for the next word
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 1: set pins, 1 [7]
		asm.Set(rp2pio.SetDestPins, 0).Encode(),          // 2: set pins, 0
		// .wrap
	}
}

const pulseProgramOrigin = 0

// Program offset per PIO block, -1 until loaded. The program is loaded
// once per block; additional state machines reuse the same instruction
// memory.
var loadedOffset = [2]int16{-1, -1}

// Pulser owns one state machine driving one step pin.
type Pulser struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	pioNum uint8
	offset uint8
}

// NewPulser claims a state machine on the given PIO block.
func NewPulser(pioNum, smNum uint8) *Pulser {
	hw := rp2pio.PIO0
	if pioNum != 0 {
		hw = rp2pio.PIO1
	}
	return &Pulser{pio: hw, sm: hw.StateMachine(smNum), pioNum: pioNum % 2}
}

// Init loads the pulse program and binds it to the step pin.
func (p *Pulser) Init(stepPin machine.Pin) error {
	p.pin = stepPin
	p.sm.TryClaim()

	program := buildPulseProgram()
	if loadedOffset[p.pioNum] < 0 {
		offset, err := p.pio.AddProgram(program, pulseProgramOrigin)
		if err != nil {
			return err
		}
		loadedOffset[p.pioNum] = int16(offset)
	}
	p.offset = uint8(loadedOffset[p.pioNum])

	p.pin.Configure(machine.PinConfig{Mode: p.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(p.pin, 1)
	cfg.SetWrap(p.offset+uint8(len(program))-1, p.offset)
	// Full system clock. The 8-cycle pulse is ~64ns at 125MHz, wide
	// enough for every driver the controller supports.
	cfg.SetClkDivIntFrac(1, 0)

	p.sm.Init(p.offset, cfg)
	p.sm.SetPindirsConsecutive(p.pin, 1, true)
	p.sm.SetPinsConsecutive(p.pin, 1, false)
	p.sm.SetEnabled(true)
	return nil
}

// Trigger queues one step pulse. Never blocks from interrupt context:
// if the FIFO is full the pulse is dropped, which can only happen if
// pulses are requested faster than the program drains them.
func (p *Pulser) Trigger() {
	if p.sm.IsTxFIFOFull() {
		return
	}
	p.sm.TxPut(1)
}

// Stop halts and restarts the state machine, discarding queued pulses.
func (p *Pulser) Stop() {
	p.sm.SetEnabled(false)
	p.sm.ClearFIFOs()
	p.sm.Restart()
	p.sm.SetEnabled(true)
}

//go:build rp2040

package main

import (
	"machine"
	"runtime/volatile"
	"time"

	"eqmount/core"
	"eqmount/protocol"
	"eqmount/targets/pio"
)

// Board pin map.
var axisPins = [core.NumAxes]core.AxisPins{
	{Step: 2, Dir: 3, Enable: 4, Reset: 5, Mode: [3]core.GPIOPin{6, 7, 8}},
	{Step: 10, Dir: 11, Enable: 12, Reset: 13, Mode: [3]core.GPIOPin{14, 15, 16}},
}

var jogPins = [core.NumAxes]core.JogPins{
	{Plus: 18, Minus: 19},
	{Plus: 20, Minus: 21},
}

var (
	ctl *core.Controller

	// Set from the ST4 pin-change interrupts, serviced in the main
	// loop so jog handling never preempts a command in progress.
	jogEdgePending volatile.Register8

	rxFrame   [16]byte
	rxLen     int
	rxInFrame bool
)

func main() {
	// Clear any watchdog state carried across a reset.
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	gpio := newRPGPIO()
	for i := range axisPins {
		gpio.AttachPulser(axisPins[i].Step, pio.NewPulser(0, uint8(i)))
	}

	timers := initStepTimers()

	// A blank or corrupt flash image is not fatal: the controller
	// comes up in validate mode and waits for the config utility.
	ctl, _ = core.NewController(flashStore{}, gpio, axisPins, jogPins, timers)

	for i := range jogPins {
		watchJogPin(jogPins[i].Plus)
		watchJogPin(jogPins[i].Minus)
	}

	rtc := initRTC()
	banner(rtc.Now())

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()

	for {
		pumpSerial()

		if jogEdgePending.Get() != 0 {
			jogEdgePending.Set(0)
			ctl.JogEdge()
		}

		ctl.Poll()
		time.Sleep(100 * time.Microsecond)
	}
}

func watchJogPin(p core.GPIOPin) {
	machine.Pin(p).SetInterrupt(machine.PinToggle, func(machine.Pin) {
		jogEdgePending.Set(1)
	})
}

// pumpSerial drains the USB CDC receive buffer, assembling
// ":<cmd><axis><payload>\r" frames and dispatching each one.
func pumpSerial() {
	for machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return
		}

		switch {
		case b == protocol.CmdLeader:
			rxInFrame = true
			rxLen = 0
		case !rxInFrame:
			// Noise between frames.
		case b == protocol.Terminator:
			rxInFrame = false
			reply := handleFrame(rxFrame[:rxLen])
			machine.Serial.Write([]byte(reply))
		default:
			if rxLen < len(rxFrame) {
				rxFrame[rxLen] = b
				rxLen++
			} else {
				// Oversized frame: drop it.
				rxInFrame = false
			}
		}
	}
}

func handleFrame(frame []byte) string {
	if len(frame) < 2 {
		return protocol.AssembleError(protocol.ErrCodeBadPayload)
	}
	axisByte := frame[1]
	if axisByte != '1' && axisByte != '2' {
		return protocol.AssembleError(protocol.ErrCodeBadValue)
	}

	resp, reset := ctl.Dispatch(frame[0], core.Axis(axisByte-'1'), string(frame[2:]))
	if reset {
		machine.Serial.Write([]byte(resp))
		rebootViaWatchdog()
	}
	return resp
}

// rebootViaWatchdog restarts the chip through the watchdog, which also
// re-enumerates USB cleanly.
func rebootViaWatchdog() {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 1}); err != nil {
		return
	}
	if err := machine.Watchdog.Start(); err != nil {
		return
	}
	for {
		time.Sleep(time.Millisecond)
	}
}

// banner reports the controller version and RTC time once at boot,
// before any protocol traffic. Hosts ignore bytes outside frames.
func banner(now time.Time) {
	msg := "# eqmount v" + itoa(int(protocol.Version))
	if !now.IsZero() {
		msg += " rtc " + now.Format(time.RFC3339)
	}
	machine.Serial.Write([]byte(msg + "\r\n"))
}

// itoa avoids strconv in the firmware image.
func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [12]byte
	pos := len(buf)
	for v > 0 {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[pos:])
}

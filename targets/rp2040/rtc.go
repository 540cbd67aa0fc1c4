//go:build rp2040

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ds3231"
)

// Optional DS3231 real-time clock on I2C0. Hand controllers ask the
// mount for wall-clock time when syncing, and a battery-backed RTC
// keeps that answer meaningful across power cycles.
type mountClock struct {
	dev ds3231.Device
	ok  bool
}

func initRTC() *mountClock {
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
		Frequency: 400 * machine.KHz,
	})
	if err != nil {
		return &mountClock{}
	}

	c := &mountClock{dev: ds3231.New(machine.I2C0)}
	c.dev.Configure()
	c.ok = c.dev.IsRunning()
	return c
}

// Now returns RTC time, or the zero time when no RTC is fitted.
func (c *mountClock) Now() time.Time {
	if !c.ok {
		return time.Time{}
	}
	t, err := c.dev.ReadTime()
	if err != nil {
		return time.Time{}
	}
	return t
}

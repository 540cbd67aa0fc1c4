package core

import (
	"errors"
	"testing"
)

func TestMountConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MountConfig)
		want   error
	}{
		{"valid", func(*MountConfig) {}, nil},
		{"unknown driver", func(c *MountConfig) { c.DriverClass = DriverDRV8834 + 1 }, ErrDriverClass},
		{"a498x limited to 16", func(c *MountConfig) { c.DriverClass = DriverA498x; c.Microsteps = 32 }, ErrMicrosteps},
		{"microsteps above 32", func(c *MountConfig) { c.Microsteps = 64 }, ErrMicrosteps},
		{"sidereal zero", func(c *MountConfig) { c.Axes[RA].SiderealInterval = 0 }, ErrSiderealInterval},
		{"sidereal below floor", func(c *MountConfig) { c.Axes[Dec].SiderealInterval = MinSiderealInterval - 1 }, ErrSiderealInterval},
		{"sidereal above ceiling", func(c *MountConfig) { c.Axes[RA].SiderealInterval = MaxSiderealInterval + 1 }, ErrSiderealInterval},
		{"goto speed zero", func(c *MountConfig) { c.Axes[Dec].GotoSpeed = 0 }, ErrGotoSpeed},
		{"ramp out of order", func(c *MountConfig) { c.Axes[RA].AccelTable[1].Speed = 2000 }, ErrAccelOrder},
	}

	for _, tt := range tests {
		cfg := testConfig()
		tt.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: Validate = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestCanHighSpeed(t *testing.T) {
	cfg := testConfig()

	cfg.Microsteps = 16
	cfg.GearChangeEnable = true
	if !cfg.CanHighSpeed() {
		t.Error("16 microsteps with gear change enabled should allow high speed")
	}

	cfg.GearChangeEnable = false
	if cfg.CanHighSpeed() {
		t.Error("gear change disabled should block high speed")
	}

	// The gear change divides microstepping by 8; finer than 1/8 is
	// required to begin with.
	cfg.GearChangeEnable = true
	cfg.Microsteps = 4
	if cfg.CanHighSpeed() {
		t.Error("4 microsteps cannot gear change")
	}
}

func TestBuildModeMap(t *testing.T) {
	// DRV882x at 1/16: M0 high selects sixteenth, fast regime is half
	// stepping on M2.
	m := buildModeMap(16, DriverDRV882x)
	if m.normal.level != [3]bool{true, false, false} {
		t.Errorf("drv882x normal pattern = %v", m.normal.level)
	}
	if m.fast.level != [3]bool{false, false, true} {
		t.Errorf("drv882x fast pattern = %v", m.fast.level)
	}

	// DRV8834 at 1/32 tri-states MODE2 in both regimes.
	m = buildModeMap(32, DriverDRV8834)
	if !m.normal.float[2] || !m.fast.float[2] {
		t.Errorf("drv8834 MODE2 should float: normal %v fast %v", m.normal.float, m.fast.float)
	}

	// Below 1/8 the table is looked up at 8x, so the fast pattern is
	// the pin state that actually produces the configured stepping.
	m = buildModeMap(4, DriverA498x)
	if m.fast.level != [3]bool{false, true, false} {
		t.Errorf("sub-8 fast pattern = %v, want quarter stepping", m.fast.level)
	}
}

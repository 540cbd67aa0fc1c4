package core

import "testing"

func rampTable(entries ...AccelEntry) AccelTable {
	var t AccelTable
	copy(t[:], entries)
	return t
}

func TestDecelStepsThreeRungRamp(t *testing.T) {
	table := rampTable(
		AccelEntry{Speed: 1000},
		AccelEntry{Speed: 500},
		AccelEntry{Speed: 200},
	)
	if got := table.DecelSteps(100); got != 3 {
		t.Errorf("DecelSteps(100) = %d, want 3", got)
	}
	// A target at an entry's exact speed stops the walk there.
	if got := table.DecelSteps(500); got != 1 {
		t.Errorf("DecelSteps(500) = %d, want 1", got)
	}
	if got := table.DecelSteps(1000); got != 0 {
		t.Errorf("DecelSteps(1000) = %d, want 0", got)
	}
}

func TestDecelStepsCountsRepeats(t *testing.T) {
	table := rampTable(
		AccelEntry{Speed: 1000, Repeats: 4},
		AccelEntry{Speed: 500, Repeats: 2},
		AccelEntry{Speed: 200, Repeats: 0},
	)
	// 5 + 3 + 1 steps before the ramp reaches 100.
	if got := table.DecelSteps(100); got != 9 {
		t.Errorf("DecelSteps(100) = %d, want 9", got)
	}
}

// TestAccelDecelSymmetry checks the symmetry law the goto planner
// relies on: the deceleration length for a target speed equals the
// number of steps a forward ramp walk takes to reach that speed.
func TestAccelDecelSymmetry(t *testing.T) {
	table := rampTable(
		AccelEntry{Speed: 1200, Repeats: 8},
		AccelEntry{Speed: 850, Repeats: 7},
		AccelEntry{Speed: 610, Repeats: 6},
		AccelEntry{Speed: 440, Repeats: 5},
		AccelEntry{Speed: 320, Repeats: 4},
		AccelEntry{Speed: 230, Repeats: 3},
		AccelEntry{Speed: 160, Repeats: 2},
		AccelEntry{Speed: 135, Repeats: 1},
	)
	if err := table.Validate(); err != nil {
		t.Fatalf("table invalid: %v", err)
	}

	for _, target := range []uint16{100, 135, 200, 440, 900, 1200} {
		var walked uint16
		for i := 0; i < AccelTableLength; i++ {
			if table[i].Speed <= target {
				break
			}
			walked += uint16(table[i].Repeats) + 1
		}
		if got := table.DecelSteps(target); got != walked {
			t.Errorf("target %d: DecelSteps %d, accel walk %d", target, got, walked)
		}
	}
}

func TestAccelTableValidate(t *testing.T) {
	bad := rampTable(
		AccelEntry{Speed: 500},
		AccelEntry{Speed: 1000},
	)
	if err := bad.Validate(); err != ErrAccelOrder {
		t.Errorf("Validate = %v, want ErrAccelOrder", err)
	}
}

func TestRepeatsReloadHighSpeed(t *testing.T) {
	table := rampTable(
		AccelEntry{Speed: 1000, Repeats: 4},
		AccelEntry{Speed: 500, Repeats: 0},
	)
	if got := table.repeatsReload(0, false); got != 4 {
		t.Errorf("normal reload = %d, want 4", got)
	}
	// High speed stretches repeats by 3 plus 2 extra steps.
	if got := table.repeatsReload(0, true); got != 14 {
		t.Errorf("high-speed reload = %d, want 14", got)
	}
	if got := table.repeatsReload(1, true); got != 2 {
		t.Errorf("high-speed reload of zero-repeat entry = %d, want 2", got)
	}
}

package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eqmount/core"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mount.json")
	st := NewFile(path)

	cfg := DefaultConfig()
	cfg.Axes[core.RA].SiderealInterval = 601
	if err := st.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Error("loaded configuration differs from saved")
	}
}

func TestFileMissing(t *testing.T) {
	st := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := st.Load(); err == nil {
		t.Error("loading a missing store succeeded")
	}
}

func TestFileForeignImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.json")
	if err := os.WriteFile(path, []byte(`{"id":"other","config":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path).Load(); !errors.Is(err, ErrIdentity) {
		t.Errorf("Load = %v, want ErrIdentity", err)
	}
}

func TestFileRebuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mount.json")
	st := NewFile(path)
	if err := st.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	// A rebuilt image is identified but holds a zero config, which
	// must fail validation so the controller blocks motion.
	cfg, err := st.Load()
	if err != nil {
		t.Fatalf("Load after Rebuild: %v", err)
	}
	if cfg.Validate() == nil {
		t.Error("zero configuration validated")
	}
}

func TestMemoryStore(t *testing.T) {
	st := NewMemory(DefaultConfig())
	cfg, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Axes[core.Dec].GotoSpeed = 200
	if err := st.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := st.Load()
	if got.Axes[core.Dec].GotoSpeed != 200 {
		t.Error("saved change not visible on reload")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
	if !cfg.CanHighSpeed() {
		t.Error("default configuration should support the gear change")
	}
	for axis := range cfg.Axes {
		if cfg.Axes[axis].AccelTable.DecelSteps(cfg.Axes[axis].GotoSpeed) == 0 {
			t.Errorf("axis %d: goto deceleration length is zero", axis)
		}
	}
}

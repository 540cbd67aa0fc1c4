// Package store persists the mount configuration: a typed load/save
// of the full configuration plus an identity marker that detects a
// blank or foreign image. On hardware targets the same interface is
// backed by on-chip flash.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"eqmount/core"
)

// Identity marks a store image as ours, the way the firmware tags its
// EEPROM. Load refuses images without it.
const Identity = "eqmount"

var ErrIdentity = errors.New("store image missing identity marker")

// image is the serialized form: the identity marker wrapping the
// configuration.
type image struct {
	ID     string           `json:"id"`
	Config core.MountConfig `json:"config"`
}

// File persists the configuration as JSON on the local filesystem.
type File struct {
	Path string
}

// NewFile returns a file-backed store at path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads and validates the store identity, returning the
// configuration. A missing file or bad identity is an error; the
// caller decides whether to block motion.
func (f *File) Load() (core.MountConfig, error) {
	var img image
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return img.Config, fmt.Errorf("read config store: %w", err)
	}
	if err := json.Unmarshal(data, &img); err != nil {
		return img.Config, fmt.Errorf("decode config store: %w", err)
	}
	if img.ID != Identity {
		return img.Config, ErrIdentity
	}
	return img.Config, nil
}

// Save writes the configuration with the identity marker.
func (f *File) Save(cfg core.MountConfig) error {
	data, err := json.MarshalIndent(image{ID: Identity, Config: cfg}, "", "\t")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("write config store: %w", err)
	}
	return nil
}

// Rebuild re-creates an empty identified image, the first step of
// reprogramming a blank store.
func (f *File) Rebuild() error {
	return f.Save(core.MountConfig{})
}

// Memory is an in-memory store for tests and the simulator.
type Memory struct {
	cfg    core.MountConfig
	loaded bool
}

// NewMemory returns a store pre-loaded with cfg.
func NewMemory(cfg core.MountConfig) *Memory {
	return &Memory{cfg: cfg, loaded: true}
}

func (m *Memory) Load() (core.MountConfig, error) {
	if !m.loaded {
		return core.MountConfig{}, ErrIdentity
	}
	return m.cfg, nil
}

func (m *Memory) Save(cfg core.MountConfig) error {
	m.cfg = cfg
	m.loaded = true
	return nil
}

func (m *Memory) Rebuild() error {
	m.cfg = core.MountConfig{}
	m.loaded = true
	return nil
}

//go:build rp2040

package main

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"machine"

	"eqmount/core"
)

// flashStore persists the mount configuration in the on-chip flash
// data area, replacing the EEPROM the controller historically used.
// Layout: 4-byte magic, 4-byte payload length, JSON payload.
type flashStore struct{}

var flashMagic = [4]byte{'E', 'Q', 'M', 'T'}

const flashHeaderLen = 8

var (
	errFlashBlank  = errors.New("flash: no stored configuration")
	errFlashMagic  = errors.New("flash: bad magic")
	errFlashLength = errors.New("flash: implausible payload length")
)

func (flashStore) Load() (core.MountConfig, error) {
	var cfg core.MountConfig

	var header [flashHeaderLen]byte
	if _, err := machine.Flash.ReadAt(header[:], 0); err != nil {
		return cfg, err
	}
	if [4]byte(header[:4]) != flashMagic {
		return cfg, errFlashMagic
	}
	n := binary.LittleEndian.Uint32(header[4:])
	if n == 0 {
		return cfg, errFlashBlank
	}
	if int64(n) > machine.Flash.Size()-flashHeaderLen {
		return cfg, errFlashLength
	}

	buf := make([]byte, n)
	if _, err := machine.Flash.ReadAt(buf, flashHeaderLen); err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (flashStore) Save(cfg core.MountConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return flashWrite(payload)
}

func (flashStore) Rebuild() error {
	return flashWrite(nil)
}

func flashWrite(payload []byte) error {
	blockSize := machine.Flash.EraseBlockSize()
	total := int64(flashHeaderLen + len(payload))
	blocks := (total + blockSize - 1) / blockSize
	if err := machine.Flash.EraseBlocks(0, blocks); err != nil {
		return err
	}

	buf := make([]byte, total)
	copy(buf, flashMagic[:])
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(payload)))
	copy(buf[flashHeaderLen:], payload)

	_, err := machine.Flash.WriteAt(buf, 0)
	return err
}

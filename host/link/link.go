// Package link is the host side of the mount command protocol: it
// frames single-letter commands over a serial port and parses the
// fixed-width hex responses. The controller core never sees framing;
// this package owns it.
package link

import (
	"bufio"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eqmount/host/serial"
	"eqmount/protocol"
)

// Axis selectors on the wire.
const (
	AxisRA  = '1'
	AxisDec = '2'
)

// Mount is a connection to a mount controller.
type Mount struct {
	port      serial.Port
	reader    *bufio.Reader
	log       *zap.Logger
	connected bool
}

// New creates a mount link (not yet connected).
func New(log *zap.Logger) *Mount {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mount{log: log}
}

// Connect opens the serial device at the default mount baud rate.
func (m *Mount) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a custom serial configuration.
func (m *Mount) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	m.port = port
	m.reader = bufio.NewReader(port)
	m.connected = true

	// Give the controller time to finish booting if it just powered on.
	time.Sleep(100 * time.Millisecond)

	m.log.Info("mount link connected", zap.String("device", cfg.Device), zap.Int("baud", cfg.Baud))
	return nil
}

// Close closes the link.
func (m *Mount) Close() error {
	m.connected = false
	if m.port != nil {
		return m.port.Close()
	}
	return nil
}

// Send issues one command frame and returns the response payload
// (without leader and terminator). An error-leader response comes back
// as an error carrying the controller's error code.
func (m *Mount) Send(cmd byte, axis byte, payload string) (string, error) {
	if !m.connected {
		return "", fmt.Errorf("not connected to mount")
	}

	frame := string(protocol.CmdLeader) + string(cmd) + string(axis) + payload + string(protocol.Terminator)
	if _, err := m.port.Write([]byte(frame)); err != nil {
		return "", fmt.Errorf("write command %q: %w", cmd, err)
	}

	resp, err := m.reader.ReadString(protocol.Terminator)
	if err != nil {
		return "", fmt.Errorf("read response to %q: %w", cmd, err)
	}
	m.log.Debug("mount exchange", zap.String("tx", frame), zap.String("rx", resp))

	if len(resp) < 2 {
		return "", fmt.Errorf("short response to %q: %q", cmd, resp)
	}
	body := resp[1 : len(resp)-1]
	switch resp[0] {
	case protocol.ReplyLeader:
		return body, nil
	case protocol.ErrorLeader:
		return "", fmt.Errorf("mount error response to %q: code %s", cmd, body)
	}
	return "", fmt.Errorf("malformed response to %q: %q", cmd, resp)
}

// Query sends a read command and decodes its fixed-width value.
func (m *Mount) Query(cmd byte, axis byte) (uint32, error) {
	body, err := m.Send(cmd, axis, "")
	if err != nil {
		return 0, err
	}
	w := protocol.ReplyWidth(cmd)
	if w == 0 {
		return 0, nil
	}
	return protocol.DecodeHex(body, w)
}

// Position reads the absolute encoder value of an axis.
func (m *Mount) Position(axis byte) (uint32, error) {
	return m.Query('j', axis)
}

// Status reads the packed axis status word.
func (m *Mount) Status(axis byte) (uint32, error) {
	return m.Query('f', axis)
}

// FirmwareVersion reads the controller version.
func (m *Mount) FirmwareVersion() (uint32, error) {
	return m.Query('e', AxisRA)
}

// Stop requests a graceful stop on an axis.
func (m *Mount) Stop(axis byte) error {
	_, err := m.Send('K', axis, "")
	return err
}

// EmergencyStop halts an axis immediately and removes driver power.
func (m *Mount) EmergencyStop(axis byte) error {
	_, err := m.Send('L', axis, "")
	return err
}

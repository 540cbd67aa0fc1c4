package core

// GPIOPin identifies a hardware GPIO pin number.
type GPIOPin uint32

// NoPin marks an unwired optional pin (mode pins on fixed-mode boards).
const NoPin GPIOPin = 0xFFFFFFFF

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output.
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInput configures a pin as a digital input. Pull-up is
	// requested for the jog inputs, which are active low.
	ConfigureInput(pin GPIOPin, pullUp bool) error

	// SetPin sets the pin high (true) or low (false).
	SetPin(pin GPIOPin, value bool)

	// GetPin reads the current pin state.
	GetPin(pin GPIOPin) bool
}

// AxisPins is the pin bundle driving one motor channel.
type AxisPins struct {
	Step   GPIOPin
	Dir    GPIOPin
	Enable GPIOPin // active low: low energises the driver
	Reset  GPIOPin
	Mode   [3]GPIOPin // microstep mode select, may be NoPin
}

// JogPins are the two active-low guide inputs for one axis.
type JogPins struct {
	Plus  GPIOPin
	Minus GPIOPin
}

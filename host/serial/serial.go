// Package serial connects the host console to a board's serial line.
// A Port is the blocking byte stream; Channels turns it into the
// non-blocking transmit and receive channels the core expects.
package serial

import (
	"io"
)

// Port is a blocking byte stream to the board console: a tarm/serial
// device from Open, or any other ReadWriteCloser such as a pty in tests
type Port interface {
	io.ReadWriteCloser

	// Flush discards input received before the console attached
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud must match the firmware console (115200 on the rp2040 target)
	Baud int

	// ReadTimeout in milliseconds bounds each Read so the Channels reader
	// can notice Close. 0 blocks until data arrives.
	ReadTimeout int
}

// DefaultConfig returns the configuration matching the firmware console
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}

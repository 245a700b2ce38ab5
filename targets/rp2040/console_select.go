//go:build rp2040

package main

import "machine"

// ConsoleConfig determines how the serial console is wired
type ConsoleConfig struct {
	// Baud rate for both directions
	Baud uint32

	// Set to true to transmit through a PIO state machine on TxPin
	// Set to false to transmit through the hardware UART
	PIOTx bool

	// TX pin used when PIOTx is set
	TxPin machine.Pin

	// Route core debug output to the console
	Debug bool
}

// GetConsoleConfig returns the console configuration
// This can be modified at compile time
func GetConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Baud:  115200,
		PIOTx: false,
		TxPin: machine.GPIO4,
		Debug: true,
	}
}

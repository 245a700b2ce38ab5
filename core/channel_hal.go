package core

import "context"

// Version is the bootserial firmware version
const Version = "0.1.0"

// TransmitChannel is the transmit half a hardware driver hands to the core.
// Platform-specific implementations wrap the UART transmit FIFO.
type TransmitChannel interface {
	// TrySend attempts to queue one byte for transmission without blocking.
	// Returns false if the hardware has no room right now; the caller retries.
	// A rejected byte must not reach the line.
	TrySend(b byte) bool
}

// ReceiveChannel is the receive half a hardware driver hands to the core.
type ReceiveChannel interface {
	// TryRecv returns the next received byte, or false if none is waiting.
	// Must not block.
	TryRecv() (byte, bool)
}

// Serial is the bidirectional device the registry holds.
type Serial interface {
	// GetChar polls the receiver once
	GetChar() (byte, bool)

	// PutChar blocks until the byte is accepted by the transmitter
	PutChar(b byte)

	// TryPutChar gives up after the given number of attempts
	TryPutChar(b byte, attempts int) bool

	// PutCharContext retries until accepted or ctx is done
	PutCharContext(ctx context.Context, b byte) error

	// Write and WriteString emit every byte in order through PutChar.
	// They never return an error.
	Write(p []byte) (int, error)
	WriteString(s string) (int, error)
}

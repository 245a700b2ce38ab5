package channel

import "tinygo.org/x/drivers"

// UART adapts a driver-style UART (machine.UART on TinyGo boards) to the
// channel contract. It can serve as both halves of a device.
//
// Receive never blocks. Transmit is only as non-blocking as the bus Write:
// TinyGo's machine.UART.Write on rp2040 waits for TX FIFO space inside the
// driver, so TrySend blocks there instead of returning false, and the
// device retry loop never sees a rejection. Use targets/pio.UARTTx for a
// transmitter that reports a full FIFO.
type UART struct {
	bus drivers.UART
	tx  [1]byte
	rx  [1]byte
}

// NewUART wraps bus. The bus must already be configured.
func NewUART(bus drivers.UART) *UART {
	return &UART{bus: bus}
}

// TrySend writes b and reports whether the bus took it. A write error is
// reported as "try again".
func (u *UART) TrySend(b byte) bool {
	u.tx[0] = b
	n, err := u.bus.Write(u.tx[:])
	return err == nil && n == 1
}

// TryRecv reads one byte if the bus has any buffered
func (u *UART) TryRecv() (byte, bool) {
	if u.bus.Buffered() == 0 {
		return 0, false
	}
	n, err := u.bus.Read(u.rx[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return u.rx[0], true
}

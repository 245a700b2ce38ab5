package core

import "context"

// stallThreshold is the retry count above which PutChar records a
// transmit stall in the event ring
const stallThreshold = 1 << 16

// Device pairs one transmit channel and one receive channel into a
// bidirectional serial device. The pairing is fixed at construction.
//
// Device is generic so board code that knows its channel types gets
// direct calls; the registry stores it through the Serial interface.
type Device[T TransmitChannel, R ReceiveChannel] struct {
	tx T
	rx R
}

// NewDevice takes ownership of tx and rx. Neither may be operated
// directly by anyone else afterwards.
func NewDevice[T TransmitChannel, R ReceiveChannel](tx T, rx R) *Device[T, R] {
	return &Device[T, R]{tx: tx, rx: rx}
}

// GetChar tries the receiver exactly once
func (d *Device[T, R]) GetChar() (byte, bool) {
	return d.rx.TryRecv()
}

// PutChar busy-waits until the transmitter accepts b. There is no
// timeout: a transmitter that never frees up hangs the caller, and if the
// caller holds the registry lock, every other caller as well.
func (d *Device[T, R]) PutChar(b byte) {
	var tries uint32
	for !d.tx.TrySend(b) {
		tries++
	}
	if tries > stallThreshold {
		RecordEvent(EvtTxStall, b, tries)
		DebugAsync("[SERIAL] tx stall char=" + itoa(int(b)) + " tries=" + utoa(tries))
	}
}

// TryPutChar makes at most attempts tries (at least one) and reports
// whether b was accepted
func (d *Device[T, R]) TryPutChar(b byte, attempts int) bool {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if d.tx.TrySend(b) {
			return true
		}
	}
	return false
}

// PutCharContext retries until b is accepted or ctx is done
func (d *Device[T, R]) PutCharContext(ctx context.Context, b byte) error {
	for !d.tx.TrySend(b) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}

// Write emits p in order. It never fails.
func (d *Device[T, R]) Write(p []byte) (int, error) {
	for _, b := range p {
		d.PutChar(b)
	}
	return len(p), nil
}

// WriteString emits the bytes of s in order. It never fails.
func (d *Device[T, R]) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		d.PutChar(s[i])
	}
	return len(s), nil
}

// WriteByte is PutChar in io.ByteWriter form
func (d *Device[T, R]) WriteByte(b byte) error {
	d.PutChar(b)
	return nil
}

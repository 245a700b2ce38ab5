package channel

// Loopback feeds every transmitted byte back to its own receiver through a
// bounded FIFO. When the FIFO is full TrySend rejects, which models a
// transmit FIFO that has not drained yet.
//
// Loopback is not safe for concurrent use on its own; the serial core
// serialises access through the registry lock.
type Loopback struct {
	fifo *FifoBuffer
}

// NewLoopback creates a loopback holding up to depth bytes in flight.
// A depth below 1 is raised to 1.
func NewLoopback(depth int) *Loopback {
	if depth < 1 {
		depth = 1
	}
	return &Loopback{fifo: NewFifoBuffer(depth + 1)}
}

// TrySend queues b, or returns false if depth bytes are already pending
func (l *Loopback) TrySend(b byte) bool {
	return l.fifo.Push(b)
}

// TryRecv returns the oldest pending byte
func (l *Loopback) TryRecv() (byte, bool) {
	return l.fifo.Shift()
}

// Pending returns the number of bytes sent but not yet received
func (l *Loopback) Pending() int {
	return l.fifo.Available()
}

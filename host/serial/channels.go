package serial

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"bootserial/channel"
)

// Channels exposes a blocking host port as non-blocking transmit and
// receive channels. A reader goroutine moves incoming bytes into a FIFO;
// bytes arriving while the FIFO is full are dropped and counted.
type Channels struct {
	port io.ReadWriter

	mu      sync.Mutex
	rx      *channel.FifoBuffer
	dropped atomic.Uint64

	done    chan struct{}
	stopped chan struct{}
	err     error // reader exit reason, valid once stopped is closed
	closeMu sync.Once
	tx      [1]byte
}

// NewChannels starts reading from port into a FIFO of bufSize bytes
func NewChannels(port io.ReadWriter, bufSize int) *Channels {
	c := &Channels{
		port:    port,
		rx:      channel.NewFifoBuffer(bufSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Channels) readLoop() {
	defer close(c.stopped)

	buf := make([]byte, 256)
	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			c.mu.Lock()
			written := c.rx.Write(buf[:n])
			c.mu.Unlock()
			if written < n {
				c.dropped.Add(uint64(n - written))
			}
		}

		select {
		case <-c.done:
			return
		default:
		}

		if err != nil {
			// Read timeouts surface as EOF or deadline errors
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			c.err = err
			return
		}
	}
}

// TrySend writes b to the port. A short or failed write means try again.
func (c *Channels) TrySend(b byte) bool {
	c.tx[0] = b
	n, err := c.port.Write(c.tx[:])
	return err == nil && n == 1
}

// TryRecv returns the oldest buffered byte
func (c *Channels) TryRecv() (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rx.Shift()
}

// Dropped returns the number of received bytes lost to a full FIFO
func (c *Channels) Dropped() uint64 {
	return c.dropped.Load()
}

// Err returns the error that stopped the reader, or nil if it is running
// or was stopped by Close
func (c *Channels) Err() error {
	select {
	case <-c.stopped:
		return c.err
	default:
		return nil
	}
}

// Close stops the reader. The port itself is left open; closing it
// unblocks a reader stuck in Read.
func (c *Channels) Close() {
	c.closeMu.Do(func() { close(c.done) })
}

// Stopped is closed once the reader goroutine has exited
func (c *Channels) Stopped() <-chan struct{} {
	return c.stopped
}

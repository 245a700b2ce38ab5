package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// ttyPort is a host tty opened through tarm/serial. Timed-out reads come
// back as io.EOF, which Channels treats as "no data yet".
type ttyPort struct {
	port *serial.Port
}

// Open opens the board console device described by cfg
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &ttyPort{port: port}, nil
}

func (p *ttyPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *ttyPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close also unblocks a Channels reader waiting in Read
func (p *ttyPort) Close() error {
	return p.port.Close()
}

// Flush drops stale boot output buffered by the tty driver
func (p *ttyPort) Flush() error {
	return p.port.Flush()
}

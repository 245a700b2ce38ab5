package core

import (
	"context"
	"fmt"
)

// Registry holds at most one active Serial behind a SpinLock.
// The zero value is not usable; create one with NewRegistry.
type Registry struct {
	lock     SpinLock
	dev      Serial
	cfg      Config
	installs uint32
}

// NewRegistry creates an empty registry. A nil cfg selects DefaultConfig.
func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := &Registry{cfg: *cfg}
	applyDefaults(&r.cfg)
	return r
}

// Init wraps tx and rx into a Device and installs it
func (r *Registry) Init(tx TransmitChannel, rx ReceiveChannel) {
	r.Install(NewDevice(tx, rx))
}

// Install makes dev the active device, replacing any previous one, and
// emits the banner through it. The swap waits for any in-flight operation
// on the previous device because it takes the same lock. A replacement
// prints nothing beyond the banner; it is only recorded in the event ring.
func (r *Registry) Install(dev Serial) {
	if dev == nil {
		return
	}
	r.lock.Lock()
	replaced := r.dev != nil
	r.dev = dev
	r.installs++
	if r.cfg.Banner != "" {
		dev.WriteString(r.cfg.Banner)
		dev.WriteString(r.cfg.LineEnding)
	}
	n := r.installs
	r.lock.Unlock()

	if replaced {
		RecordEvent(EvtReplace, 0, n)
	} else {
		RecordEvent(EvtInstall, 0, n)
	}
}

// Installed reports whether a device is present
func (r *Registry) Installed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.dev != nil
}

// Installs returns how many times a device has been installed
func (r *Registry) Installs() uint32 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.installs
}

// GetChar polls the active device once. Returns false if nothing was
// received or no device is installed.
func (r *Registry) GetChar() (byte, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev == nil {
		return 0, false
	}
	return r.dev.GetChar()
}

// PutChar sends b through the active device, holding the lock while the
// transmitter busy-waits. It does nothing if no device is installed.
func (r *Registry) PutChar(b byte) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev != nil {
		r.dev.PutChar(b)
	}
}

// TryPutChar is the bounded form of PutChar. Reports true when no device
// is installed, as the byte is dropped like PutChar would.
func (r *Registry) TryPutChar(b byte, attempts int) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev == nil {
		return true
	}
	return r.dev.TryPutChar(b, attempts)
}

// PutCharContext is the cancellable form of PutChar
func (r *Registry) PutCharContext(ctx context.Context, b byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev == nil {
		return nil
	}
	return r.dev.PutCharContext(ctx, b)
}

// Write emits p as one contiguous run. Output is dropped without a
// device, but the full length is still reported.
func (r *Registry) Write(p []byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev != nil {
		r.dev.Write(p)
	}
	return len(p), nil
}

// Print renders format and args into the active device
func (r *Registry) Print(format string, args ...interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev == nil {
		return
	}
	fmt.Fprintf(r.dev, format, args...)
}

// Println is Print followed by the configured line ending, all inside
// one critical section
func (r *Registry) Println(format string, args ...interface{}) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.dev == nil {
		return
	}
	fmt.Fprintf(r.dev, format, args...)
	r.dev.WriteString(r.cfg.LineEnding)
}

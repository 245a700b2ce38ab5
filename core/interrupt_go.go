//go:build !tinygo

package core

import "runtime"

// interruptState is a placeholder for interrupt state on regular Go
type interruptState uintptr

// disableInterrupts is a no-op on regular Go (for testing)
func disableInterrupts() interruptState {
	return 0
}

// restoreInterrupts is a no-op on regular Go (for testing)
func restoreInterrupts(state interruptState) {
	// No-op
}

// spinRelax lets the lock holder run while a goroutine spins
func spinRelax() {
	runtime.Gosched()
}

//go:build tinygo

package core

import "runtime/interrupt"

type interruptState = interrupt.State

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() interruptState {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interruptState) {
	interrupt.Restore(state)
}

// spinRelax is empty on TinyGo: interrupts are off while spinning, and
// the holder on this core cannot be preempted mid critical section.
func spinRelax() {}

package core

import "sync/atomic"

// SpinLock is a busy-waiting mutual exclusion lock safe to take from
// interrupt context. Interrupts stay disabled on the local core for as long
// as the lock is held. There is no fairness and no timeout.
type SpinLock struct {
	held  atomic.Uint32
	state interruptState // only touched by the holder
}

// Lock spins until the lock is acquired
func (l *SpinLock) Lock() {
	state := disableInterrupts()
	for !l.held.CompareAndSwap(0, 1) {
		spinRelax()
	}
	l.state = state
}

// TryLock acquires the lock only if it is free
func (l *SpinLock) TryLock() bool {
	state := disableInterrupts()
	if !l.held.CompareAndSwap(0, 1) {
		restoreInterrupts(state)
		return false
	}
	l.state = state
	return true
}

// Unlock releases the lock and restores the interrupt state saved by Lock
func (l *SpinLock) Unlock() {
	state := l.state
	l.held.Store(0)
	restoreInterrupts(state)
}

package core

import "sync/atomic"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// SerialEvent captures a console event for post-mortem analysis
type SerialEvent struct {
	EventType uint8  // Event type code
	Char      uint8  // Byte involved, if any
	Seq       uint32 // Global event sequence number
	Value     uint32 // Context-dependent value
}

// Event type codes
const (
	EvtInstall = 1 // First device installed
	EvtReplace = 2 // Device replaced by a later install
	EvtTxStall = 3 // PutChar retried more than stallThreshold times
)

const (
	EventRingSize  = 32 // Keep last 32 events for post-mortem
	DebugQueueSize = 16 // Async debug messages buffered before dropping
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventLock     SpinLock
	eventRing     [EventRingSize]SerialEvent
	eventRingHead uint8
	eventSeq      uint32

	// Async debug output channel
	debugChan    chan string
	debugDropped atomic.Uint32
)

// SetDebugWriter sets the platform-specific debug output function.
// Firmware usually points it at the serial console itself.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, DebugQueueSize)
	go debugOutputWorker(debugChan)
}

// StopAsyncDebug stops the worker once queued messages are written.
// DebugAsync drops messages until InitAsyncDebug is called again.
func StopAsyncDebug() {
	if debugChan != nil {
		close(debugChan)
		debugChan = nil
	}
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker(ch chan string) {
	for msg := range ch {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// Must not be called while holding a registry lock if the writer targets
// that registry; use DebugAsync there.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message). Safe to
// call with a registry lock held.
func DebugAsync(msg string) {
	if debugEnabled && debugChan != nil {
		select {
		case debugChan <- msg:
		default:
			// Channel full, drop message (non-blocking)
			debugDropped.Add(1)
		}
	}
}

// DebugDropped returns the number of async messages lost to a full queue
func DebugDropped() uint32 {
	return debugDropped.Load()
}

// RecordEvent captures an event in the ring buffer. Safe to call while a
// registry lock is held.
func RecordEvent(eventType, char uint8, value uint32) {
	eventLock.Lock()
	eventSeq++
	idx := eventRingHead
	eventRing[idx] = SerialEvent{
		EventType: eventType,
		Char:      char,
		Seq:       eventSeq,
		Value:     value,
	}
	eventRingHead = (idx + 1) % EventRingSize
	eventLock.Unlock()
}

// Events returns the recorded events, oldest first
func Events() []SerialEvent {
	eventLock.Lock()
	defer eventLock.Unlock()

	out := make([]SerialEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// DumpEvents outputs the event ring through the debug writer
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		var name string
		switch evt.EventType {
		case EvtInstall:
			name = "INSTALL"
		case EvtReplace:
			name = "REPLACE"
		case EvtTxStall:
			name = "TX_STALL!"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[EVENTS] " + name +
			" seq=" + utoa(evt.Seq) +
			" char=" + itoa(int(evt.Char)) +
			" value=" + utoa(evt.Value))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event buffer
func ClearEvents() {
	eventLock.Lock()
	for i := range eventRing {
		eventRing[i] = SerialEvent{}
	}
	eventRingHead = 0
	eventLock.Unlock()
}

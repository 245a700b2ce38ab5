//go:build rp2040

package pio

// PIO UART transmitter using tinygo-org/pio package
// Frees the hardware UART TX pin so any GPIO can carry the console

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// Each bit takes 8 state machine cycles.
//
// Program flow:
//  1. Pull one byte from the TX FIFO (line idles high while stalled)
//  2. Drive the start bit low
//  3. Shift out 8 data bits, LSB first
//  4. Drive the stop bit high
//
// buildUARTTxProgram creates the transmitter PIO program using AssemblerV0
func buildUARTTxProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Set(rp2pio.SetDestPins, 0).Delay(6).Encode(), // 1: set pins, 0 [6] (start bit)
		asm.Set(rp2pio.SetDestX, 7).Encode(),             // 2: set x, 7
		// bitloop:
		asm.Out(rp2pio.OutDestPins, 1).Delay(6).Encode(), // 3: out pins, 1 [6]
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(),         // 4: jmp x--, 3
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 5: set pins, 1 [7] (stop bit)
		// .wrap
	}
}

const (
	uartTxPIOOrigin = -1 // Let the PIO pick a free slot
	cyclesPerBit    = 8
)

// UARTTx is a transmit channel backed by a PIO state machine
type UARTTx struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
}

// NewUARTTx creates a PIO transmitter
// pioNum: 0 for PIO0, 1 for PIO1
// smNum: 0-3 for state machine number
func NewUARTTx(pioNum, smNum uint8) *UARTTx {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &UARTTx{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and starts transmitting on pin at baud
func (u *UARTTx) Init(pin machine.Pin, baud uint32) error {
	u.pin = pin

	// Claim the state machine first
	u.sm.TryClaim()

	program := buildUARTTxProgram()
	offset, err := u.pio.AddProgram(program, uartTxPIOOrigin)
	if err != nil {
		return err
	}
	u.offset = offset

	u.pin.Configure(machine.PinConfig{Mode: u.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()

	// SET drives start/stop bits, OUT drives data bits, both on the same pin
	cfg.SetSetPins(u.pin, 1)
	cfg.SetOutPins(u.pin, 1)

	// Shift right (LSB first), no autopull, 32-bit threshold
	cfg.SetOutShift(true, false, 32)

	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// sysclk / (baud * cycles per bit), in 16.8 fixed point
	div := uint64(machine.CPUFrequency()) * 256 / (uint64(baud) * cyclesPerBit)
	cfg.SetClkDivIntFrac(uint16(div>>8), uint8(div))

	u.sm.Init(offset, cfg)

	// Idle high before enabling
	u.sm.SetPindirsConsecutive(u.pin, 1, true)
	u.sm.SetPinsConsecutive(u.pin, 1, true)

	u.sm.SetEnabled(true)
	return nil
}

// TrySend queues b if the TX FIFO has room
func (u *UARTTx) TrySend(b byte) bool {
	if u.sm.IsTxFIFOFull() {
		return false
	}
	u.sm.TxPut(uint32(b))
	return true
}

// Stop halts the transmitter and drops queued bytes.
// Also used to park the state machine after a failed Init.
func (u *UARTTx) Stop() {
	u.sm.SetEnabled(false)
	u.sm.ClearFIFOs()
	u.sm.Restart()
}

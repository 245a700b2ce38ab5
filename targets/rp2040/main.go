//go:build rp2040

package main

import (
	"machine"
	"time"

	"bootserial/channel"
	"bootserial/core"
	"bootserial/targets/pio"
)

var (
	// Debug counters
	charsEchoed uint32
	loopPanics  uint32
)

func main() {
	cfg := GetConsoleConfig()

	// Hardware UART always handles receive
	uart := machine.UART0
	err := uart.Configure(machine.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	if err != nil {
		return
	}
	rx := channel.NewUART(uart)

	if cfg.PIOTx {
		tx := pio.NewUARTTx(0, 0)
		if err := tx.Init(cfg.TxPin, cfg.Baud); err != nil {
			// Fall back to the hardware transmitter
			tx.Stop()
			core.Install(core.NewDevice(rx, rx))
			core.Println("pio tx init failed: %v", err)
		} else {
			core.Install(core.NewDevice(tx, rx))
		}
	} else {
		core.Install(core.NewDevice(rx, rx))
	}

	if cfg.Debug {
		core.SetDebugWriter(func(s string) {
			core.Println("%s", s)
		})
		core.SetDebugEnabled(true)
		// Stall reports are queued from inside the console lock
		core.InitAsyncDebug()
	}

	core.Println("bootserial %s on rp2040, %d baud", core.Version, cfg.Baud)
	core.DebugPrintln("[BOOT] console ready")

	// Echo loop
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
					if core.IsDebugEnabled() {
						core.DumpEvents()
					}
				}
			}()

			for {
				c, ok := core.GetChar()
				if !ok {
					break
				}
				handleChar(c)
			}
		}()

		// Yield to other goroutines
		time.Sleep(100 * time.Microsecond)
	}
}

// handleChar echoes input back, turning CR into CRLF for terminals
func handleChar(c byte) {
	charsEchoed++
	switch c {
	case '\r':
		core.Print("\r\n")
	case 0x05: // Ctrl-E dumps the event ring
		core.DumpEvents()
	case 0x14: // Ctrl-T prints counters
		core.Println("echoed=%d panics=%d", charsEchoed, loopPanics)
	default:
		core.PutChar(c)
	}
}

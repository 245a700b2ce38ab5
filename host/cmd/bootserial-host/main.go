package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"bootserial/core"
	"bootserial/host/config"
	"bootserial/host/serial"
)

var (
	configPath = flag.String("config", "", "JSON host configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("bootserial host console " + core.Version)

	port, err := serial.Open(cfg.Port())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	if err := port.Flush(); err != nil && *verbose {
		fmt.Fprintf(os.Stderr, "Warning: flush failed: %v\n", err)
	}

	ch := serial.NewChannels(port, cfg.RxBuffer)
	defer ch.Close()

	reg := core.NewRegistry(&core.Config{LineEnding: cfg.LineEnding, Quiet: true})
	reg.Init(ch, ch)

	if *verbose {
		core.SetDebugWriter(func(s string) { fmt.Fprintln(os.Stderr, s) })
		core.SetDebugEnabled(true)
	}

	fmt.Printf("Connected to %s at %d baud\n", cfg.Device, cfg.Baud)
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")

	go receiveLoop(reg, ch)

	con := &console{reg: reg, ch: ch, out: os.Stdout, echo: cfg.LocalEcho}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		quit, err := con.run(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if quit {
			fmt.Println("Goodbye!")
			return
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.HostConfig, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	return cfg, nil
}

// receiveLoop copies console output from the board to stdout
func receiveLoop(reg *core.Registry, ch *serial.Channels) {
	out := bufio.NewWriter(os.Stdout)
	for {
		idle := true
		for {
			c, ok := reg.GetChar()
			if !ok {
				break
			}
			out.WriteByte(c)
			idle = false
		}
		out.Flush()

		select {
		case <-ch.Stopped():
			if err := ch.Err(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: serial reader stopped: %v\n", err)
			}
			return
		default:
		}

		if idle {
			time.Sleep(time.Millisecond)
		}
	}
}

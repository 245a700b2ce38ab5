package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"bootserial/core"
	"bootserial/host/serial"
)

// console executes operator commands against the installed device
type console struct {
	reg  *core.Registry
	ch   *serial.Channels // nil when not backed by a host port
	out  io.Writer
	echo bool
}

// run executes one command line. Returns true when the operator asked to quit.
func (c *console) run(line string) (bool, error) {
	parts, err := shlex.Split(line)
	if err != nil {
		return false, fmt.Errorf("failed to parse command: %w", err)
	}
	if len(parts) == 0 {
		return false, nil
	}

	cmd, args := parts[0], parts[1:]
	switch cmd {
	case "quit", "exit", "q":
		return true, nil

	case "help", "?":
		c.printHelp()

	case "send", "sendln":
		if err := c.portErr(); err != nil {
			return false, err
		}
		c.send(strings.Join(args, " "), cmd == "sendln")

	case "byte":
		if err := c.portErr(); err != nil {
			return false, err
		}
		if len(args) != 1 {
			return false, fmt.Errorf("usage: byte <value>")
		}
		v, err := strconv.ParseUint(args[0], 0, 8)
		if err != nil {
			return false, fmt.Errorf("invalid byte %q: %w", args[0], err)
		}
		c.reg.PutChar(byte(v))

	case "stats":
		fmt.Fprintf(c.out, "installs=%d", c.reg.Installs())
		if c.ch != nil {
			fmt.Fprintf(c.out, " dropped=%d", c.ch.Dropped())
		}
		fmt.Fprintln(c.out)

	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
	return false, nil
}

// portErr reports a dead port. PutChar on it would spin forever while
// holding the registry lock, since writes to an unplugged tty keep failing.
func (c *console) portErr() error {
	if c.ch == nil {
		return nil
	}
	if err := c.ch.Err(); err != nil {
		return fmt.Errorf("serial port lost: %w", err)
	}
	return nil
}

func (c *console) send(text string, newline bool) {
	if newline {
		c.reg.Println("%s", text)
	} else {
		c.reg.Print("%s", text)
	}
	if c.echo {
		fmt.Fprint(c.out, text)
		if newline {
			fmt.Fprintln(c.out)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out, "\nAvailable commands:")
	fmt.Fprintln(c.out, "  help           - Show this help message")
	fmt.Fprintln(c.out, "  send <text>    - Send text without a line ending")
	fmt.Fprintln(c.out, "  sendln <text>  - Send text followed by the line ending")
	fmt.Fprintln(c.out, "  byte <value>   - Send one raw byte (decimal, 0x.. or 0..)")
	fmt.Fprintln(c.out, "  stats          - Show console counters")
	fmt.Fprintln(c.out, "  quit/exit/q    - Exit the program")
	fmt.Fprintln(c.out)
}

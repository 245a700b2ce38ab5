package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"bootserial/channel"
	"bootserial/core"
	"bootserial/host/serial"
)

func newTestConsole(echo bool) (*console, *channel.Loopback, *bytes.Buffer) {
	lb := channel.NewLoopback(256)
	reg := core.NewRegistry(&core.Config{Quiet: true})
	reg.Init(lb, lb)
	out := &bytes.Buffer{}
	return &console{reg: reg, out: out, echo: echo}, lb, out
}

func drain(lb *channel.Loopback) string {
	var sb strings.Builder
	for {
		c, ok := lb.TryRecv()
		if !ok {
			return sb.String()
		}
		sb.WriteByte(c)
	}
}

func TestSendQuoted(t *testing.T) {
	con, lb, _ := newTestConsole(false)

	if _, err := con.run(`sendln "hello world" again`); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := drain(lb); got != "hello world again\n" {
		t.Errorf("Expected \"hello world again\\n\", got %q", got)
	}

	if _, err := con.run(`send 100%`); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := drain(lb); got != "100%" {
		t.Errorf("Expected literal percent sign, got %q", got)
	}
}

func TestSendByte(t *testing.T) {
	con, lb, _ := newTestConsole(false)

	for _, line := range []string{"byte 0x41", "byte 66", "byte 0103"} {
		if _, err := con.run(line); err != nil {
			t.Fatalf("run(%q) failed: %v", line, err)
		}
	}
	if got := drain(lb); got != "ABC" {
		t.Errorf("Expected \"ABC\", got %q", got)
	}

	if _, err := con.run("byte 300"); err == nil {
		t.Error("Expected error for out of range byte")
	}
	if _, err := con.run("byte"); err == nil {
		t.Error("Expected usage error without argument")
	}
}

func TestLocalEcho(t *testing.T) {
	con, _, out := newTestConsole(true)

	con.run("sendln hi")
	if out.String() != "hi\n" {
		t.Errorf("Expected local echo \"hi\\n\", got %q", out.String())
	}
}

func TestQuitAndUnknown(t *testing.T) {
	con, _, out := newTestConsole(false)

	quit, err := con.run("quit")
	if err != nil || !quit {
		t.Errorf("Expected quit, got quit=%v err=%v", quit, err)
	}

	if _, err := con.run("reboot"); err == nil {
		t.Error("Expected error for unknown command")
	}
	if _, err := con.run(`send "unterminated`); err == nil {
		t.Error("Expected parse error for unterminated quote")
	}

	con.run("stats")
	if !strings.Contains(out.String(), "installs=1") {
		t.Errorf("Expected installs=1 in stats, got %q", out.String())
	}
}

// unpluggedPort fails every read and write, like a tty after the USB
// adapter is pulled
type unpluggedPort struct {
	writes int
}

func (u *unpluggedPort) Read(p []byte) (int, error) {
	return 0, errors.New("input/output error")
}

func (u *unpluggedPort) Write(p []byte) (int, error) {
	u.writes++
	return 0, errors.New("input/output error")
}

func TestSendRefusedAfterPortLoss(t *testing.T) {
	port := &unpluggedPort{}
	ch := serial.NewChannels(port, 16)
	defer ch.Close()

	select {
	case <-ch.Stopped():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for reader to stop")
	}

	reg := core.NewRegistry(&core.Config{Quiet: true})
	reg.Init(ch, ch)
	con := &console{reg: reg, ch: ch, out: &bytes.Buffer{}}

	for _, line := range []string{"send hi", "sendln hi", "byte 0x41"} {
		_, err := con.run(line)
		if err == nil || !strings.Contains(err.Error(), "serial port lost") {
			t.Errorf("run(%q): expected port lost error, got %v", line, err)
		}
	}
	if port.writes != 0 {
		t.Errorf("Expected no writes to a lost port, got %d", port.writes)
	}
}

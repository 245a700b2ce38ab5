// Package config loads the host console configuration
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"bootserial/host/serial"
)

// HostConfig describes how the host console talks to a board
type HostConfig struct {
	Device      string `json:"device"`
	Baud        int    `json:"baud"`
	ReadTimeout int    `json:"read_timeout_ms"`
	RxBuffer    int    `json:"rx_buffer"`
	LineEnding  string `json:"line_ending"`
	LocalEcho   bool   `json:"local_echo"`
}

// LoadConfig parses a JSON configuration string and returns a HostConfig
func LoadConfig(jsonData []byte) (*HostConfig, error) {
	var config HostConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, fmt.Errorf("parse host config: %w", err)
	}

	// Apply defaults
	applyDefaults(&config)

	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read host config: %w", err)
	}
	return LoadConfig(data)
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *HostConfig) {
	if config.Device == "" {
		config.Device = "/dev/ttyUSB0"
	}
	if config.Baud == 0 {
		config.Baud = 115200
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 100
	}
	if config.RxBuffer == 0 {
		config.RxBuffer = 4096
	}
	if config.LineEnding == "" {
		config.LineEnding = "\n"
	}
}

// DefaultConfig returns the configuration used without a config file
func DefaultConfig() *HostConfig {
	config := &HostConfig{}
	applyDefaults(config)
	return config
}

// Port returns the serial port settings
func (c *HostConfig) Port() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
	}
}

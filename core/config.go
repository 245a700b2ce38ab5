package core

// Config holds console settings used by a Registry
type Config struct {
	// LineEnding is appended by Println and after the banner
	LineEnding string

	// Banner is the diagnostic line emitted when a device is installed.
	// Empty disables it.
	Banner string

	// Quiet suppresses the banner even when one is set
	Quiet bool
}

// DefaultConfig returns the settings used when none are given
func DefaultConfig() *Config {
	return &Config{
		LineEnding: "\n",
		Banner:     "serial init",
	}
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.LineEnding == "" {
		cfg.LineEnding = "\n"
	}
	if cfg.Quiet {
		cfg.Banner = ""
	}
}

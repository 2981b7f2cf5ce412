package model

import "time"

type Config struct {
	Sink    SinkConfig    `yaml:"sink"`
	Console ConsoleConfig `yaml:"console"`
	Format  FormatConfig  `yaml:"format"`
}

type SinkConfig struct {
	BufferSize int `yaml:"bufferSize"`
	// Overflow is either "block" (default) or "drop".
	Overflow        string        `yaml:"overflow"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type ConsoleConfig struct {
	// Kind selects the console adapter: terminal, survey or promptui.
	Kind string `yaml:"kind"`
	// Interactive is auto, always or never. Auto asks the terminal.
	Interactive string `yaml:"interactive"`
}

type FormatConfig struct {
	// Formatter is text, json or logfmt.
	Formatter    string `yaml:"formatter"`
	TimeFormat   string `yaml:"timeFormat"`
	MinimumLevel Level  `yaml:"minimumLevel"`
}

const (
	ConsoleTerminal = "terminal"
	ConsoleSurvey   = "survey"
	ConsolePromptUI = "promptui"

	InteractiveAuto   = "auto"
	InteractiveAlways = "always"
	InteractiveNever  = "never"

	OverflowBlock = "block"
	OverflowDrop  = "drop"

	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// DefaultConfig returns the configuration used when no file is present.
// Files are decoded on top of it, so a minimumLevel left out of a file
// stays at debug while an explicit verbose is kept.
func DefaultConfig() *Config {
	c := &Config{Format: FormatConfig{MinimumLevel: DebugLevel}}
	c.SetDefaults()
	return c
}

// SetDefaults fills in every zero field. MinimumLevel is left alone as its
// zero value is a valid level.
func (c *Config) SetDefaults() {
	if c.Sink.BufferSize <= 0 {
		c.Sink.BufferSize = 1024
	}
	if c.Sink.Overflow == "" {
		c.Sink.Overflow = OverflowBlock
	}
	if c.Sink.ShutdownTimeout <= 0 {
		c.Sink.ShutdownTimeout = 5 * time.Second
	}
	if c.Console.Kind == "" {
		c.Console.Kind = ConsoleTerminal
	}
	if c.Console.Interactive == "" {
		c.Console.Interactive = InteractiveAuto
	}
	if c.Format.Formatter == "" {
		c.Format.Formatter = FormatText
	}
	if c.Format.TimeFormat == "" {
		c.Format.TimeFormat = time.TimeOnly
	}
}

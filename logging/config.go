package logging

import "time"

// Config controls router buffering and sink selection.
type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	DropWarnInterval time.Duration
	JSON             JSONConfig
}

// JSONConfig configures the JSON-lines file sink.
type JSONConfig struct {
	FilePath string
}

// DefaultConfig enables the console sink with a modest buffer.
func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       256,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
	}
}

// HasSink reports whether the named sink is enabled.
func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

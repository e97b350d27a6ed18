package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetLogOutput redirects log output. Call before the first Log.
func (c *Config) SetLogOutput(w io.Writer) {
	c.logOut = w
}

// Logger returns the shared logger, creating it on first use.
func (c *Config) Logger() *log.Logger {
	c.logOnce.Do(func() {
		out := c.logOut
		if out == nil {
			out = os.Stderr
		}
		level, err := log.ParseLevel(c.Logging.Level)
		if err != nil {
			level = log.InfoLevel
		}
		c.logger = log.NewWithOptions(out, log.Options{
			Level:           level,
			ReportTimestamp: true,
			Prefix:          "ui-shell",
		})
	})
	return c.logger
}

// Log writes a message when level is within the configured verbosity.
func (c *Config) Log(level int, format string, args ...interface{}) {
	if level > c.Logging.Verbosity {
		return
	}
	c.Logger().Infof(format, args...)
}

// Errorf writes an error regardless of verbosity.
func (c *Config) Errorf(format string, args ...interface{}) {
	c.Logger().Errorf(format, args...)
}

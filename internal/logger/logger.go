// Package logger provides verbose logging for the storefront CLI.
// When verbose mode is enabled via the --verbose flag, log lines are
// printed to stderr to help users follow requests and token refreshes.
// Services attach structured fields through Get.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	writeMu sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
	base    zerolog.Logger
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	base = zerolog.New(zerolog.ConsoleWriter{
		Out:          sink{},
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	})
}

// sink forwards to the current output so SetOutput takes effect on loggers
// already handed out by Get.
type sink struct{}

func (sink) Write(p []byte) (int, error) {
	mu.RLock()
	w := output
	mu.RUnlock()

	writeMu.Lock()
	defer writeMu.Unlock()
	return w.Write(p)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Get returns the shared structured logger.
func Get() *zerolog.Logger {
	return &base
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	base.Debug().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	if !IsVerbose() {
		return
	}
	_, _ = fmt.Fprintf(sink{}, "\n=== %s ===\n", name)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	base.Info().Msgf(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	base.Warn().Msgf(format, args...)
}

// Package log wraps zerolog with one logger per toolkit component.
// Output goes to stderr so command results on stdout stay machine readable.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger is the root logger. Component loggers derive from it.
var Logger zerolog.Logger

// Component loggers.
var (
	Provider zerolog.Logger
	Paginate zerolog.Logger
	Wallet   zerolog.Logger
	Storage  zerolog.Logger
	CLI      zerolog.Logger
)

// logFile is the file opened by the last Init, closed when replaced.
var (
	fileMu  sync.Mutex
	logFile *os.File
)

var components = map[string]*zerolog.Logger{
	"provider": &Provider,
	"paginate": &Paginate,
	"wallet":   &Wallet,
	"storage":  &Storage,
	"cli":      &CLI,
}

func init() {
	setLogger(consoleWriter(os.Stderr), "info")
}

// Init configures the root logger. Console output is human readable unless
// jsonOutput is set. A non-empty file additionally receives JSON lines.
func Init(level string, jsonOutput bool, file string) error {
	var w io.Writer = os.Stderr
	if !jsonOutput {
		w = consoleWriter(os.Stderr)
	}
	var f *os.File
	if file != "" {
		var err error
		f, err = os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(w, f)
	}
	setLogger(w, level)
	return swapFile(f)
}

// SetOutput sends JSON lines to w. Tests use it to capture log output.
func SetOutput(w io.Writer, level string) {
	setLogger(w, level)
	_ = swapFile(nil)
}

// Close sends output back to the console and closes the log file, if any.
func Close() error {
	setLogger(consoleWriter(os.Stderr), Logger.GetLevel().String())
	return swapFile(nil)
}

func swapFile(f *os.File) error {
	fileMu.Lock()
	prev := logFile
	logFile = f
	fileMu.Unlock()
	if prev == nil {
		return nil
	}
	if err := prev.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// consoleWriter colors output only when out is a terminal.
func consoleWriter(out *os.File) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		NoColor:    !term.IsTerminal(int(out.Fd())),
	}
}

func setLogger(w io.Writer, level string) {
	Logger = zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	for name, l := range components {
		*l = Logger.With().Str("component", name).Logger()
	}
}

// parseLevel accepts zerolog level names plus "off". Anything else is info.
func parseLevel(level string) zerolog.Level {
	if level == "off" {
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Benchmark logs the time between the call and the returned func at debug
// level: defer log.Benchmark("op")().
func Benchmark(name string) func() {
	start := time.Now()
	return func() {
		Logger.Debug().
			Str("operation", name).
			Dur("duration", time.Since(start)).
			Msg("benchmark")
	}
}

// Package log provides the leveled, timestamped logging shared by all of
// the tool's packages. A single global ToolLogger serves the whole process;
// verbosity is set once from the parsed command line options.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Tool logging verbosity levels, from always-shown to debug chatter.
const (
	Always = iota
	Info
	DebugLow
	DebugHigh
)

const ToolTimeFormat = "2006-01-02T15:04:05.000-0700"

// VerbosityLevel is the interface the options layer satisfies so that it can
// configure logging without this package importing it.
type VerbosityLevel interface {
	Level() int
	IsQuiet() bool
}

// ToolLogger writes timestamped lines to a single destination, filtered by
// the configured verbosity.
type ToolLogger struct {
	mutex     sync.Mutex
	writer    io.Writer
	format    string
	verbosity int
}

func NewToolLogger() *ToolLogger {
	return &ToolLogger{
		writer: os.Stderr,
		format: ToolTimeFormat,
	}
}

// SetVerbosity applies the parsed verbosity options. Quiet suppresses all
// output, including Always-level lines.
func (tl *ToolLogger) SetVerbosity(level VerbosityLevel) {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	if level == nil {
		tl.verbosity = 0
		return
	}
	if level.IsQuiet() {
		tl.verbosity = -1
	} else {
		tl.verbosity = level.Level()
	}
}

func (tl *ToolLogger) SetWriter(w io.Writer) {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	tl.writer = w
}

// Logvf formats and writes one log line if the logger's verbosity is at
// least minVerb.
func (tl *ToolLogger) Logvf(minVerb int, format string, a ...interface{}) {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	if minVerb > tl.verbosity {
		return
	}
	fmt.Fprintf(tl.writer, "%v\t", time.Now().Format(tl.format))
	fmt.Fprintf(tl.writer, format, a...)
	fmt.Fprintln(tl.writer)
}

// IsInVerbosity reports whether a line at minVerb would currently be
// emitted.
func (tl *ToolLogger) IsInVerbosity(minVerb int) bool {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	return minVerb <= tl.verbosity
}

// Writer returns an io.Writer that turns each Write into one log line at
// minVerb, for components (like progress bars) that expect a plain writer.
func (tl *ToolLogger) Writer(minVerb int) io.Writer {
	return &levelWriter{logger: tl, minVerb: minVerb}
}

type levelWriter struct {
	logger  *ToolLogger
	minVerb int
}

func (lw *levelWriter) Write(message []byte) (int, error) {
	lw.logger.Logvf(lw.minVerb, "%s", message)
	return len(message), nil
}

var globalToolLogger = NewToolLogger()

func Logvf(minVerb int, format string, a ...interface{}) {
	globalToolLogger.Logvf(minVerb, format, a...)
}

func SetVerbosity(level VerbosityLevel) {
	globalToolLogger.SetVerbosity(level)
}

func SetWriter(w io.Writer) {
	globalToolLogger.SetWriter(w)
}

func IsInVerbosity(minVerb int) bool {
	return globalToolLogger.IsInVerbosity(minVerb)
}

func Writer(minVerb int) io.Writer {
	return globalToolLogger.Writer(minVerb)
}

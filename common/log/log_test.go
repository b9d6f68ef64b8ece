package log

import (
	"bytes"
	"strings"
	"testing"
)

type staticVerbosity struct {
	level int
	quiet bool
}

func (v staticVerbosity) Level() int    { return v.level }
func (v staticVerbosity) IsQuiet() bool { return v.quiet }

func TestVerbosityFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger()
	logger.SetWriter(&buf)
	logger.SetVerbosity(staticVerbosity{level: 1})

	logger.Logvf(Always, "always line")
	logger.Logvf(Info, "info line")
	logger.Logvf(DebugLow, "debug line")

	out := buf.String()
	if !strings.Contains(out, "always line") || !strings.Contains(out, "info line") {
		t.Errorf("lines at or below the verbosity should be emitted, got %q", out)
	}
	if strings.Contains(out, "debug line") {
		t.Errorf("lines above the verbosity should be suppressed, got %q", out)
	}
}

func TestQuietSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger()
	logger.SetWriter(&buf)
	logger.SetVerbosity(staticVerbosity{quiet: true})

	logger.Logvf(Always, "always line")
	if buf.Len() != 0 {
		t.Errorf("quiet should suppress all output, got %q", buf.String())
	}
}

func TestWriterEmitsAtLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger()
	logger.SetWriter(&buf)
	logger.SetVerbosity(staticVerbosity{level: 1})

	logger.Writer(Info).Write([]byte("via writer"))
	if !strings.Contains(buf.String(), "via writer") {
		t.Errorf("writer output missing, got %q", buf.String())
	}

	buf.Reset()
	logger.Writer(DebugHigh).Write([]byte("too verbose"))
	if buf.Len() != 0 {
		t.Errorf("writer above verbosity should be silent, got %q", buf.String())
	}
}

package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	c := NewCounter(10)
	c.Inc(3)
	c.Inc(2)
	current, max := c.Progress()
	if current != 5 || max != 10 {
		t.Errorf("Progress() = %v/%v, want 5/10", current, max)
	}
}

func TestBarRendersOnStop(t *testing.T) {
	var buf bytes.Buffer
	c := NewCounter(4)
	c.Inc(4)
	bar := &Bar{
		Name:         "seeding",
		Watching:     c,
		Writer:       &buf,
		RenderPeriod: time.Hour, // only the final render should fire
	}
	bar.Start()
	bar.Stop()
	out := buf.String()
	if !strings.Contains(out, "seeding") {
		t.Errorf("final render missing bar name: %q", out)
	}
	if !strings.Contains(out, "4/4") {
		t.Errorf("final render missing completion count: %q", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("final render missing percentage: %q", out)
	}
}

func TestBarSkipsZeroMax(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{
		Name:         "empty",
		Watching:     NewCounter(0),
		Writer:       &buf,
		RenderPeriod: time.Hour,
	}
	bar.Start()
	bar.Stop()
	if buf.Len() != 0 {
		t.Errorf("a zero-sized watch should render nothing, got %q", buf.String())
	}
}

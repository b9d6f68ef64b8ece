// Package progress renders a periodically updated progress bar for watched
// counters.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

const (
	DefaultBarLength    = 24
	DefaultRenderPeriod = time.Second
)

// Progressor reports how far along a watched operation is.
type Progressor interface {
	Progress() (current, max int64)
}

// Counter is an incrementable Progressor.
type Counter struct {
	max     int64
	current int64
}

func NewCounter(max int64) *Counter {
	return &Counter{max: max}
}

func (c *Counter) Inc(amount int64) {
	atomic.AddInt64(&c.current, amount)
}

func (c *Counter) Progress() (int64, int64) {
	return atomic.LoadInt64(&c.current), c.max
}

// Bar draws its Watching Progressor to Writer on a fixed period between
// Start and Stop. Stop renders one final time so a fast operation still
// reports completion.
type Bar struct {
	Name         string
	Watching     Progressor
	Writer       io.Writer
	BarLength    int
	RenderPeriod time.Duration

	stopChan chan struct{}
	doneChan chan struct{}
}

func (b *Bar) Start() {
	if b.BarLength == 0 {
		b.BarLength = DefaultBarLength
	}
	if b.RenderPeriod == 0 {
		b.RenderPeriod = DefaultRenderPeriod
	}
	b.stopChan = make(chan struct{})
	b.doneChan = make(chan struct{})
	go b.watch()
}

func (b *Bar) Stop() {
	close(b.stopChan)
	<-b.doneChan
}

func (b *Bar) watch() {
	defer close(b.doneChan)
	ticker := time.NewTicker(b.RenderPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.render()
		case <-b.stopChan:
			b.render()
			return
		}
	}
}

func (b *Bar) render() {
	current, max := b.Watching.Progress()
	if max <= 0 {
		return
	}
	fraction := float64(current) / float64(max)
	filled := int(fraction * float64(b.BarLength))
	if filled > b.BarLength {
		filled = b.BarLength
	}
	fmt.Fprintf(b.Writer, "[%v%v] %v %v/%v (%.1f%%)",
		strings.Repeat("#", filled),
		strings.Repeat(".", b.BarLength-filled),
		b.Name, current, max, fraction*100)
}

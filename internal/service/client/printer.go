package client

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/oshokin/webbox/internal/progress"
)

// barWidth is the number of cells of the progress bar.
const barWidth = 30

// progressPrinter renders progress events as one line per stage change.
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out: out,
	}
}

func (p *progressPrinter) print(ev progress.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Terminal events are reported by the caller with the result or the error.
	if ev.Terminal() || ev.Message == p.last {
		return
	}

	p.last = ev.Message

	filled := ev.Percent * barWidth / 100
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)

	_, _ = fmt.Fprintf(p.out, "[%s] %3d%% %s\n", bar, ev.Percent, ev.Message)
}

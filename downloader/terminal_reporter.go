package downloader

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// TerminalReporter renders download events as a progress bar on a terminal
type TerminalReporter struct {
	out io.Writer

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	name string
}

// NewTerminalReporter creates a TerminalReporter writing to out
func NewTerminalReporter(out io.Writer) *TerminalReporter {
	return &TerminalReporter{out: out}
}

// Emit implements Emitter
func (tr *TerminalReporter) Emit(event Event) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	switch ev := event.(type) {
	case Started:
		tr.name = filepath.Base(ev.DestinationPath)
		tr.bar = nil
		_, err := fmt.Fprintf(tr.out, "⏳ Downloading %s...\n", tr.name)
		return err

	case Progress:
		if tr.bar == nil {
			tr.bar = tr.newBar(int64(ev.TotalBytes))
		}
		return tr.bar.Set64(int64(ev.BytesDownloaded))

	case Finished:
		if tr.bar != nil {
			if err := tr.bar.Finish(); err != nil {
				return err
			}
			tr.bar = nil
		}
		_, err := fmt.Fprintf(tr.out, "\n✅ %s saved to %s\n", tr.name, ev.DestinationPath)
		return err
	}
	return nil
}

func (tr *TerminalReporter) newBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(tr.out),
		progressbar.OptionSetDescription(tr.name),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

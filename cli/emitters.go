package cli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"spine-mod-loader/downloader"
)

// Event sinks selectable with --events. Several may be combined, e.g. "bar,log".
const (
	EventsBar  = "bar"
	EventsJSON = "json"
	EventsLog  = "log"
	EventsNone = "none"
)

// parseEventSinks splits a --events value into its sinks
func parseEventSinks(value string) ([]string, error) {
	var sinks []string
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		switch s {
		case EventsBar, EventsJSON, EventsLog, EventsNone:
			sinks = append(sinks, s)
		default:
			return nil, fmt.Errorf("unknown event sink %q (bar, json, log or none)", s)
		}
	}
	return sinks, nil
}

// hasEventSink reports whether sink is among the sinks selected by cmdCtx
func hasEventSink(cmdCtx *CommandContext, sink string) bool {
	sinks, _ := parseEventSinks(cmdCtx.Events)
	for _, s := range sinks {
		if s == sink {
			return true
		}
	}
	return false
}

// newEmitter returns the download event sink selected by cmdCtx
func newEmitter(cmdCtx *CommandContext, logger *zap.Logger) downloader.Emitter {
	sinks, _ := parseEventSinks(cmdCtx.Events)
	emitters := make([]downloader.Emitter, 0, len(sinks))
	for _, s := range sinks {
		switch s {
		case EventsBar:
			emitters = append(emitters, downloader.NewTerminalReporter(cmdCtx.Err))
		case EventsJSON:
			emitters = append(emitters, downloader.NewJSONEmitter(cmdCtx.Out))
		case EventsLog:
			emitters = append(emitters, downloader.NewProgressTracker(downloader.NewLogEmitter(logger)))
		}
	}

	switch len(emitters) {
	case 0:
		return downloader.Discard
	case 1:
		return emitters[0]
	default:
		return downloader.NewMultiEmitter(emitters...)
	}
}

// countingEmitter records how many events passed through
type countingEmitter struct {
	next  downloader.Emitter
	count int
}

func (c *countingEmitter) Emit(event downloader.Event) error {
	c.count++
	return c.next.Emit(event)
}

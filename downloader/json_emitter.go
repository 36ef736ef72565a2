package downloader

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// envelope is one line of the event stream
type envelope struct {
	Event   string `json:"event"`
	Payload Event  `json:"payload"`
}

// JSONEmitter writes each event as a single JSON line:
//
//	{"event":"download-progress","payload":{"bytesDownloaded":4096,"totalBytes":9000}}
type JSONEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONEmitter creates a JSONEmitter writing to w
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{enc: json.NewEncoder(w)}
}

// Emit implements Emitter
func (je *JSONEmitter) Emit(event Event) error {
	je.mu.Lock()
	defer je.mu.Unlock()
	if err := je.enc.Encode(envelope{Event: event.EventName(), Payload: event}); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event.EventName(), err)
	}
	return nil
}

// LogEmitter records events on a zap logger
type LogEmitter struct {
	logger *zap.Logger
}

// NewLogEmitter creates a LogEmitter. Pair it with a ProgressTracker to keep
// progress lines down to one per interval.
func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEmitter{logger: logger}
}

// Emit implements Emitter
func (le *LogEmitter) Emit(event Event) error {
	switch ev := event.(type) {
	case Started:
		le.logger.Info(EventDownloadStarted, zap.String("dest", ev.DestinationPath))
	case Progress:
		le.logger.Info(EventDownloadProgress,
			zap.Uint64("bytes", ev.BytesDownloaded),
			zap.Uint64("total", ev.TotalBytes),
			zap.String("percent", fmt.Sprintf("%.1f", ev.Percentage())))
	case Finished:
		le.logger.Info(EventDownloadFinished, zap.String("folder", ev.DestinationPath))
	default:
		le.logger.Info(event.EventName())
	}
	return nil
}

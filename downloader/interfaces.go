package downloader

import (
	"context"
	"sync"
)

// Event names shared with the presentation layer
const (
	EventDownloadStarted  = "download-started"
	EventDownloadProgress = "download-progress"
	EventDownloadFinished = "download-finished"
)

// Event is a download lifecycle notification
type Event interface {
	EventName() string
}

// Started is emitted once, before the request is issued
type Started struct {
	DestinationPath string `json:"destinationPath"`
}

// Progress is emitted after every chunk written to disk
type Progress struct {
	BytesDownloaded uint64 `json:"bytesDownloaded"`
	TotalBytes      uint64 `json:"totalBytes"`
}

// Finished is emitted once the skeleton is on disk. DestinationPath is the mod folder.
type Finished struct {
	DestinationPath string `json:"destinationPath"`
}

func (Started) EventName() string  { return EventDownloadStarted }
func (Progress) EventName() string { return EventDownloadProgress }
func (Finished) EventName() string { return EventDownloadFinished }

// Percentage returns the completed share in the range [0, 100]
func (p Progress) Percentage() float64 {
	if p.TotalBytes == 0 {
		return 0
	}
	return float64(p.BytesDownloaded) / float64(p.TotalBytes) * 100
}

// Emitter receives lifecycle events synchronously. Returning an error aborts the download.
type Emitter interface {
	Emit(event Event) error
}

// EmitterFunc adapts a function to the Emitter interface
type EmitterFunc func(event Event) error

// Emit calls f(event)
func (f EmitterFunc) Emit(event Event) error {
	return f(event)
}

// Discard drops every event
var Discard Emitter = EmitterFunc(func(Event) error { return nil })

// MultiEmitter forwards each event to every emitter in order and stops at the first error
type MultiEmitter struct {
	mu       sync.Mutex
	emitters []Emitter
}

// NewMultiEmitter creates a MultiEmitter, skipping nil emitters
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	m := &MultiEmitter{}
	for _, e := range emitters {
		if e != nil {
			m.emitters = append(m.emitters, e)
		}
	}
	return m
}

// Emit implements Emitter
func (m *MultiEmitter) Emit(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.emitters {
		if err := e.Emit(event); err != nil {
			return err
		}
	}
	return nil
}

// SkeletonEnsurer is the entry point used by the embedding application
type SkeletonEnsurer interface {
	// EnsureSkeletonDownloaded fetches the skeleton of folderPath unless it is already present
	EnsureSkeletonDownloaded(ctx context.Context, folderPath string, emitter Emitter) error
}

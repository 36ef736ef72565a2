package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// ChunkSize is the size of each read from the response body
const ChunkSize = 4096

// DefaultTimeout bounds a whole download when no client is supplied
const DefaultTimeout = 30 * time.Second

// Engine streams a single remote file to disk
type Engine struct {
	client *http.Client
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil client gets DefaultTimeout, a nil logger disables logging.
func NewEngine(client *http.Client, logger *zap.Logger) *Engine {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, logger: logger}
}

// Download fetches url into destPath, emitting Started before the request and
// Progress after every chunk written. Finished is left to the caller.
//
// A failure after the destination was created leaves the partial file in place.
func (e *Engine) Download(ctx context.Context, url, destPath string, emitter Emitter) (err error) {
	if emitter == nil {
		emitter = Discard
	}
	log := e.logger.With(zap.String("url", url), zap.String("dest", destPath))

	if err := emitter.Emit(Started{DestinationPath: destPath}); err != nil {
		return NewDownloadErrorWithCause(ErrorNetwork, "failed to emit download-started event", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDownloadErrorWithCause(ErrorInvalidURL, url, err)
	}
	// transparent gzip would hide the Content-Length the server sent
	req.Header.Set("Accept-Encoding", "identity")

	log.Debug("requesting skeleton")
	resp, err := e.client.Do(req)
	if err != nil {
		return NewDownloadErrorWithCause(ErrorNetwork, "request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return classifyStatus(resp.StatusCode, resp.Status, url)
	}

	if resp.ContentLength < 0 {
		return NewDownloadError(ErrorContentLengthMissing, "").WithContext("url", url)
	}
	total := uint64(resp.ContentLength)

	out, err := os.Create(destPath)
	if err != nil {
		return NewDownloadErrorWithCause(ErrorFileCreation, fmt.Sprintf("failed to create file '%s'", destPath), err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = NewDownloadErrorWithCause(ErrorWrite, fmt.Sprintf("failed to close '%s'", destPath), cerr)
		}
	}()

	var downloaded uint64
	buf := make([]byte, ChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return NewDownloadErrorWithCause(ErrorWrite, fmt.Sprintf("failed to write to '%s'", destPath), werr)
			}
			downloaded += uint64(n)
			if eerr := emitter.Emit(Progress{BytesDownloaded: downloaded, TotalBytes: total}); eerr != nil {
				return NewDownloadErrorWithCause(ErrorNetwork, "failed to emit download-progress event", eerr)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return NewDownloadErrorWithCause(ErrorNetwork, "failed to read chunk", rerr).
				WithContext("bytes", downloaded)
		}
	}

	log.Info("skeleton downloaded", zap.Uint64("bytes", downloaded), zap.Uint64("total", total))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"spine-mod-loader/downloader"
)

// fetchResult is the outcome of a fetch
type fetchResult struct {
	Folder     string `json:"folder"`
	Downloaded bool   `json:"downloaded"`
}

// FetchHandler implements CommandHandler for "fetch"
type FetchHandler struct {
	fetcher downloader.SkeletonEnsurer
	logger  *zap.Logger
}

// NewFetchHandler creates a new FetchHandler
func NewFetchHandler(fetcher downloader.SkeletonEnsurer, logger *zap.Logger) *FetchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FetchHandler{fetcher: fetcher, logger: logger}
}

// Command returns the command string this handler processes
func (h *FetchHandler) Command() string {
	return "fetch"
}

// Usage implements CommandHandler
func (h *FetchHandler) Usage() Usage {
	return Usage{
		Args:    "FOLDER",
		Short:   "Download the skeleton a mod folder is missing",
		Long:    "Reads the .modfile marker in FOLDER, works out where the matching .skel lives in the asset repository and downloads it into FOLDER.\nNothing is downloaded when the skeleton is already there.",
		MinArgs: 1,
		MaxArgs: 1,
	}
}

// Handle processes the fetch command
func (h *FetchHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	result, err := h.ensure(ctx, cmdCtx)
	if err != nil {
		return err
	}

	return writeOutput(cmdCtx, result, func(w io.Writer) error {
		if result.Downloaded {
			// the progress bar already announced the file
			if hasEventSink(cmdCtx, EventsBar) {
				return nil
			}
			_, err := fmt.Fprintf(w, "Skeleton downloaded into %s\n", result.Folder)
			return err
		}
		_, err := fmt.Fprintf(w, "Skeleton already present in %s\n", result.Folder)
		return err
	})
}

func (h *FetchHandler) ensure(ctx context.Context, cmdCtx *CommandContext) (*fetchResult, error) {
	folder := cmdCtx.Arg(0)
	emitter := &countingEmitter{next: newEmitter(cmdCtx, h.logger)}

	if err := h.fetcher.EnsureSkeletonDownloaded(ctx, folder, emitter); err != nil {
		return nil, err
	}
	return &fetchResult{Folder: folder, Downloaded: emitter.count > 0}, nil
}

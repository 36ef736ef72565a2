package cli

import (
	"context"
	"io"

	"go.uber.org/zap"

	"spine-mod-loader/downloader"
)

// LoadHandler implements CommandHandler for "load": fetch the skeleton if it
// is missing, then resolve the folder
type LoadHandler struct {
	fetch   *FetchHandler
	resolve *ResolveHandler
	logger  *zap.Logger
}

// NewLoadHandler creates a new LoadHandler
func NewLoadHandler(fetch *FetchHandler, resolve *ResolveHandler, logger *zap.Logger) *LoadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadHandler{fetch: fetch, resolve: resolve, logger: logger}
}

// Command returns the command string this handler processes
func (h *LoadHandler) Command() string {
	return "load"
}

// Usage implements CommandHandler
func (h *LoadHandler) Usage() Usage {
	return Usage{
		Args:    "FOLDER",
		Short:   "Download a missing skeleton, then resolve the folder",
		Long:    "Runs fetch and resolve in sequence. A folder without a .modfile marker is resolved as-is.",
		MinArgs: 1,
		MaxArgs: 1,
	}
}

// Handle processes the load command
func (h *LoadHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	folder := cmdCtx.Arg(0)

	if _, err := h.fetch.ensure(ctx, cmdCtx); err != nil {
		if !downloader.IsDownloadError(err, downloader.ErrorCharacterIDNotFound) {
			return err
		}
		h.logger.Debug("no marker, resolving folder as-is", zap.String("folder", folder))
	}

	bundle, err := h.resolve.resolve(ctx, folder)
	if err != nil {
		return err
	}

	return writeOutput(cmdCtx, bundle, func(w io.Writer) error {
		return printBundle(w, folder, bundle)
	})
}

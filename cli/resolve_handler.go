package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"go.uber.org/zap"

	"spine-mod-loader/assets"
	"spine-mod-loader/history"
)

// HistoryStore is the part of history.Store the commands use
type HistoryStore interface {
	Record(ctx context.Context, folder string, category assets.ModCategory, id *string) (*history.Entry, error)
	List(ctx context.Context) ([]history.Entry, error)
	Remove(ctx context.Context, id uint) (bool, error)
	Clear(ctx context.Context) error
}

// ResolveHandler implements CommandHandler for "resolve"
type ResolveHandler struct {
	scanner *assets.Scanner
	history HistoryStore
	logger  *zap.Logger
}

// NewResolveHandler creates a new ResolveHandler. store may be nil.
func NewResolveHandler(scanner *assets.Scanner, store HistoryStore, logger *zap.Logger) *ResolveHandler {
	if scanner == nil {
		scanner = assets.NewScanner(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolveHandler{scanner: scanner, history: store, logger: logger}
}

// Command returns the command string this handler processes
func (h *ResolveHandler) Command() string {
	return "resolve"
}

// Usage implements CommandHandler
func (h *ResolveHandler) Usage() Usage {
	return Usage{
		Args:    "FOLDER",
		Short:   "Bundle the skeleton, atlas and textures of a mod folder",
		Long:    "Scans FOLDER for .skel/.json, .atlas and .png files, classifies it by its .modfile marker and prints the bundle.\nWith --output json the bundle is printed in its transport form, every file embedded as a data URI.",
		MinArgs: 1,
		MaxArgs: 1,
	}
}

// Handle processes the resolve command
func (h *ResolveHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	folder := cmdCtx.Arg(0)

	bundle, err := h.resolve(ctx, folder)
	if err != nil {
		return err
	}

	return writeOutput(cmdCtx, bundle, func(w io.Writer) error {
		return printBundle(w, folder, bundle)
	})
}

// resolve scans folder and records it in the history
func (h *ResolveHandler) resolve(ctx context.Context, folder string) (*assets.AssetBundle, error) {
	bundle, err := h.scanner.ResolveAssets(folder)
	if err != nil {
		return nil, err
	}

	if h.history != nil {
		path := folder
		if abs, err := filepath.Abs(folder); err == nil {
			path = abs
		}
		if _, err := h.history.Record(ctx, path, bundle.Category, bundle.Identifier); err != nil {
			h.logger.Warn("failed to record folder in history", zap.String("folder", path), zap.Error(err))
		}
	}
	return bundle, nil
}

func printBundle(w io.Writer, folder string, bundle *assets.AssetBundle) error {
	id := bundle.ID()
	if id == "" {
		id = "-"
	}

	info := uitable.New()
	info.AddRow("Folder:", folder)
	info.AddRow("Type:", bundle.Category)
	info.AddRow("ID:", id)
	info.AddRow("Skeleton:", bundle.SkeletonFileName)
	info.AddRow("Atlas:", bundle.AtlasFileName)
	if _, err := fmt.Fprintf(w, "%s\n\n", info); err != nil {
		return err
	}

	names := make([]string, 0, len(bundle.Payloads))
	for name := range bundle.Payloads {
		names = append(names, name)
	}
	sort.Strings(names)

	files := uitable.New()
	files.AddRow("FILE", "MIME", "SIZE")
	for _, name := range names {
		blob := bundle.Payloads[name]
		files.AddRow(name, blob.MimeType, humanize.Bytes(payloadSize(blob)))
	}
	_, err := fmt.Fprintln(w, files)
	return err
}

// payloadSize returns the decoded size of a blob
func payloadSize(blob assets.TransportBlob) uint64 {
	data, err := blob.Decode()
	if err != nil {
		return 0
	}
	return uint64(len(data))
}

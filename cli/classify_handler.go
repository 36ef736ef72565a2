package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gosuri/uitable"

	"spine-mod-loader/assets"
	"spine-mod-loader/downloader"
)

// classification is the classify command's result
type classification struct {
	Folder          string                     `json:"folder"`
	ModType         assets.ModCategory         `json:"modType"`
	ModID           *string                    `json:"modId"`
	Target          *downloader.DownloadTarget `json:"target,omitempty"`
	URL             string                     `json:"url,omitempty"`
	SkeletonPresent bool                       `json:"skeletonPresent"`
}

// ClassifyHandler implements CommandHandler for "classify"
type ClassifyHandler struct {
	fetcher *downloader.SkeletonFetcher
}

// NewClassifyHandler creates a new ClassifyHandler
func NewClassifyHandler(fetcher *downloader.SkeletonFetcher) *ClassifyHandler {
	if fetcher == nil {
		fetcher = downloader.NewSkeletonFetcher(nil, nil, nil)
	}
	return &ClassifyHandler{fetcher: fetcher}
}

// Command returns the command string this handler processes
func (h *ClassifyHandler) Command() string {
	return "classify"
}

// Usage implements CommandHandler
func (h *ClassifyHandler) Usage() Usage {
	return Usage{
		Args:    "FOLDER",
		Short:   "Show the mod type of a folder and where its skeleton comes from",
		MinArgs: 1,
		MaxArgs: 1,
	}
}

// Handle processes the classify command
func (h *ClassifyHandler) Handle(ctx context.Context, cmdCtx *CommandContext) error {
	folder := cmdCtx.Arg(0)
	if _, err := os.Stat(folder); err != nil {
		return newUsageError("cannot classify %s: %v", folder, err)
	}

	category, target, err := h.fetcher.Target(folder)
	result := &classification{Folder: folder, ModType: category}

	switch {
	case downloader.IsDownloadError(err, downloader.ErrorCharacterIDNotFound):
		// unclassified folders have nothing to download
	case err != nil:
		return err
	default:
		_, id := assets.DetectFolderType(folder)
		result.ModID = id
		result.Target = &target
		result.URL = target.URL()
		_, statErr := os.Stat(filepath.Join(folder, target.LocalFileName))
		result.SkeletonPresent = statErr == nil
	}

	return writeOutput(cmdCtx, result, func(w io.Writer) error {
		tbl := uitable.New()
		tbl.AddRow("Folder:", result.Folder)
		tbl.AddRow("Type:", result.ModType)
		if result.ModID == nil {
			tbl.AddRow("ID:", "-")
		} else {
			tbl.AddRow("ID:", *result.ModID)
		}
		if result.Target != nil {
			tbl.AddRow("Skeleton:", result.Target.LocalFileName)
			tbl.AddRow("Source:", result.URL)
			tbl.AddRow("Present:", result.SkeletonPresent)
		}
		_, err := fmt.Fprintln(w, tbl)
		return err
	})
}

package cli

import (
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"spine-mod-loader/assets"
	"spine-mod-loader/downloader"
)

// Dependencies wires the commands to their collaborators. Zero values fall
// back to defaults.
type Dependencies struct {
	Logger          *zap.Logger
	HTTPClient      *http.Client
	RepoURL         string
	CutsceneRepoURL string
	History         HistoryStore
	Out             io.Writer
	Err             io.Writer
	Version         string
}

// NewApp builds a router with every command registered
func NewApp(deps Dependencies) *CommandRouter {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out, errOut := deps.Out, deps.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	resolver := downloader.NewResolver(deps.RepoURL, deps.CutsceneRepoURL)
	engine := downloader.NewEngine(deps.HTTPClient, logger.Named("downloader"))
	fetcher := downloader.NewSkeletonFetcher(resolver, engine, logger.Named("downloader"))
	scanner := assets.NewScanner(logger.Named("assets"))

	resolve := NewResolveHandler(scanner, deps.History, logger)
	fetch := NewFetchHandler(fetcher, logger)

	router := NewCommandRouter(logger, out, errOut)
	router.SetVersion(deps.Version)
	router.RegisterHandler(resolve)
	router.RegisterHandler(fetch)
	router.RegisterHandler(NewLoadHandler(fetch, resolve, logger))
	router.RegisterHandler(NewClassifyHandler(fetcher))
	router.RegisterHandler(NewHistoryListHandler(deps.History))
	router.RegisterHandler(NewHistoryRemoveHandler(deps.History))
	router.RegisterHandler(NewHistoryClearHandler(deps.History))
	return router
}

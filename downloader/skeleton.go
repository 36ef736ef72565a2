package downloader

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"spine-mod-loader/assets"
)

// SkeletonFetcher downloads the skeleton a mod folder is missing
type SkeletonFetcher struct {
	resolver *Resolver
	engine   *Engine
	logger   *zap.Logger
}

// NewSkeletonFetcher wires a resolver and an engine together
func NewSkeletonFetcher(resolver *Resolver, engine *Engine, logger *zap.Logger) *SkeletonFetcher {
	if resolver == nil {
		resolver = NewResolver("", "")
	}
	if engine == nil {
		engine = NewEngine(nil, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkeletonFetcher{
		resolver: resolver,
		engine:   engine,
		logger:   logger,
	}
}

// Target classifies folderPath and resolves where its skeleton comes from
func (sf *SkeletonFetcher) Target(folderPath string) (assets.ModCategory, DownloadTarget, error) {
	category, id := assets.DetectFolderType(folderPath)
	if id == nil || *id == "" {
		return category, DownloadTarget{}, NewDownloadError(ErrorCharacterIDNotFound, "").
			WithContext("folder", folderPath)
	}
	target, err := sf.resolver.Resolve(category, *id)
	return category, target, err
}

// EnsureSkeletonDownloaded implements SkeletonEnsurer. When the skeleton file is
// already in the folder nothing is requested and no event is emitted.
func (sf *SkeletonFetcher) EnsureSkeletonDownloaded(ctx context.Context, folderPath string, emitter Emitter) error {
	if emitter == nil {
		emitter = Discard
	}

	category, target, err := sf.Target(folderPath)
	if err != nil {
		return err
	}

	dest := filepath.Join(folderPath, target.LocalFileName)
	if _, err := os.Stat(dest); err == nil {
		sf.logger.Debug("skeleton already present", zap.String("dest", dest))
		return nil
	}

	sf.logger.Info("downloading missing skeleton",
		zap.String("folder", folderPath),
		zap.Stringer("category", category),
		zap.String("url", target.URL()))

	if err := sf.engine.Download(ctx, target.URL(), dest, emitter); err != nil {
		return err
	}

	if err := emitter.Emit(Finished{DestinationPath: folderPath}); err != nil {
		return NewDownloadErrorWithCause(ErrorNetwork, "failed to emit download-finished event", err)
	}
	return nil
}

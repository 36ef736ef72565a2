package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Scanner collects the asset files of a mod folder
type Scanner struct {
	logger *zap.Logger
}

// NewScanner creates a Scanner. A nil logger disables logging.
func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{logger: logger}
}

// ResolveAssets scans dir with a Scanner that does not log
func ResolveAssets(dir string) (*AssetBundle, error) {
	return NewScanner(nil).ResolveAssets(dir)
}

// ResolveAssets lists dir once, encodes every skeleton, atlas and png file and
// classifies the folder. The bundle is only returned when both a skeleton
// (.json or .skel) and an atlas were found.
func (s *Scanner) ResolveAssets(dir string) (*AssetBundle, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newResolutionError(ErrorDirectoryNotFound, dir, nil)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newResolutionError(ErrorDirectoryInvalid, dir, err)
	}

	payloads := make(map[string]TransportBlob)
	var skeletonPath, atlasPath string

	for _, entry := range entries {
		if !isRegularFile(dir, entry) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		switch filepath.Ext(entry.Name()) {
		case ".json", ".skel":
			if skeletonPath != "" {
				s.logger.Debug("replacing skeleton candidate",
					zap.String("previous", skeletonPath), zap.String("file", path))
			}
			skeletonPath = path
		case ".atlas":
			atlasPath = path
		case ".png":
		default:
			continue
		}

		name, blob, err := EncodeFile(path)
		if err != nil {
			return nil, err
		}
		payloads[name] = blob
	}

	if skeletonPath == "" {
		return nil, newResolutionError(ErrorMissingSkeletonOrJSON, "", nil)
	}
	if atlasPath == "" {
		return nil, newResolutionError(ErrorMissingAtlas, "", nil)
	}

	skeletonName, ok := fileName(skeletonPath)
	if !ok {
		return nil, newResolutionError(ErrorInvalidSkeletonFileName, "", nil)
	}
	atlasName, ok := fileName(atlasPath)
	if !ok {
		return nil, newResolutionError(ErrorInvalidAtlasFileName, "", nil)
	}

	category, id := DetectFolderType(dir)

	s.logger.Debug("resolved assets",
		zap.String("folder", dir),
		zap.Stringer("category", category),
		zap.String("skeleton", skeletonName),
		zap.String("atlas", atlasName),
		zap.Int("files", len(payloads)))

	return &AssetBundle{
		Category:         category,
		Identifier:       id,
		SkeletonFileName: skeletonName,
		AtlasFileName:    atlasName,
		Payloads:         payloads,
	}, nil
}

package downloader

import (
	"fmt"
	"net/url"
	"strings"

	"spine-mod-loader/assets"
)

const (
	// DefaultRepoURL hosts idle, npc and illustration skeletons
	DefaultRepoURL = "https://raw.githubusercontent.com/bruhnn/Brown-Dust-2-Asset/refs/heads/master/"
	// DefaultCutsceneRepoURL hosts cutscene skeletons
	DefaultCutsceneRepoURL = "https://raw.githubusercontent.com/myssal/Brown-Dust-2-Asset/refs/heads/master/"
)

// categoryDirs maps a category to its folder inside the asset repository
var categoryDirs = map[assets.ModCategory]string{
	assets.Idle:          "spine/char/",
	assets.Cutscene:      "spine/cutscenes/",
	assets.IllustDating:  "spine/illust/illust_dating/",
	assets.IllustSpecial: "spine/illust/illust_special/",
	assets.SpecialIllust: "spine/illust/illust_special/",
	assets.IllustTalk:    "spine/illust/illust_talk/",
	assets.Npc:           "spine/npc/",
}

// DownloadTarget describes where a skeleton lives remotely and what it is called locally
type DownloadTarget struct {
	BaseURL       string `json:"baseUrl"`
	RemotePath    string `json:"remotePath"`
	LocalFileName string `json:"localFileName"`
}

// URL returns the fully qualified remote location
func (t DownloadTarget) URL() string {
	return t.BaseURL + t.RemotePath
}

// Resolver maps a category and identifier to a DownloadTarget
type Resolver struct {
	repoURL         string
	cutsceneRepoURL string
}

// NewResolver creates a Resolver. Empty roots fall back to the public repositories.
func NewResolver(repoURL, cutsceneRepoURL string) *Resolver {
	if repoURL == "" {
		repoURL = DefaultRepoURL
	}
	if cutsceneRepoURL == "" {
		cutsceneRepoURL = DefaultCutsceneRepoURL
	}
	return &Resolver{
		repoURL:         withTrailingSlash(repoURL),
		cutsceneRepoURL: withTrailingSlash(cutsceneRepoURL),
	}
}

// BaseURL returns the remote folder that holds skeletons of the category
func (r *Resolver) BaseURL(category assets.ModCategory) (string, error) {
	dir, ok := categoryDirs[category]
	if !ok {
		return "", NewDownloadError(ErrorUnsupportedModType, "").WithContext("category", category.String())
	}
	if category == assets.Cutscene {
		return r.cutsceneRepoURL + dir, nil
	}
	return r.repoURL + dir, nil
}

// Resolve returns the download target for the skeleton of category/id. The
// identifier is path-escaped in RemotePath and kept as-is in LocalFileName.
func (r *Resolver) Resolve(category assets.ModCategory, id string) (DownloadTarget, error) {
	base, err := r.BaseURL(category)
	if err != nil {
		return DownloadTarget{}, err
	}
	name := category.Prefix() + id
	segment := url.PathEscape(name)
	return DownloadTarget{
		BaseURL:       base,
		RemotePath:    fmt.Sprintf("%s/%s.skel", segment, segment),
		LocalFileName: name + ".skel",
	}, nil
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spine-mod-loader/assets"
	"spine-mod-loader/history"
)

var skeletonBody = bytes.Repeat([]byte{0x5c, 0x00, 0xff, 0x10}, 3000)

// newAssetServer serves char42's skeleton and 404s everything else
func newAssetServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spine/char/char42/char42.skel" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(skeletonBody)))
		_, _ = w.Write(skeletonBody)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newModFolder creates a char42 folder without its skeleton
func newModFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"char42.modfile": nil,
		"char42.atlas":   []byte("char42.png\nsize: 64,64\n"),
		"char42.png":     {0x89, 'P', 'N', 'G', 0x0d, 0x0a},
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

type testApp struct {
	router *CommandRouter
	out    *bytes.Buffer
	errOut *bytes.Buffer
	store  *history.Store
}

func newTestApp(t *testing.T, srv *httptest.Server, withHistory bool) *testApp {
	t.Helper()
	app := &testApp{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}

	deps := Dependencies{
		HTTPClient:      srv.Client(),
		RepoURL:         srv.URL,
		CutsceneRepoURL: srv.URL,
		Out:             app.out,
		Err:             app.errOut,
		Version:         "1.2.3-test",
	}
	if withHistory {
		store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		app.store = store
		deps.History = store
	}

	app.router = NewApp(deps)
	return app
}

func (a *testApp) run(args ...string) int {
	a.out.Reset()
	a.errOut.Reset()
	return a.router.Execute(context.Background(), args)
}

func TestLoad_DownloadsAndResolves(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), true)
	dir := newModFolder(t)

	code := app.run("load", dir, "--events", "none", "-o", "json")
	require.Equal(t, ExitOK, code, app.errOut.String())

	var bundle assets.AssetBundle
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &bundle))
	assert.Equal(t, assets.Idle, bundle.Category)
	assert.Equal(t, "42", bundle.ID())
	assert.Equal(t, "char42.skel", bundle.SkeletonFileName)
	assert.Equal(t, "char42.atlas", bundle.AtlasFileName)
	require.Len(t, bundle.Payloads, 3)

	skel, err := bundle.Payloads["char42.skel"].Decode()
	require.NoError(t, err)
	assert.Equal(t, skeletonBody, skel)

	entries, err := app.store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, entries[0].Path)
	assert.Equal(t, "idle", entries[0].ModType)
}

func TestFetch_TextOutput(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := newModFolder(t)

	require.Equal(t, ExitOK, app.run("fetch", dir, "--events", "log"))
	assert.Equal(t, "Skeleton downloaded into "+dir+"\n", app.out.String())
	assert.FileExists(t, filepath.Join(dir, "char42.skel"))

	require.Equal(t, ExitOK, app.run("fetch", dir))
	assert.Equal(t, "Skeleton already present in "+dir+"\n", app.out.String())
}

func TestFetch_ProgressBar(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := newModFolder(t)

	require.Equal(t, ExitOK, app.run("fetch", dir))
	assert.Empty(t, app.out.String())
	assert.Contains(t, app.errOut.String(), "Downloading char42.skel")
	assert.Contains(t, app.errOut.String(), "char42.skel saved to "+dir)
}

func TestFetch_CombinedEventSinks(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := newModFolder(t)

	require.Equal(t, ExitOK, app.run("fetch", dir, "--events", "bar,json"))
	assert.Contains(t, app.errOut.String(), "Downloading char42.skel")
	assert.Contains(t, app.out.String(), `{"event":"download-started"`)
	assert.Contains(t, app.out.String(), `{"event":"download-finished","payload":{"destinationPath":"`+dir+`"}}`)
	assert.NotContains(t, app.out.String(), "Skeleton downloaded into")
}

func TestFetch_JSONEvents(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := newModFolder(t)

	require.Equal(t, ExitOK, app.run("fetch", dir, "--events", "json", "-o", "json"))

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(app.out)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.GreaterOrEqual(t, len(lines), 4)

	assert.Equal(t, "download-started", lines[0]["event"])
	assert.Equal(t, "download-progress", lines[1]["event"])
	finished := lines[len(lines)-2]
	assert.Equal(t, "download-finished", finished["event"])
	assert.Equal(t, map[string]interface{}{"destinationPath": dir}, finished["payload"])
	assert.Equal(t, map[string]interface{}{"folder": dir, "downloaded": true}, lines[len(lines)-1])
}

func TestFetch_SkeletonNotFound(t *testing.T) {
	srv := newAssetServer(t)
	app := newTestApp(t, srv, false)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "npc9.modfile"), nil, 0o644))

	require.Equal(t, ExitFailure, app.run("fetch", dir, "-o", "json", "--events", "none"))

	var report struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
		CorrelationID string `json:"correlationId"`
	}
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &report))
	assert.Equal(t, "SkeletonNotFound", report.Error.Type)
	assert.Equal(t, srv.URL+"/spine/npc/npc9/npc9.skel", report.Error.Message)
	assert.Len(t, report.CorrelationID, 36)
}

func TestResolve_TextOutput(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := newModFolder(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "char42.skel"), skeletonBody, 0o644))

	require.Equal(t, ExitOK, app.run("resolve", dir))
	out := app.out.String()
	assert.Contains(t, out, "idle")
	assert.Contains(t, out, "char42.skel")
	assert.Contains(t, out, "image/png")
	assert.Contains(t, out, "12 kB")
}

func TestResolve_MissingSkeleton(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), true)
	dir := newModFolder(t)

	require.Equal(t, ExitFailure, app.run("resolve", dir))
	assert.Contains(t, app.errOut.String(), "No skeleton")
	assert.Contains(t, app.errOut.String(), "Error ID:")
	assert.Empty(t, app.out.String())

	entries, err := app.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries, "failed resolutions are not recorded")
}

func TestLoad_WithoutMarkerResolvesAsIs(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero.json"), []byte(`{"skeleton":{}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero.atlas"), []byte("hero.png\n"), 0o644))

	require.Equal(t, ExitOK, app.run("load", dir, "-o", "json"))

	var bundle assets.AssetBundle
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &bundle))
	assert.Equal(t, assets.Unknown, bundle.Category)
	assert.Nil(t, bundle.Identifier)
	assert.Equal(t, "hero.json", bundle.SkeletonFileName)
}

func TestClassify(t *testing.T) {
	srv := newAssetServer(t)
	app := newTestApp(t, srv, false)
	dir := newModFolder(t)

	require.Equal(t, ExitOK, app.run("classify", dir, "-o", "json"))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &result))
	assert.Equal(t, "idle", result["modType"])
	assert.Equal(t, "42", result["modId"])
	assert.Equal(t, srv.URL+"/spine/char/char42/char42.skel", result["url"])
	assert.Equal(t, false, result["skeletonPresent"])

	require.Equal(t, ExitOK, app.run("classify", dir, "-o", "yaml"))
	assert.Contains(t, app.out.String(), "modType: idle")
	assert.Contains(t, app.out.String(), "localFileName: char42.skel")
}

func TestClassify_Unclassified(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)
	dir := t.TempDir()

	require.Equal(t, ExitOK, app.run("classify", dir, "-o", "json"))
	assert.JSONEq(t, `{"folder":"`+dir+`","modType":"unknown","modId":null,"skeletonPresent":false}`, app.out.String())

	require.Equal(t, ExitUsage, app.run("classify", filepath.Join(dir, "missing")))
}

func TestHistoryCommands(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), true)
	dir := newModFolder(t)
	require.Equal(t, ExitOK, app.run("load", dir, "--events", "none"))

	require.Equal(t, ExitOK, app.run("history", "list", "-o", "json"))
	var entries []history.Entry
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &entries))
	require.Len(t, entries, 1)
	id := entries[0].ID

	require.Equal(t, ExitOK, app.run("history", "list"))
	assert.Contains(t, app.out.String(), "PATH")
	assert.Contains(t, app.out.String(), "idle")

	require.Equal(t, ExitUsage, app.run("history", "remove", "abc"))

	require.Equal(t, ExitOK, app.run("history", "remove", strconv.FormatUint(uint64(id), 10)))
	assert.Equal(t, "Removed history entry "+strconv.FormatUint(uint64(id), 10)+"\n", app.out.String())

	require.Equal(t, ExitFailure, app.run("history", "remove", strconv.FormatUint(uint64(id), 10)))
	assert.Contains(t, app.errOut.String(), "no history entry")

	require.Equal(t, ExitOK, app.run("history", "clear"))
	require.Equal(t, ExitOK, app.run("history", "list"))
	assert.Equal(t, "No folders in history\n", app.out.String())
}

func TestHistoryDisabled(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)

	require.Equal(t, ExitFailure, app.run("history", "list"))
	assert.Contains(t, app.errOut.String(), "history is disabled")

	require.Equal(t, ExitFailure, app.run("history", "clear", "-o", "json"))
	assert.Contains(t, app.out.String(), `"type":"HistoryError"`)
}

func TestUsageErrors(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"explode"}},
		{"missing folder", []string{"resolve"}},
		{"too many folders", []string{"fetch", "a", "b"}},
		{"unknown flag", []string{"resolve", "a", "--colour"}},
		{"bad output format", []string{"resolve", "a", "-o", "xml"}},
		{"bad event sink", []string{"fetch", "a", "--events", "beep"}},
		{"bad event sink in list", []string{"fetch", "a", "--events", "bar,beep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ExitUsage, app.run(tt.args...))
			assert.True(t, strings.HasPrefix(app.errOut.String(), "Error: "), app.errOut.String())
		})
	}
}

func TestVersion(t *testing.T) {
	app := newTestApp(t, newAssetServer(t), false)

	require.Equal(t, ExitOK, app.run("--version"))
	assert.Contains(t, app.out.String(), "1.2.3-test")
}

package app

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/lueurxax/dc-comment-filter/internal/commentview"
	"github.com/lueurxax/dc-comment-filter/internal/platform/config"
)

const testPage = `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body>` +
	`<div class="comment-shell"><h2>댓글</h2><ul class="comment-list">` +
	`<li><div class="comment-main"><p>도배</p></div></li>` +
	`<li><div class="comment-main"><p>도배</p></div></li>` +
	`<li><div class="comment-main"><p>도배</p></div></li>` +
	`<li><div class="comment-main"><p>정상 댓글</p></div></li>` +
	`</ul></div></body></html>`

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()

	logger := zerolog.Nop()

	if cfg == nil {
		cfg = &config.Config{}
	}

	return New(cfg, &logger)
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	out := filepath.Join(dir, "filtered.html")

	require.NoError(t, os.WriteFile(in, []byte(testPage), 0o600))

	a := newTestApp(t, nil)
	require.NoError(t, a.RunFile(FileOptions{In: in, Out: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(string(data), commentview.ClassHidden))
	assert.Contains(t, string(data), commentview.ShowLabel(3))
}

func TestRunFile_LegacyCharset(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.html")
	out := filepath.Join(dir, "filtered.html")

	page := strings.Replace(testPage, `<meta charset="utf-8">`, `<meta charset="euc-kr">`, 1)

	encoded, err := korean.EUCKR.NewEncoder().String(page)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, []byte(encoded), 0o600))

	a := newTestApp(t, nil)
	require.NoError(t, a.RunFile(FileOptions{In: in, Out: out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Contains(t, string(data), `<meta charset="utf-8"/>`)
	assert.NotContains(t, string(data), "euc-kr")
	assert.Contains(t, string(data), commentview.ShowLabel(3))
	assert.Contains(t, string(data), "정상 댓글")
}

func TestRunFile_RevealToStdout(t *testing.T) {
	a := newTestApp(t, nil)

	var stdout bytes.Buffer

	a.stdin = strings.NewReader(testPage)
	a.stdout = &stdout

	require.NoError(t, a.RunFile(FileOptions{In: "-", Reveal: true}))

	assert.Equal(t, 3, strings.Count(stdout.String(), commentview.ClassHighlight))
	assert.Contains(t, stdout.String(), commentview.HideLabel)
}

func TestRunFile_CleanPageUnchanged(t *testing.T) {
	a := newTestApp(t, nil)

	page := `<html><body><p>no comments</p></body></html>`

	var stdout bytes.Buffer

	a.stdin = strings.NewReader(page)
	a.stdout = &stdout

	require.NoError(t, a.RunFile(FileOptions{}))
	assert.Equal(t, page, stdout.String())
}

func TestRunFile_MissingInput(t *testing.T) {
	a := newTestApp(t, nil)

	err := a.RunFile(FileOptions{In: filepath.Join(t.TempDir(), "missing.html")})
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, testPage)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		UpstreamURL:        upstream.URL,
		MaxBodyBytes:       1 << 20,
		RateLimitRPS:       0.001,
		RateLimitBurst:     3,
		RevealQueryParam:   "spam",
		FilterPathPrefixes: []string{"/read"},
	}

	a := newTestApp(t, cfg)

	proxy, err := commentview.NewProxy(cfg.ProxyCfg(), a.filter, a.logger)
	require.NoError(t, err)

	h := a.newHandler(proxy, commentview.NewClientLimiter(cfg.RateLimitCfg()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read?no=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), commentview.ClassToggle)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, commentview.ClassifyPath,
		strings.NewReader(`{"comments":[{"text":"a"},{"text":"a"},{"text":"a"}]}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hidden":[0,1,2],"verdicts":[
		{"spam":true,"reasons":["spam_repeated"]},
		{"spam":true,"reasons":["spam_repeated"]},
		{"spam":true,"reasons":["spam_repeated"]}]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read?no=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/read?no=1", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

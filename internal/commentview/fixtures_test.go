package commentview

import (
	"html"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/dc-comment-filter/internal/process/filters"
)

func textItem(text string) string {
	return `<li><div class="comment-main"><p>` + html.EscapeString(text) + `</p></div></li>`
}

func stickerItem(text string) string {
	return `<li><div class="comment-main"><p>` + html.EscapeString(text) +
		`</p><img class="dccon" src="/media/con.gif"></div></li>`
}

func boardPage(items ...string) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><title>글</title></head><body>` +
		`<article><p>본문</p></article>` +
		`<section class="comment-shell"><h2>댓글</h2><ul class="comment-list">` +
		strings.Join(items, "") +
		`</ul></section></body></html>`
}

// spamPage has three comments that normalize alike, one deleted placeholder
// and two ordinary comments. Four of six items are spam.
func spamPage() string {
	return boardPage(
		textItem("광고 보세요"),
		textItem("좋은 글이네요"),
		textItem("광고 보세요~~"),
		textItem("광고   보세요"),
		textItem(filters.DeletedMarker),
		textItem("광고 보세요!!"),
	)
}

func mustParse(t *testing.T, markup string) *Page {
	t.Helper()

	page, err := ParsePage(strings.NewReader(markup))
	require.NoError(t, err)

	return page
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

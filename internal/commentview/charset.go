package commentview

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/lueurxax/dc-comment-filter/internal/core/errors"
)

const (
	mediaTypeHTML = "text/html"
	encodingUTF8  = "utf-8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// isHTML reports whether a Content-Type header names an HTML document.
func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), mediaTypeHTML)
	}

	return mediaType == mediaTypeHTML
}

// DecodeHTML converts an HTML body to UTF-8. A charset in contentType or a
// byte order mark wins; otherwise a valid UTF-8 body is kept as is and the
// <meta> declaration decides for anything else.
func DecodeHTML(body []byte, contentType string) ([]byte, error) {
	if contentType != "" && !isHTML(contentType) {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotHTML, contentType)
	}

	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == encodingUTF8 || (!certain && utf8.Valid(body)) {
		return bytes.TrimPrefix(body, utf8BOM), nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return decoded, nil
}

// readLimited reads at most limit bytes. It reports ErrBodyTooLarge together
// with the bytes already consumed when the body is longer.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return data, fmt.Errorf("read body: %w", err)
	}

	if int64(len(data)) > limit {
		return data, errors.ErrBodyTooLarge
	}

	return data, nil
}

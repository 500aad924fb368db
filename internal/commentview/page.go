package commentview

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lueurxax/dc-comment-filter/internal/core/domain"
	"github.com/lueurxax/dc-comment-filter/internal/core/errors"
	"github.com/lueurxax/dc-comment-filter/internal/platform/htmlutils"
)

// Board markup selectors.
const (
	selectorList    = ".comment-list"
	selectorItems   = "li"
	selectorText    = ".comment-main p"
	selectorSticker = ".comment-main img.dccon"
	selectorPanel   = ".comment-shell"
	selectorTitle   = "h2"
)

// Charset declaration attributes.
const (
	attrCharset   = "charset"
	attrHTTPEquiv = "http-equiv"
	attrContent   = "content"
	charsetUTF8   = "utf-8"
)

// Page is a parsed board page with its comment list located.
// Comment text is read once at parse time.
type Page struct {
	doc      *goquery.Document
	panel    *goquery.Selection
	items    []*html.Node
	comments []domain.Comment
}

// ParsePage parses an HTML document and locates the comment list and panel.
// It returns ErrNoCommentList, ErrNoCommentPanel or ErrNoComments when the page
// has nothing to filter.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return newPage(doc)
}

// NewPage wraps an already parsed document tree.
func NewPage(root *html.Node) (*Page, error) {
	if root == nil {
		return nil, errors.ErrInvalidInput
	}

	return newPage(goquery.NewDocumentFromNode(root))
}

func newPage(doc *goquery.Document) (*Page, error) {
	list := doc.Find(selectorList).First()
	if list.Length() == 0 {
		return nil, errors.ErrNoCommentList
	}

	panel := doc.Find(selectorPanel).First()
	if panel.Length() == 0 {
		return nil, errors.ErrNoCommentPanel
	}

	items := list.ChildrenFiltered(selectorItems)
	if items.Length() == 0 {
		return nil, errors.ErrNoComments
	}

	p := &Page{
		doc:      doc,
		panel:    panel,
		items:    items.Nodes,
		comments: make([]domain.Comment, 0, items.Length()),
	}

	items.Each(func(_ int, li *goquery.Selection) {
		p.comments = append(p.comments, readComment(li))
	})

	return p, nil
}

func readComment(li *goquery.Selection) domain.Comment {
	var text string
	if p := li.Find(selectorText).First(); p.Length() > 0 {
		text = htmlutils.InnerText(p.Get(0))
	}

	return domain.Comment{
		Text:             text,
		IsSpecialContent: li.Find(selectorSticker).Length() > 0,
	}
}

// Comments returns the comments in document order.
func (p *Page) Comments() []domain.Comment {
	return p.comments
}

// Item returns the list element of the i-th comment.
func (p *Page) Item(i int) *html.Node {
	return p.items[i]
}

// Panel returns the comment panel that hosts the toggle control.
func (p *Page) Panel() *goquery.Selection {
	return p.panel
}

// DeclareUTF8 rewrites <meta charset> and http-equiv Content-Type
// declarations to UTF-8. Render always emits UTF-8, so a page decoded from
// another charset must not keep claiming it. It returns the number of
// declarations changed.
func (p *Page) DeclareUTF8() int {
	changed := 0

	p.doc.Find("meta").Each(func(_ int, meta *goquery.Selection) {
		n := meta.Get(0)

		if cs, ok := htmlutils.GetAttr(n, attrCharset); ok && !strings.EqualFold(strings.TrimSpace(cs), charsetUTF8) {
			htmlutils.SetAttr(n, attrCharset, charsetUTF8)
			changed++
		}

		equiv, _ := htmlutils.GetAttr(n, attrHTTPEquiv)
		if !strings.EqualFold(strings.TrimSpace(equiv), headerContentType) {
			return
		}

		if content, _ := htmlutils.GetAttr(n, attrContent); content != contentTypeHTMLUTF8 {
			htmlutils.SetAttr(n, attrContent, contentTypeHTMLUTF8)
			changed++
		}
	})

	return changed
}

// Render writes the document, including any applied mutations.
func (p *Page) Render(w io.Writer) error {
	for _, n := range p.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render page: %w", err)
		}
	}

	return nil
}

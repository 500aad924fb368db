package commentview

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lueurxax/dc-comment-filter/internal/platform/htmlutils"
)

// Classes applied to the page.
const (
	ClassHidden    = "comment-spam-hidden"
	ClassHighlight = "comment-spam-highlight"
	ClassToggle    = "comment-spam-toggle"
)

// HideLabel is the control label while spam comments are shown.
const HideLabel = "도배 댓글 숨기기"

const (
	attrAriaPressed = "aria-pressed"
	attrHref        = "href"
)

// ShowLabel is the control label while n spam comments are hidden.
func ShowLabel(n int) string {
	return fmt.Sprintf("도배 댓글 보기 (%d)", n)
}

// State is the visibility of the hidden comment set.
type State int

const (
	StateHidden State = iota
	StateRevealed
)

func (s State) String() string {
	if s == StateRevealed {
		return "revealed"
	}

	return "hidden"
}

// ControlLinks makes the control an anchor that navigates between the two states.
// Show is followed from the hidden state, Hide from the revealed one.
type ControlLinks struct {
	Show string
	Hide string
}

// Controller owns one page's hidden comment set and its toggle control.
// It is not safe for concurrent use.
type Controller struct {
	hidden  []*html.Node
	control *html.Node
	links   *ControlLinks
	state   State
}

// NewController hides every node in hidden and inserts the toggle control
// after the first h2 of panel, or at the start of panel when it has no heading.
// It returns nil and changes nothing when hidden is empty.
func NewController(panel *goquery.Selection, hidden []*html.Node, links *ControlLinks) *Controller {
	if len(hidden) == 0 || panel == nil || panel.Length() == 0 {
		return nil
	}

	c := &Controller{
		hidden: hidden,
		links:  links,
		state:  StateHidden,
	}

	for _, n := range hidden {
		htmlutils.AddClass(n, ClassHidden)
	}

	c.control = c.newControl()
	c.render()

	panel = panel.First()
	if title := panel.Find(selectorTitle).First(); title.Length() > 0 {
		title.AfterNodes(c.control)
	} else {
		panel.PrependNodes(c.control)
	}

	return c
}

func (c *Controller) newControl() *html.Node {
	if c.links != nil {
		return &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "class", Val: ClassToggle},
				{Key: "role", Val: "button"},
			},
		}
	}

	return &html.Node{
		Type:     html.ElementNode,
		Data:     "button",
		DataAtom: atom.Button,
		Attr: []html.Attribute{
			{Key: "type", Val: "button"},
			{Key: "class", Val: ClassToggle},
		},
	}
}

// Toggle flips between the hidden and revealed states and returns the new state.
func (c *Controller) Toggle() State {
	showing := c.state == StateHidden

	for _, n := range c.hidden {
		htmlutils.SetClass(n, ClassHidden, !showing)
		htmlutils.SetClass(n, ClassHighlight, showing)
	}

	if showing {
		c.state = StateRevealed
	} else {
		c.state = StateHidden
	}

	c.render()

	return c.state
}

func (c *Controller) render() {
	htmlutils.SetText(c.control, c.Label())
	htmlutils.SetAttr(c.control, attrAriaPressed, fmt.Sprint(c.Showing()))

	if c.links == nil {
		return
	}

	href := c.links.Show
	if c.Showing() {
		href = c.links.Hide
	}

	htmlutils.SetAttr(c.control, attrHref, href)
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Showing reports whether spam comments are currently visible.
func (c *Controller) Showing() bool {
	return c.state == StateRevealed
}

// Label returns the control label for the current state.
func (c *Controller) Label() string {
	if c.Showing() {
		return HideLabel
	}

	return ShowLabel(len(c.hidden))
}

// HiddenCount returns the size of the hidden set.
func (c *Controller) HiddenCount() int {
	return len(c.hidden)
}

// Control returns the inserted toggle element.
func (c *Controller) Control() *html.Node {
	return c.control
}

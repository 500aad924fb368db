// Package commentview applies spam classification to rendered board pages.
//
// A page is parsed once, its comments are classified, spam items get the
// hidden class and a toggle control is inserted into the comment panel.
// The package also serves the filtering reverse proxy and the JSON
// classification endpoint.
package commentview

import (
	"bytes"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/lueurxax/dc-comment-filter/internal/core/errors"
	"github.com/lueurxax/dc-comment-filter/internal/process/classifier"
)

// Log field constants.
const (
	logFieldComments = "comments"
	logFieldHidden   = "hidden"
	logFieldReason   = "reason"
	logFieldPath     = "path"
)

// View selects how a filtered page is presented.
type View struct {
	// Reveal renders the page with spam comments already shown.
	Reveal bool
	// Links turns the toggle into an anchor. Nil keeps a plain button.
	Links *ControlLinks
}

// Outcome summarizes one filter run.
type Outcome struct {
	Comments   int
	Hidden     int
	Reasons    map[string]int
	Applied    bool
	Skipped    string
	Controller *Controller
}

// Filter classifies page comments and hides the spam ones.
type Filter struct {
	logger *zerolog.Logger
}

// NewFilter creates a page filter.
func NewFilter(logger *zerolog.Logger) *Filter {
	return &Filter{logger: logger}
}

// Apply classifies the page comments and mutates the page when spam is found.
// A page without spam is left untouched and no control is created.
func (f *Filter) Apply(page *Page, view View) (Outcome, error) {
	if page == nil {
		return Outcome{}, errors.ErrInvalidInput
	}

	result := classifier.ClassifySource(page)
	outcome := Outcome{Comments: len(result.Verdicts)}

	CommentsClassifiedTotal.Add(float64(outcome.Comments))

	if !result.Found() {
		PagesTotal.WithLabelValues(OutcomeClean).Inc()

		return outcome, nil
	}

	nodes := make([]*html.Node, 0, len(result.Hidden))
	for _, idx := range result.Hidden {
		nodes = append(nodes, page.Item(idx))
	}

	ctrl := NewController(page.Panel(), nodes, view.Links)
	if view.Reveal {
		ctrl.Toggle()
	}

	outcome.Hidden = len(nodes)
	outcome.Reasons = result.ReasonCounts()
	outcome.Applied = true
	outcome.Controller = ctrl

	for reason, n := range outcome.Reasons {
		CommentsHiddenTotal.WithLabelValues(reason).Add(float64(n))
	}

	PagesTotal.WithLabelValues(OutcomeFiltered).Inc()

	result.Frequencies.LogRepeated(f.logger)
	f.logger.Debug().
		Int(logFieldComments, outcome.Comments).
		Int(logFieldHidden, outcome.Hidden).
		Msg("Spam comments hidden")

	return outcome, nil
}

// Rewrite filters a UTF-8 HTML document held in body. When there is nothing
// to change the original bytes are returned as they are; otherwise the
// rendered page declares UTF-8.
func (f *Filter) Rewrite(body []byte, view View) ([]byte, Outcome, error) {
	start := time.Now()

	defer func() {
		FilterLatency.Observe(time.Since(start).Seconds())
	}()

	page, err := ParsePage(bytes.NewReader(body))
	if err != nil {
		if isNothingToFilter(err) {
			PagesTotal.WithLabelValues(OutcomeSkipped).Inc()
			f.logger.Debug().Str(logFieldReason, err.Error()).Msg("Page has no filterable comments")

			return body, Outcome{Skipped: err.Error()}, nil
		}

		PagesTotal.WithLabelValues(OutcomeError).Inc()
		ErrorsTotal.WithLabelValues(ErrorTypeParse).Inc()

		return body, Outcome{}, err
	}

	outcome, err := f.Apply(page, view)
	if err != nil || !outcome.Applied {
		return body, outcome, err
	}

	page.DeclareUTF8()

	var buf bytes.Buffer

	buf.Grow(len(body) + len(body)/16)

	if err := page.Render(&buf); err != nil {
		ErrorsTotal.WithLabelValues(ErrorTypeRender).Inc()

		return body, outcome, err
	}

	return buf.Bytes(), outcome, nil
}

func isNothingToFilter(err error) bool {
	return errors.Is(err, errors.ErrNoCommentList) ||
		errors.Is(err, errors.ErrNoCommentPanel) ||
		errors.Is(err, errors.ErrNoComments)
}

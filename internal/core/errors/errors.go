// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Unexported errors (err*): Use for internal package errors
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Comment page errors. These mean "nothing to filter" and are never shown to readers.
var (
	// ErrNoCommentList indicates the page has no comment list container.
	ErrNoCommentList = errors.New("comment list not found")

	// ErrNoCommentPanel indicates the page has no comment panel to host the toggle.
	ErrNoCommentPanel = errors.New("comment panel not found")

	// ErrNoComments indicates the comment list is present but empty.
	ErrNoComments = errors.New("comment list is empty")
)

// Response and parsing errors.
var (
	// ErrNotHTML indicates a response body is not an HTML document.
	ErrNotHTML = errors.New("not an html document")

	// ErrBodyTooLarge indicates a body exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("body too large")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)

// Upstream errors.
var (
	// ErrUpstreamUnavailable indicates the proxied application did not answer.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

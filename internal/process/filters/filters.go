// Package filters implements the per-comment text checks used by spam classification.
//
// The package provides:
//   - Text normalization so comments can be compared verbatim
//   - Repeated phrase detection inside a single comment
//   - Detection of the upstream "comment deleted" placeholder
//
// Every check is a pure function over a string and never fails.
package filters

const (
	ReasonRepeated = "spam_repeated"
	ReasonPattern  = "spam_pattern"
	ReasonDeleted  = "spam_deleted"
)

// DeletedMarker is emitted verbatim by the board when an author removes a comment.
const DeletedMarker = "이 댓글은 게시물 작성자가 삭제하였습니다."

// IsDeletedPlaceholder reports whether normalized text is exactly the deletion marker.
// Any extra or missing character means no match.
func IsDeletedPlaceholder(normalized string) bool {
	return normalized == DeletedMarker
}

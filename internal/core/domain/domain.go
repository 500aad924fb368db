package domain

// Comment is a rendered comment as seen by the spam classifier.
// Identity is the comment's position in the rendered list.
type Comment struct {
	// Text is the comment body as the reader sees it, before normalization.
	Text string
	// IsSpecialContent marks non-text comments (stickers, images) that are exempt from spam rules.
	IsSpecialContent bool
}

// CommentSource yields the comments of one rendered page in document order.
type CommentSource interface {
	Comments() []Comment
}

// CommentList is a CommentSource backed by a plain slice.
type CommentList []Comment

// Comments returns the list itself.
func (l CommentList) Comments() []Comment {
	return l
}

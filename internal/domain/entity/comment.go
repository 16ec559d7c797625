package entity

import "time"

type CommentContextType string

const (
	CommentContextCurrency CommentContextType = "currency"
	CommentContextListing  CommentContextType = "listing"
)

// CommentContext is what a comment thread hangs off: a currency code or a listing id.
type CommentContext struct {
	Type CommentContextType `json:"type"`
	Key  string             `json:"key"`
}

// Comment is a flat row; ParentID is empty for top-level comments.
type Comment struct {
	ID            string             `json:"id" firestore:"id"`
	UserID        string             `json:"user_id,omitempty" firestore:"userId"`
	ContextType   CommentContextType `json:"context_type" firestore:"contextType"`
	ContextKey    string             `json:"context_key" firestore:"contextKey"`
	Content       string             `json:"content" firestore:"content"`
	IsGuest       bool               `json:"is_guest" firestore:"isGuest"`
	GuestName     string             `json:"guest_name,omitempty" firestore:"guestName,omitempty"`
	GuestKey      string             `json:"-" firestore:"guestKey,omitempty"`
	ParentID      string             `json:"parent_id,omitempty" firestore:"parentId"`
	LikesCount    int                `json:"likes_count" firestore:"likesCount"`
	DislikesCount int                `json:"dislikes_count" firestore:"dislikesCount"`
	CreatedAt     time.Time          `json:"created_at" firestore:"createdAt"`
}

func (c *Comment) Context() CommentContext {
	return CommentContext{Type: c.ContextType, Key: c.ContextKey}
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentID == ""
}

// AuthoredBy reports whether actor wrote the comment.
func (c *Comment) AuthoredBy(actor Actor) bool {
	if actor.IsGuest() {
		return c.IsGuest && c.GuestKey != "" && c.GuestKey == actor.ID
	}
	return !c.IsGuest && c.UserID == actor.ID
}

// CommentView is a comment ready for display.
type CommentView struct {
	*Comment
	AuthorName string       `json:"author_name"`
	MyReaction ReactionKind `json:"my_reaction,omitempty"`
}

// CommentThread is a top-level comment with its single level of replies.
type CommentThread struct {
	CommentView
	Replies []CommentView `json:"replies"`
}

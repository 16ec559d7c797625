package service

import (
	"sort"

	"esekoir/internal/domain/entity"
)

// AuthorName resolves the display name of a comment author.
func AuthorName(c *entity.Comment, names map[string]string) string {
	if c.IsGuest {
		if c.GuestName != "" {
			return c.GuestName
		}
		return DefaultAuthorName
	}
	if name := names[c.UserID]; name != "" {
		return name
	}
	return DefaultAuthorName
}

// BuildCommentTree nests one level of replies under their top-level comment.
// Top-level comments keep input order; replies are sorted oldest first.
// Replies to replies and replies to unknown parents are dropped.
func BuildCommentTree(comments []*entity.Comment, names map[string]string, reactions map[string]entity.ReactionKind) []*entity.CommentThread {
	threads := make([]*entity.CommentThread, 0)
	byID := make(map[string]*entity.CommentThread)

	view := func(c *entity.Comment) entity.CommentView {
		return entity.CommentView{
			Comment:    c,
			AuthorName: AuthorName(c, names),
			MyReaction: reactions[c.ID],
		}
	}

	for _, c := range comments {
		if !c.IsTopLevel() {
			continue
		}
		t := &entity.CommentThread{CommentView: view(c), Replies: []entity.CommentView{}}
		threads = append(threads, t)
		byID[c.ID] = t
	}

	for _, c := range comments {
		if c.IsTopLevel() {
			continue
		}
		if t, ok := byID[c.ParentID]; ok {
			t.Replies = append(t.Replies, view(c))
		}
	}

	for _, t := range threads {
		sort.SliceStable(t.Replies, func(i, j int) bool {
			return t.Replies[i].CreatedAt.Before(t.Replies[j].CreatedAt)
		})
	}
	return threads
}

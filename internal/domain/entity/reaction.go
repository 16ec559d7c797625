package entity

import "time"

type ReactionKind string

const (
	ReactionNone    ReactionKind = ""
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Reaction is the single mark an actor holds on a comment. Likes and
// dislikes share one row so they can never coexist.
type Reaction struct {
	CommentID string       `json:"comment_id" firestore:"commentId"`
	ActorKey  string       `json:"actor_key" firestore:"actorKey"`
	Kind      ReactionKind `json:"kind" firestore:"kind"`
	CreatedAt time.Time    `json:"created_at" firestore:"createdAt"`
}

// ToggleReaction returns the mark an actor holds after pressing requested
// while holding current.
func ToggleReaction(current, requested ReactionKind) ReactionKind {
	if current == requested {
		return ReactionNone
	}
	return requested
}

// ReactionCounts holds the like/dislike tallies of one comment.
type ReactionCounts struct {
	Likes    int `json:"likes_count"`
	Dislikes int `json:"dislikes_count"`
}

// Apply moves the counts from holding before to holding after.
func (c ReactionCounts) Apply(before, after ReactionKind) ReactionCounts {
	switch before {
	case ReactionLike:
		c.Likes--
	case ReactionDislike:
		c.Dislikes--
	}
	switch after {
	case ReactionLike:
		c.Likes++
	case ReactionDislike:
		c.Dislikes++
	}
	if c.Likes < 0 {
		c.Likes = 0
	}
	if c.Dislikes < 0 {
		c.Dislikes = 0
	}
	return c
}

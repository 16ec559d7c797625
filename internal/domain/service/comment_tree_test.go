package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/internal/domain/entity"
)

func comment(id, parent string, minute int) *entity.Comment {
	return &entity.Comment{
		ID:        id,
		UserID:    "u-" + id,
		ParentID:  parent,
		Content:   "c" + id,
		CreatedAt: t0.Add(time.Duration(minute) * time.Minute),
	}
}

func TestBuildCommentTreeRepliesOldestFirst(t *testing.T) {
	// Newest first, as the repository returns them.
	flat := []*entity.Comment{
		comment("r3", "top2", 9),
		comment("top2", "", 8),
		comment("r2", "top1", 7),
		comment("r1", "top1", 3),
		comment("top1", "", 1),
	}

	tree := BuildCommentTree(flat, nil, nil)
	require.Len(t, tree, 2)
	assert.Equal(t, "top2", tree[0].ID)
	assert.Equal(t, "top1", tree[1].ID)

	require.Len(t, tree[1].Replies, 2)
	assert.Equal(t, "r1", tree[1].Replies[0].ID)
	assert.Equal(t, "r2", tree[1].Replies[1].ID)

	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "r3", tree[0].Replies[0].ID)
}

func TestBuildCommentTreeDropsOrphansAndNestedReplies(t *testing.T) {
	flat := []*entity.Comment{
		comment("top", "", 0),
		comment("reply", "top", 1),
		comment("nested", "reply", 2),
		comment("orphan", "gone", 3),
	}

	tree := BuildCommentTree(flat, nil, nil)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "reply", tree[0].Replies[0].ID)
}

func TestBuildCommentTreeAuthorNames(t *testing.T) {
	guest := comment("g", "", 2)
	guest.IsGuest = true
	guest.UserID = ""
	guest.GuestName = "Sofiane"

	known := comment("k", "", 1)
	unknown := comment("x", "", 0)

	tree := BuildCommentTree([]*entity.Comment{guest, known, unknown}, map[string]string{"u-k": "Kenza"}, map[string]entity.ReactionKind{"k": entity.ReactionLike})
	require.Len(t, tree, 3)
	assert.Equal(t, "Sofiane", tree[0].AuthorName)
	assert.Equal(t, "Kenza", tree[1].AuthorName)
	assert.Equal(t, entity.ReactionLike, tree[1].MyReaction)
	assert.Equal(t, DefaultAuthorName, tree[2].AuthorName)
	assert.Equal(t, entity.ReactionNone, tree[2].MyReaction)
}

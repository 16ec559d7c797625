package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esekoir/pkg/errors"
)

func TestCompleteProfileAssignsMemberNumberOnce(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	createProfile(t, gw, "bob", "Bob")
	uc := NewProfileUseCase(gw.Profiles, newTestBlobs(t))

	a, err := uc.CompleteProfile(ctx, "alice", CompleteProfileInput{Username: "Alice_dz", FullName: "Alice B", Wilaya: "16"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.MemberNumber)
	assert.Equal(t, "alice_dz", a.Username)

	b, err := uc.CompleteProfile(ctx, "bob", CompleteProfileInput{Username: "bob", FullName: "Bob", Wilaya: "31"})
	require.NoError(t, err)
	assert.Equal(t, 2, b.MemberNumber)

	a, err = uc.CompleteProfile(ctx, "alice", CompleteProfileInput{Username: "alice_dz", FullName: "Alice B", Wilaya: "09"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.MemberNumber)

	_, err = uc.CompleteProfile(ctx, "bob", CompleteProfileInput{Username: "alice_dz", FullName: "Bob", Wilaya: "31"})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	card, err := uc.GetCard(ctx, "alice", 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026 0900 0000 0001", card.CardNumber)

	public, err := uc.GetByUsername(ctx, "ALICE_DZ")
	require.NoError(t, err)
	assert.Empty(t, public.Email)
}

func TestCardBeforeCompletion(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	uc := NewProfileUseCase(gw.Profiles, newTestBlobs(t))

	card, err := uc.GetCard(ctx, "alice", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025 0000 0000 0001", card.CardNumber)
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	createProfile(t, gw, "alice", "Alice")
	uc := NewProfileUseCase(gw.Profiles, newTestBlobs(t))

	_, err := uc.UploadAvatar(ctx, "alice", strings.NewReader("x"), "application/pdf", "a.pdf")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	p, err := uc.UploadAvatar(ctx, "alice", strings.NewReader("png"), "image/png", "me.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.AvatarURL, "http://localhost/uploads/avatars/alice.png?v="))

	// A second upload overwrites.
	_, err = uc.UploadAvatar(ctx, "alice", strings.NewReader("png2"), "image/png", "me.png")
	require.NoError(t, err)
}

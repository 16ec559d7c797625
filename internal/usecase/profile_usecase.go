package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"esekoir/internal/domain/entity"
	"esekoir/internal/domain/repository"
	"esekoir/internal/domain/service"
	"esekoir/pkg/errors"
)

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	blobs       service.BlobStore
}

func NewProfileUseCase(profileRepo repository.ProfileRepository, blobs service.BlobStore) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		blobs:       blobs,
	}
}

type CompleteProfileInput struct {
	Username string
	FullName string
	Wilaya   string
}

type UpdateProfileInput struct {
	Username *string
	FullName *string
	Wilaya   *string
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, uid string) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, uid)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.Internal("Failed to load profile", err)
	}
	return profile, nil
}

func (uc *ProfileUseCase) GetByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	profile, err := uc.profileRepo.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.Internal("Failed to load profile", err)
	}
	// Public view.
	profile.Email = ""
	return profile, nil
}

func (uc *ProfileUseCase) checkUsername(ctx context.Context, uid, username string) error {
	existing, err := uc.profileRepo.GetByUsername(ctx, username)
	if err == nil && existing.UserID != uid {
		return errors.Conflict("Username already taken")
	}
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return errors.Internal("Failed to check username", err)
	}
	return nil
}

// CompleteProfile sets the identity fields and assigns the member number.
// Completing twice keeps the first member number.
func (uc *ProfileUseCase) CompleteProfile(ctx context.Context, uid string, input CompleteProfileInput) (*entity.Profile, error) {
	profile, err := uc.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if err := uc.checkUsername(ctx, uid, username); err != nil {
		return nil, err
	}

	profile.Username = username
	profile.FullName = strings.TrimSpace(input.FullName)
	profile.Wilaya = input.Wilaya
	profile.UpdatedAt = time.Now().UTC()

	if err := uc.save(ctx, profile); err != nil {
		return nil, err
	}

	number, err := uc.profileRepo.AssignMemberNumber(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to assign member number", err)
	}
	profile.MemberNumber = number

	return profile, nil
}

func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.Profile, error) {
	profile, err := uc.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*input.Username))
		if err := uc.checkUsername(ctx, uid, username); err != nil {
			return nil, err
		}
		profile.Username = username
	}
	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Wilaya != nil {
		profile.Wilaya = *input.Wilaya
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := uc.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (uc *ProfileUseCase) save(ctx context.Context, profile *entity.Profile) error {
	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return errors.Conflict("Username already taken")
		}
		return errors.Internal("Failed to update profile", err)
	}
	return nil
}

// UploadAvatar stores the image at avatars/<uid><ext>, replacing any previous one.
func (uc *ProfileUseCase) UploadAvatar(ctx context.Context, uid string, r io.Reader, contentType, filename string) (*entity.Profile, error) {
	if !service.AllowedImage(contentType) {
		return nil, errors.BadRequest("Avatar must be an image", nil)
	}

	profile, err := uc.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	objectPath := "avatars/" + uid + service.ExtensionFor(contentType, filename)
	if err := uc.blobs.Upload(ctx, objectPath, r, contentType, true); err != nil {
		return nil, errors.Internal("Failed to upload avatar", err)
	}

	now := time.Now().UTC()
	// Cache-busting suffix: the object path never changes.
	profile.AvatarURL = fmt.Sprintf("%s?v=%d", uc.blobs.PublicURL(objectPath), now.Unix())
	profile.UpdatedAt = now
	if err := uc.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

type MemberCard struct {
	CardNumber   string `json:"card_number"`
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Wilaya       string `json:"wilaya"`
	MemberNumber int    `json:"member_number"`
	IsVerified   bool   `json:"is_verified"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

// GetCard renders the member card of uid for the given year. Profiles
// without a member number yet show number 1.
func (uc *ProfileUseCase) GetCard(ctx context.Context, uid string, year int) (*MemberCard, error) {
	profile, err := uc.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	number := profile.MemberNumber
	return &MemberCard{
		CardNumber:   service.FormatCardNumber(year, profile.Wilaya, &number),
		FullName:     profile.FullName,
		Username:     profile.Username,
		Wilaya:       profile.Wilaya,
		MemberNumber: profile.MemberNumber,
		IsVerified:   profile.IsVerified,
		AvatarURL:    profile.AvatarURL,
	}, nil
}

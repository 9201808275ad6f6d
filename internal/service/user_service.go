package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const (
	minNameLen = 2
	maxNameLen = 80
	maxBioLen  = 500
)

// UserService owns the self-profile surface.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// UpdateMeInput distinguishes an absent bio (nil) from an explicitly empty
// one: `bio: ""` clears the field, omitting it leaves it alone.
type UpdateMeInput struct {
	Name     string
	Bio      *string
	ImageURL string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetMe(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.UserKey(id), &profile, cache.UserTTL, func() error {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		profile = *user.ToProfile()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *UserService) UpdateMe(ctx context.Context, id uint, in UpdateMeInput) (*models.Profile, error) {
	// An effectively empty PATCH body short-circuits to a plain read.
	if in.Name == "" && in.Bio == nil && in.ImageURL == "" {
		return s.GetMe(ctx, id)
	}

	fields := map[string]any{}
	if in.Name != "" {
		n := utf8.RuneCountInString(strings.TrimSpace(in.Name))
		if n < minNameLen || n > maxNameLen {
			return nil, models.NewValidationError("Name must be between 2 and 80 characters")
		}
		fields["name"] = in.Name
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio must be at most 500 characters")
		}
		fields["bio"] = *in.Bio
	}
	if in.ImageURL != "" {
		fields["image_url"] = in.ImageURL
	}

	user, err := s.userRepo.Updates(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, id)
	if _, renamed := fields["name"]; renamed {
		// Public post detail embeds the author name; cached copies of this
		// author's posts are stale the moment the rename lands.
		s.invalidateAuthoredPosts(ctx, id)
	}
	return user.ToProfile(), nil
}

func (s *UserService) invalidateAuthoredPosts(ctx context.Context, authorID uint) {
	slugList, err := s.postRepo.SlugsByOwner(ctx, authorID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to collect slugs for cache invalidation",
			"user_id", authorID, "error", err)
		return
	}
	for _, slug := range slugList {
		cache.InvalidatePublicPost(ctx, slug)
	}
}

// SetAvatar persists the public URL produced by the object-storage upload.
// Callers must only invoke this after a successful upload so a storage
// failure never leaves a dangling URL in the database.
func (s *UserService) SetAvatar(ctx context.Context, id uint, imageURL string) (*models.Profile, error) {
	user, err := s.userRepo.Updates(ctx, id, map[string]any{"image_url": imageURL})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, id)
	return user.ToProfile(), nil
}

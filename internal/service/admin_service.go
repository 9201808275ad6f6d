package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// AdminService owns the cross-tenant moderation surface. Role enforcement
// happens at the authorization boundary; these operations assume an admin
// caller.
type AdminService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewAdminService(userRepo repository.UserRepository, postRepo repository.PostRepository) *AdminService {
	return &AdminService{userRepo: userRepo, postRepo: postRepo}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *users[i].ToProfile())
	}
	return profiles, nil
}

// ListPosts is the owner listing contract without owner scoping; the text
// query additionally matches the owning user's name and email.
func (s *AdminService) ListPosts(ctx context.Context, in ListPostsInput) (*models.Page[models.AdminPostRow], error) {
	in.normalize()
	if in.Status != nil && !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}

	posts, total, err := s.postRepo.ListPage(ctx, repository.PostFilter{
		Status:      in.Status,
		Query:       in.Query,
		Page:        in.Page,
		Limit:       in.Limit,
		MatchAuthor: true,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]models.AdminPostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, models.AdminPostRow{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Status:    p.Status,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			Author:    models.AdminAuthor{ID: p.User.ID, Name: p.User.Name, Email: p.User.Email},
		})
	}

	return &models.Page[models.AdminPostRow]{
		Data: rows,
		Meta: models.PageMeta{Page: in.Page, Limit: in.Limit, Total: total},
	}, nil
}

// UpdatePostStatus sets a post's publish state unconditionally after an
// existence check. No ownership check: moderation privilege spans tenants.
func (s *AdminService) UpdatePostStatus(ctx context.Context, postID uint, status models.PostStatus) (*models.ModeratedPost, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Status = status
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidatePublicPost(ctx, post.Slug)

	return &models.ModeratedPost{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Status:    post.Status,
		UpdatedAt: post.UpdatedAt,
		Author:    models.AdminAuthor{ID: post.User.ID, Name: post.User.Name, Email: post.User.Email},
	}, nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, targetID uint, role models.Role) (*models.Profile, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Role must be either ADMIN or USER")
	}

	user, err := s.userRepo.Updates(ctx, targetID, map[string]any{"role": role})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, targetID)
	return user.ToProfile(), nil
}

// DeleteUser removes an account. Self-deletion is a validation failure, and
// the guard runs before any lookup so the account is provably untouched.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, targetID uint) (*models.Ack, error) {
	if adminID == targetID {
		return nil, models.NewValidationError("You cannot delete your own account")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	// The delete cascades the target's posts away; snapshot their slugs
	// first so the cached public copies go with them.
	slugList, err := s.postRepo.SlugsByOwner(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, targetID)
	for _, slug := range slugList {
		cache.InvalidatePublicPost(ctx, slug)
	}
	return &models.Ack{OK: true}, nil
}

// Package service implements the application's business logic over the
// repository layer.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/slugs"
)

const (
	minTitleLen   = 3
	minContentLen = 10
	excerptLen    = 160

	defaultPageLimit = 10
	maxPageLimit     = 50
)

// PostService owns the post lifecycle: creation with unique slugs, owner-scoped
// CRUD, and the public published-only read surface.
type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	Title   string
	Content string
	Status  models.PostStatus // empty means DRAFT
}

type UpdatePostInput struct {
	Title   *string
	Content *string
	Status  *models.PostStatus
}

// ListPostsInput carries the common list query. Page below 1 or a limit out
// of [1,50] are normalized here so no listing can exceed the contract.
type ListPostsInput struct {
	Status *models.PostStatus
	Query  string
	Page   int
	Limit  int
}

func (in *ListPostsInput) normalize() {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = defaultPageLimit
	}
	if in.Limit > maxPageLimit {
		in.Limit = maxPageLimit
	}
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// uniqueSlug derives the slug base from the title and probes for the first
// free candidate: base, base-2, base-3, ... The probe loop is deliberately
// not transactional; the unique index on posts.slug is the backstop under
// concurrent creates (a losing racer gets a validation error, see Create).
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugs.FromTitle(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := s.postRepo.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		middleware.SlugCollisions.Inc()
		candidate = slugs.WithSuffix(base, n)
	}
}

// DeriveExcerpt produces the stored summary from content: the first 160
// runes, trimmed back to a word boundary. Read-only at the API.
func DeriveExcerpt(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptLen {
		return content
	}

	runes := []rune(content)
	cut := string(runes[:excerptLen])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \t\n.,;:") + "…"
}

func (s *PostService) Create(ctx context.Context, ownerID uint, in CreatePostInput) (*models.CreatedPost, error) {
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < minTitleLen {
		return nil, models.NewValidationError("Title must be at least 3 characters")
	}
	if utf8.RuneCountInString(in.Content) < minContentLen {
		return nil, models.NewValidationError("Content must be at least 10 characters")
	}
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  ownerID,
		Title:   in.Title,
		Slug:    slug,
		Content: in.Content,
		Excerpt: DeriveExcerpt(in.Content),
		Status:  status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return &models.CreatedPost{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Status:    post.Status,
		Excerpt:   post.Excerpt,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

func (s *PostService) List(ctx context.Context, ownerID uint, in ListPostsInput) (*models.Page[models.OwnedPostRow], error) {
	in.normalize()
	if in.Status != nil && !in.Status.Valid() {
		return nil, models.NewValidationError("Invalid post status")
	}

	posts, total, err := s.postRepo.ListPage(ctx, repository.PostFilter{
		OwnerID: &ownerID,
		Status:  in.Status,
		Query:   in.Query,
		Page:    in.Page,
		Limit:   in.Limit,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]models.OwnedPostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, models.OwnedPostRow{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Status:    p.Status,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}

	return &models.Page[models.OwnedPostRow]{
		Data: rows,
		Meta: models.PageMeta{Page: in.Page, Limit: in.Limit, Total: total},
	}, nil
}

func (s *PostService) GetDetail(ctx context.Context, ownerID uint, idOrSlug string) (*models.PostDetail, error) {
	post, err := s.postRepo.FindOwned(ctx, ownerID, idOrSlug)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Status:    post.Status,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

func (s *PostService) Update(ctx context.Context, ownerID uint, idOrSlug string, in UpdatePostInput) (*models.PostDetail, error) {
	post, err := s.postRepo.FindOwned(ctx, ownerID, idOrSlug)
	if err != nil {
		return nil, err
	}

	oldSlug := post.Slug

	if in.Title != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*in.Title)) < minTitleLen {
			return nil, models.NewValidationError("Title must be at least 3 characters")
		}
		if *in.Title != post.Title {
			slug, err := s.uniqueSlug(ctx, *in.Title)
			if err != nil {
				return nil, err
			}
			post.Slug = slug
		}
		post.Title = *in.Title
	}
	if in.Content != nil {
		if utf8.RuneCountInString(*in.Content) < minContentLen {
			return nil, models.NewValidationError("Content must be at least 10 characters")
		}
		post.Content = *in.Content
		post.Excerpt = DeriveExcerpt(*in.Content)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("Invalid post status")
		}
		post.Status = *in.Status
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	cache.InvalidatePublicPost(ctx, oldSlug)
	if post.Slug != oldSlug {
		cache.InvalidatePublicPost(ctx, post.Slug)
	}

	return &models.PostDetail{
		ID:        post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Status:    post.Status,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

func (s *PostService) Remove(ctx context.Context, ownerID uint, idOrSlug string) (*models.Ack, error) {
	post, err := s.postRepo.FindOwned(ctx, ownerID, idOrSlug)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return nil, err
	}
	cache.InvalidatePublicPost(ctx, post.Slug)
	return &models.Ack{OK: true}, nil
}

// ListPublic is the unauthenticated listing: forced PUBLISHED, unscoped,
// author embedded, content omitted from rows.
func (s *PostService) ListPublic(ctx context.Context, in ListPostsInput) (*models.Page[models.PublicPostRow], error) {
	in.normalize()

	published := models.StatusPublished
	posts, total, err := s.postRepo.ListPage(ctx, repository.PostFilter{
		Status: &published,
		Query:  in.Query,
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]models.PublicPostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, models.PublicPostRow{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Excerpt:   p.Excerpt,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			Author:    models.Author{ID: p.User.ID, Name: p.User.Name},
		})
	}

	return &models.Page[models.PublicPostRow]{
		Data: rows,
		Meta: models.PageMeta{Page: in.Page, Limit: in.Limit, Total: total},
	}, nil
}

func (s *PostService) GetPublicDetail(ctx context.Context, slug string) (*models.PublicPostDetail, error) {
	var detail models.PublicPostDetail
	err := cache.Aside(ctx, cache.PublicPostKey(slug), &detail, cache.PublicPostTTL, func() error {
		post, err := s.postRepo.FindPublishedBySlug(ctx, slug)
		if err != nil {
			return err
		}
		detail = models.PublicPostDetail{
			ID:        post.ID,
			Title:     post.Title,
			Slug:      post.Slug,
			Content:   post.Content,
			Excerpt:   post.Excerpt,
			Status:    post.Status,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
			Author:    models.Author{ID: post.User.ID, Name: post.User.Name},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

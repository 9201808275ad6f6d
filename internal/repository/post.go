package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostFilter describes a paginated post listing. Page and Limit are assumed
// already validated/clamped by the service layer.
type PostFilter struct {
	OwnerID     *uint
	Status      *models.PostStatus
	Query       string
	Page        int
	Limit       int
	MatchAuthor bool // extend Query matching to the owning user's name/email
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	SlugTaken(ctx context.Context, slug string) (bool, error)
	FindOwned(ctx context.Context, ownerID uint, idOrSlug string) (*models.Post, error)
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugsByOwner(ctx context.Context, ownerID uint) ([]string, error)
	ListPage(ctx context.Context, f PostFilter) ([]models.Post, int64, error)
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Concurrent create raced the slug uniqueness probe; the unique
			// index is the backstop (callers may retry with a fresh slug).
			return models.NewValidationError("Post slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// FindOwned resolves a post by id or slug within the owner's scope. A post
// owned by someone else is indistinguishable from a missing one: the
// ownership predicate is part of the lookup, not a post-hoc check.
func (r *postRepository) FindOwned(ctx context.Context, ownerID uint, idOrSlug string) (*models.Post, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if id, err := strconv.ParseUint(idOrSlug, 10, 32); err == nil {
		q = q.Where("id = ? OR slug = ?", uint(id), idOrSlug)
	} else {
		q = q.Where("slug = ?", idOrSlug)
	}

	var post models.Post
	if err := q.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("slug = ? AND status = ?", slug, models.StatusPublished).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// SlugsByOwner returns the slugs of every post owned by the given user,
// regardless of status. Callers use it to invalidate cached public reads
// after author-level mutations.
func (r *postRepository) SlugsByOwner(ctx context.Context, ownerID uint) ([]string, error) {
	var out []string
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", ownerID).
		Pluck("slug", &out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

// ListPage runs the count and the page fetch inside one transaction so meta
// and data reflect the same snapshot under concurrent writes.
func (r *postRepository) ListPage(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.applyFilter(tx, f).
			Model(&models.Post{}).
			Count(&total).Error; err != nil {
			return err
		}

		offset := (f.Page - 1) * f.Limit
		return r.applyFilter(tx, f).
			Preload("User").
			Order("posts.updated_at DESC").
			Limit(f.Limit).
			Offset(offset).
			Find(&posts).Error
	})
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// applyFilter builds the WHERE clause shared by the count and the page fetch.
// Text matching is case-insensitive substring with OR semantics across
// title, content and excerpt (plus author name/email for admin listings).
func (r *postRepository) applyFilter(db *gorm.DB, f PostFilter) *gorm.DB {
	q := db.Model(&models.Post{})

	if f.OwnerID != nil {
		q = q.Where("posts.user_id = ?", *f.OwnerID)
	}
	if f.Status != nil {
		q = q.Where("posts.status = ?", *f.Status)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		if f.MatchAuthor {
			q = q.Joins("JOIN users ON users.id = posts.user_id").
				Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ?",
					like, like, like, like)
		} else {
			q = q.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.excerpt) LIKE ?",
				like, like, like)
		}
	}
	return q
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Post slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

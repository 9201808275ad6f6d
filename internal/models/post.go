package models

import (
	"time"
)

// PostStatus is the publish state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
	StatusArchived  PostStatus = "ARCHIVED"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// Post represents a blog post. Slug is globally unique and derived from the
// title; Excerpt is derived from content and read-only at the API.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	Title     string     `gorm:"not null" json:"title"`
	Slug      string     `gorm:"uniqueIndex;not null" json:"slug"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Excerpt   string     `json:"excerpt"`
	Status    PostStatus `gorm:"type:varchar(16);not null;default:DRAFT;index" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreatedPost is the projection returned from post creation.
type CreatedPost struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Status    PostStatus `json:"status"`
	Excerpt   string     `json:"excerpt"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OwnedPostRow is a row in the owner's post listing.
type OwnedPostRow struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Status    PostStatus `json:"status"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PostDetail is the owner's full view of a post.
type PostDetail struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	Excerpt   string     `json:"excerpt"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PublicPostRow is a row in the public listing. Content is omitted in list
// rows and included in the public detail.
type PublicPostRow struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Excerpt   string     `json:"excerpt"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Author    Author     `json:"user"`
}

// PublicPostDetail is the public single-post view.
type PublicPostDetail struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	Excerpt   string     `json:"excerpt"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Author    Author     `json:"user"`
}

// AdminPostRow is a row in the admin post listing.
type AdminPostRow struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Status    PostStatus  `json:"status"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    AdminAuthor `json:"user"`
}

// ModeratedPost is the projection returned from an admin status change.
type ModeratedPost struct {
	ID        uint        `json:"id"`
	Title     string      `json:"title"`
	Slug      string      `json:"slug"`
	Status    PostStatus  `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
	Author    AdminAuthor `json:"user"`
}

// Page is the list envelope shared by every paginated endpoint.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageMeta carries the pagination parameters the page was produced with and
// the total matching row count from the same snapshot.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Ack is the simple acknowledgement body for deletes.
type Ack struct {
	OK bool `json:"ok"`
}

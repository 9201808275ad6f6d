// Package seed populates the database with realistic development data.
package seed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/slugs"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded account gets.
const DefaultPassword = "password123"

// Seeder creates fake users and posts. Users go through the repository so
// seeded accounts hit the same uniqueness handling as everything else.
type Seeder struct {
	db    *gorm.DB
	users repository.UserRepository
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, users: repository.NewUserRepository(db)}
}

// ClearAll removes all seeded data. Posts go first so the user delete does
// not have to rely on cascade behavior.
func (s *Seeder) ClearAll() error {
	if err := s.db.Exec("DELETE FROM posts").Error; err != nil {
		return fmt.Errorf("clearing posts: %w", err)
	}
	if err := s.db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("clearing users: %w", err)
	}
	log.Println("Cleared existing data")
	return nil
}

// SeedUsers creates n regular users plus one admin account
// (admin@inkwell.dev). Every account shares DefaultPassword.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]models.User, 0, n+1)

	admin := models.User{
		Email:        "admin@inkwell.dev",
		PasswordHash: string(hash),
		Name:         "Inkwell Admin",
		Bio:          "Keeping the lights on.",
		Role:         models.RoleAdmin,
	}
	if err := s.users.Create(ctx, &admin); err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}
	users = append(users, admin)

	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		user := models.User{
			Email:        fmt.Sprintf("%s%d@%s", strings.ToLower(gofakeit.Username()), i, gofakeit.DomainName()),
			PasswordHash: string(hash),
			Name:         name,
			Bio:          gofakeit.Sentence(12),
			Role:         models.RoleUser,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users (plus admin)", n)
	return users, nil
}

// SeedPosts creates n posts spread across the given users. Roughly two thirds
// are published, the rest split between draft and archived.
func (s *Seeder) SeedPosts(users []models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to attach posts to")
	}

	statuses := []models.PostStatus{
		models.StatusPublished, models.StatusPublished,
		models.StatusPublished, models.StatusPublished,
		models.StatusDraft, models.StatusArchived,
	}

	for i := 0; i < n; i++ {
		owner := users[gofakeit.Number(0, len(users)-1)]
		title := strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(4, 9)), ".")
		content := gofakeit.Paragraph(3, 5, 12, "\n\n")

		post := models.Post{
			Title:   title,
			Slug:    slugs.WithSuffix(slugs.FromTitle(title), i+1),
			Content: content,
			Excerpt: service.DeriveExcerpt(content),
			Status:  statuses[gofakeit.Number(0, len(statuses)-1)],
			UserID:  owner.ID,
			CreatedAt: gofakeit.DateRange(
				time.Now().AddDate(0, -6, 0), time.Now()),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return fmt.Errorf("creating post %d: %w", i, err)
		}
	}

	log.Printf("Seeded %d posts", n)
	return nil
}

package service

import (
	"context"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCachedStack wires real repositories over in-memory sqlite with the
// cache backed by miniredis, so invalidation is observable end to end.
func setupCachedStack(t *testing.T) (*gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	return db, mr
}

func createCachedUser(t *testing.T, db *gorm.DB, email, name string, role models.Role) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hashed", Name: name, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRenameInvalidatesCachedPublicDetail(t *testing.T) {
	db, mr := setupCachedStack(t)
	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	posts := NewPostService(postRepo)
	users := NewUserService(userRepo, postRepo)

	author := createCachedUser(t, db, "author@test.dev", "Old Name", models.RoleUser)
	created, err := posts.Create(ctx, author.ID, CreatePostInput{
		Title:   "Cached Post",
		Content: "Content long enough to pass validation",
		Status:  models.StatusPublished,
	})
	require.NoError(t, err)

	detail, err := posts.GetPublicDetail(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Old Name", detail.Author.Name)
	assert.True(t, mr.Exists(cache.PublicPostKey(created.Slug)))

	// A bio-only edit does not touch the author name; the cached detail
	// stays valid and stays put.
	bio := "just a bio"
	_, err = users.UpdateMe(ctx, author.ID, UpdateMeInput{Bio: &bio})
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.PublicPostKey(created.Slug)))

	_, err = users.UpdateMe(ctx, author.ID, UpdateMeInput{Name: "New Name"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PublicPostKey(created.Slug)))

	detail, err = posts.GetPublicDetail(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, "New Name", detail.Author.Name)
}

func TestDeleteUserInvalidatesCachedPublicPosts(t *testing.T) {
	db, mr := setupCachedStack(t)
	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	posts := NewPostService(postRepo)
	admin := NewAdminService(userRepo, postRepo)

	moderator := createCachedUser(t, db, "mod@test.dev", "Moderator", models.RoleAdmin)
	target := createCachedUser(t, db, "target@test.dev", "Target", models.RoleUser)
	created, err := posts.Create(ctx, target.ID, CreatePostInput{
		Title:   "Soon Gone",
		Content: "Content long enough to pass validation",
		Status:  models.StatusPublished,
	})
	require.NoError(t, err)

	_, err = posts.GetPublicDetail(ctx, created.Slug)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.PublicPostKey(created.Slug)))

	ack, err := admin.DeleteUser(ctx, moderator.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, ack.OK)

	// The cascade removed the posts; the cached copies must go with them
	// instead of resolving for the rest of the TTL.
	assert.False(t, mr.Exists(cache.PublicPostKey(created.Slug)))

	_, err = posts.GetPublicDetail(ctx, created.Slug)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

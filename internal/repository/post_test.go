package repository

import (
	"context"
	"fmt"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, name string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "hashed", Name: name, Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, ownerID uint, title, slug string, status models.PostStatus) models.Post {
	t.Helper()
	post := models.Post{
		UserID: ownerID, Title: title, Slug: slug,
		Content: "Content for " + title, Excerpt: "Excerpt for " + title,
		Status: status,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestPostRepository_FindOwned(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com", "Alice")
	bob := seedUser(t, db, "bob@example.com", "Bob")
	post := seedPost(t, db, alice.ID, "Alice Post", "alice-post", models.StatusDraft)

	t.Run("By numeric ID", func(t *testing.T) {
		found, err := repo.FindOwned(ctx, alice.ID, fmt.Sprint(post.ID))
		require.NoError(t, err)
		assert.Equal(t, post.ID, found.ID)
	})

	t.Run("By slug", func(t *testing.T) {
		found, err := repo.FindOwned(ctx, alice.ID, "alice-post")
		require.NoError(t, err)
		assert.Equal(t, post.ID, found.ID)
	})

	t.Run("Numeric-looking slug still resolves", func(t *testing.T) {
		numeric := seedPost(t, db, alice.ID, "Numbers", "12345", models.StatusDraft)
		found, err := repo.FindOwned(ctx, alice.ID, "12345")
		require.NoError(t, err)
		assert.Equal(t, numeric.ID, found.ID)
	})

	t.Run("Foreign owner is not found", func(t *testing.T) {
		_, err := repo.FindOwned(ctx, bob.ID, "alice-post")
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}

func TestPostRepository_FindPublishedBySlug(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com", "Author")
	seedPost(t, db, author.ID, "Live", "live", models.StatusPublished)
	seedPost(t, db, author.ID, "Hidden", "hidden", models.StatusDraft)

	t.Run("Published resolves with author", func(t *testing.T) {
		post, err := repo.FindPublishedBySlug(ctx, "live")
		require.NoError(t, err)
		assert.Equal(t, "Author", post.User.Name)
	})

	t.Run("Draft does not resolve", func(t *testing.T) {
		_, err := repo.FindPublishedBySlug(ctx, "hidden")
		require.Error(t, err)
	})
}

func TestPostRepository_ListPage(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com", "Alice Writer")
	bob := seedUser(t, db, "bob@example.com", "Bob Reader")

	for i := 0; i < 5; i++ {
		seedPost(t, db, alice.ID, fmt.Sprintf("Alice %d", i), fmt.Sprintf("alice-%d", i), models.StatusPublished)
	}
	seedPost(t, db, alice.ID, "Alice Draft", "alice-draft", models.StatusDraft)
	seedPost(t, db, bob.ID, "Bob Post", "bob-post", models.StatusPublished)

	t.Run("Owner scope with total", func(t *testing.T) {
		owner := alice.ID
		posts, total, err := repo.ListPage(ctx, PostFilter{OwnerID: &owner, Page: 1, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, posts, 3)
		assert.EqualValues(t, 6, total)
	})

	t.Run("Status filter", func(t *testing.T) {
		owner := alice.ID
		draft := models.StatusDraft
		posts, total, err := repo.ListPage(ctx, PostFilter{OwnerID: &owner, Status: &draft, Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "alice-draft", posts[0].Slug)
	})

	t.Run("Case-insensitive text match", func(t *testing.T) {
		posts, total, err := repo.ListPage(ctx, PostFilter{Query: "BOB", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "bob-post", posts[0].Slug)
	})

	t.Run("Author match only for admin listings", func(t *testing.T) {
		_, total, err := repo.ListPage(ctx, PostFilter{Query: "reader", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)

		_, total, err = repo.ListPage(ctx, PostFilter{Query: "reader", MatchAuthor: true, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("Past the last page", func(t *testing.T) {
		owner := alice.ID
		posts, total, err := repo.ListPage(ctx, PostFilter{OwnerID: &owner, Page: 9, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.EqualValues(t, 6, total)
	})

	t.Run("Rows preload the author", func(t *testing.T) {
		posts, _, err := repo.ListPage(ctx, PostFilter{Status: nil, Page: 1, Limit: 50})
		require.NoError(t, err)
		require.NotEmpty(t, posts)
		assert.NotEmpty(t, posts[0].User.Name)
	})
}

func TestPostRepository_CreateDuplicateSlug(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com", "Author")
	seedPost(t, db, author.ID, "First", "taken-slug", models.StatusDraft)

	err := repo.Create(ctx, &models.Post{
		UserID: author.ID, Title: "Second", Slug: "taken-slug",
		Content: "Another body", Status: models.StatusDraft,
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, "Post slug already taken", appErr.Message)
}

func TestPostRepository_SlugTaken(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author@example.com", "Author")
	seedPost(t, db, author.ID, "First", "existing", models.StatusDraft)

	taken, err := repo.SlugTaken(ctx, "existing")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugTaken(ctx, "free")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestPostRepository_SlugsByOwner(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com", "Alice")
	bob := seedUser(t, db, "bob@example.com", "Bob")
	seedPost(t, db, alice.ID, "One", "one", models.StatusPublished)
	seedPost(t, db, alice.ID, "Two", "two", models.StatusDraft)
	seedPost(t, db, bob.ID, "Three", "three", models.StatusPublished)

	owned, err := repo.SlugsByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, owned)

	owned, err = repo.SlugsByOwner(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

package blogpulse_test

import (
	"context"
	"strings"
	"testing"
	"time"

	blogpulse "github.com/goliatone/blog-pulse"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsRepository_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	posts := blogpulse.NewPostsRepository(db)

	created, err := posts.Create(context.Background(), &blogpulse.Post{
		Title:   "First Post",
		Content: "Hello, world.",
		Author:  "Test User",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestPostsRepository_ListPreviews(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()
		posts := blogpulse.NewPostsRepository(db)

		previews, err := posts.ListPreviews(ctx)
		require.NoError(t, err)
		assert.Empty(t, previews)
	})

	t.Run("orders newest first and truncates long content", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()
		posts := blogpulse.NewPostsRepository(db)

		longContent := strings.Repeat("a", blogpulse.PostPreviewLength+50)

		older := &blogpulse.Post{Title: "Older", Content: "short content", Author: "A", CreatedAt: time.Now().Add(-time.Hour)}
		newer := &blogpulse.Post{Title: "Newer", Content: longContent, Author: "B", CreatedAt: time.Now()}

		_, err := posts.Create(ctx, older)
		require.NoError(t, err)
		_, err = posts.Create(ctx, newer)
		require.NoError(t, err)

		previews, err := posts.ListPreviews(ctx)
		require.NoError(t, err)
		require.Len(t, previews, 2)

		assert.Equal(t, "Newer", previews[0].Title)
		assert.Equal(t, "Older", previews[1].Title)

		assert.Equal(t, strings.Repeat("a", blogpulse.PostPreviewLength)+"...", previews[0].Content)
		assert.Equal(t, "short content", previews[1].Content)
	})
}

func TestPostsRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	db, cleanup := setupTestDB(t)
	defer cleanup()
	posts := blogpulse.NewPostsRepository(db)

	longContent := strings.Repeat("b", blogpulse.PostPreviewLength+200)
	created, err := posts.Create(ctx, &blogpulse.Post{
		Title:   "Full Post",
		Content: longContent,
		Author:  "Test User",
	})
	require.NoError(t, err)

	t.Run("returns the full content", func(t *testing.T) {
		record, err := posts.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, longContent, record.Content)
	})

	t.Run("missing id is a not found error", func(t *testing.T) {
		record, err := posts.GetByID(ctx, 99999)
		assert.Nil(t, record)
		assert.True(t, repository.IsRecordNotFound(err))
	})
}

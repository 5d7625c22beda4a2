package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com", "Author")
	reader := createTestUser(t, db, "reader@example.com", "Reader")
	post := createTestPost(t, db, author, "Hello")

	comment := &models.Comment{Text: "great read", AuthorID: reader.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, comment))
	require.NotZero(t, comment.ID)

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "great read", got.Text)
	assert.Equal(t, "Reader", got.Author.Name)

	_, err = repo.GetByID(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}

func TestCommentRepository_ListByPost_InsertionOrder(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com", "Author")
	reader := createTestUser(t, db, "reader@example.com", "Reader")
	post := createTestPost(t, db, author, "Hello")
	other := createTestPost(t, db, author, "Other")

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Comment{Text: text, AuthorID: reader.ID, PostID: post.ID}))
	}
	require.NoError(t, repo.Create(ctx, &models.Comment{Text: "elsewhere", AuthorID: reader.ID, PostID: other.ID}))

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "third", comments[2].Text)
	assert.Equal(t, "Reader", comments[0].Author.Name)
}

func TestCommentRepository_CountByPost(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com", "Author")
	post := createTestPost(t, db, author, "Hello")

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Create(ctx, &models.Comment{Text: "one", AuthorID: author.ID, PostID: post.ID}))

	count, err = repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

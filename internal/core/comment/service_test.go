// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/blango/internal/core/comment"
	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/dberr"
	"github.com/taibuivan/blango/pkg/pointer"
)

type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*comment.Comment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{nextID: 1, comments: make(map[int64]*comment.Comment)}
}

func (repository *memoryRepository) ListFor(_ context.Context, contentType string, objectID int64) ([]*comment.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	result := make([]*comment.Comment, 0)
	for _, stored := range repository.comments {
		if stored.ContentType == contentType && stored.ObjectID == objectID {
			copied := *stored
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id int64) (*comment.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.comments[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "Comment", "get_comment_by_id")
	}
	copied := *stored
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, created *comment.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	created.ID = repository.nextID
	created.CreatedAt = time.Now()
	created.ModifiedAt = created.CreatedAt
	repository.nextID++
	copied := *created
	repository.comments[created.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateContent(_ context.Context, id int64, content string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored, ok := repository.comments[id]
	if !ok {
		return dberr.Wrap(pgx.ErrNoRows, "Comment", "update_comment")
	}
	stored.Content = content
	return nil
}

func (repository *memoryRepository) DeleteFor(_ context.Context, contentType string, objectID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for id, stored := range repository.comments {
		if stored.ContentType == contentType && stored.ObjectID == objectID {
			delete(repository.comments, id)
		}
	}
	return nil
}

func newService(repository comment.Repository) *comment.Service {
	return comment.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestMergeIntoPost covers creation, creator edits, and silently skipped edits
of comments owned by someone else.
*/
func TestMergeIntoPost(t *testing.T) {
	ctx := context.Background()
	repository := newMemoryRepository()
	service := newService(repository)

	const alice, bob, postID = int64(1), int64(2), int64(10)

	aliceComment, err := service.AddToPost(ctx, alice, postID, "first!")
	require.NoError(t, err)
	elsewhere, err := service.AddToPost(ctx, bob, postID+1, "other post")
	require.NoError(t, err)

	// Bob edits Alice's comment, edits a comment on another post, and adds his own.
	err = service.MergeIntoPost(ctx, bob, postID, []comment.Input{
		{ID: pointer.To(aliceComment.ID), Content: "hijacked"},
		{ID: pointer.To(elsewhere.ID), Content: "moved"},
		{ID: pointer.To(int64(999)), Content: "ghost"},
		{Content: "bob was here"},
	})
	require.NoError(t, err)

	comments, err := service.ListForPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Content)
	assert.Equal(t, "bob was here", comments[1].Content)
	assert.Equal(t, bob, comments[1].CreatorID)

	// Alice edits her own comment.
	err = service.MergeIntoPost(ctx, alice, postID, []comment.Input{
		{ID: pointer.To(aliceComment.ID), Content: "first, edited"},
	})
	require.NoError(t, err)

	stored, err := repository.FindByID(ctx, aliceComment.ID)
	require.NoError(t, err)
	assert.Equal(t, "first, edited", stored.Content)
}

func TestMergeIntoPost_ValidatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	repository := newMemoryRepository()
	service := newService(repository)

	err := service.MergeIntoPost(ctx, 1, 10, []comment.Input{
		{Content: "valid"},
		{Content: "   "},
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "comments[1].content", appError.Details[0].Field)
	assert.Empty(t, repository.comments)
}

func TestDeleteForPost(t *testing.T) {
	ctx := context.Background()
	repository := newMemoryRepository()
	service := newService(repository)

	_, _ = service.AddToPost(ctx, 1, 10, "a")
	_, _ = service.AddToPost(ctx, 1, 11, "b")

	require.NoError(t, service.DeleteForPost(ctx, 10))
	assert.Len(t, repository.comments, 1)
}

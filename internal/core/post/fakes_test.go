// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/blango/internal/core/comment"
	"github.com/taibuivan/blango/internal/core/post"
	"github.com/taibuivan/blango/internal/core/tag"
	"github.com/taibuivan/blango/internal/media"
	"github.com/taibuivan/blango/internal/platform/dberr"
	"github.com/taibuivan/blango/internal/platform/validate"
)

// Users known to every fake.
var (
	ann   = post.Author{ID: 1, Email: "ann@example.com", FirstName: "Ann"}
	bob   = post.Author{ID: 2, Email: "bob@example.com", FirstName: "Bob"}
	sally = post.Author{ID: 3, Email: "sally@example.com", FirstName: "Sally"}
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Posts

type memoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	posts   map[int64]*post.Post
	authors map[int64]post.Author
	tagIDs  map[int64]string
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		nextID:  1,
		posts:   make(map[int64]*post.Post),
		authors: map[int64]post.Author{ann.ID: ann, bob.ID: bob, sally.ID: sally},
		tagIDs:  map[int64]string{1: "news", 2: "go"},
	}
}

func clone(source *post.Post) *post.Post {
	copied := *source
	copied.Tags = slices.Clone(source.Tags)
	return &copied
}

// seed stores a post as-is and returns its id.
func (repository *memoryRepository) seed(entry post.Post) int64 {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	entry.ID = repository.nextID
	repository.nextID++
	entry.Author = repository.authors[entry.AuthorID]
	if entry.Slug == "" {
		entry.Slug = strings.ToLower(strings.ReplaceAll(entry.Title, " ", "-"))
	}
	repository.posts[entry.ID] = clone(&entry)
	return entry.ID
}

func (repository *memoryRepository) List(_ context.Context, listQuery post.ListQuery) ([]*post.Post, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	filter := listQuery.Filter
	if filter.TagID != 0 {
		filter.Tags = []string{repository.tagIDs[filter.TagID]}
	}

	matched := make([]*post.Post, 0, len(repository.posts))
	for _, entry := range repository.posts {
		if post.Visible(entry, listQuery.Viewer, listQuery.Now) && filter.Matches(entry, listQuery.Viewer) {
			matched = append(matched, clone(entry))
		}
	}

	// Newest publication first, drafts last
	slices.SortFunc(matched, func(a, b *post.Post) int {
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return int(b.ID - a.ID)
		case a.PublishedAt == nil:
			return 1
		case b.PublishedAt == nil:
			return -1
		}
		return b.PublishedAt.Compare(*a.PublishedAt)
	})

	end := min(listQuery.Offset+listQuery.Limit, len(matched))
	start := min(listQuery.Offset, end)
	return matched[start:end], len(matched), nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id int64) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if found, ok := repository.posts[id]; ok {
		return clone(found), nil
	}
	return nil, dberr.Wrap(pgx.ErrNoRows, "Post", "get_post_by_id")
}

func (repository *memoryRepository) FindBySlug(_ context.Context, slug string) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, found := range repository.posts {
		if found.Slug == slug {
			return clone(found), nil
		}
	}
	return nil, dberr.Wrap(pgx.ErrNoRows, "Post", "get_post_by_slug")
}

func (repository *memoryRepository) slugTaken(slug string, except int64) bool {
	for _, existing := range repository.posts {
		if existing.Slug == slug && existing.ID != except {
			return true
		}
	}
	return false
}

func (repository *memoryRepository) Create(_ context.Context, entry *post.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.slugTaken(entry.Slug, 0) {
		return validate.RequiredError(post.FieldSlug, "post with this slug already exists.")
	}
	entry.ID = repository.nextID
	repository.nextID++
	entry.CreatedAt = time.Now()
	entry.ModifiedAt = entry.CreatedAt
	entry.Author = repository.authors[entry.AuthorID]
	slices.Sort(entry.Tags)
	repository.posts[entry.ID] = clone(entry)
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, entry *post.Post) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.posts[entry.ID]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "Post", "update_post")
	}
	if repository.slugTaken(entry.Slug, entry.ID) {
		return validate.RequiredError(post.FieldSlug, "post with this slug already exists.")
	}
	entry.ModifiedAt = time.Now()
	entry.Author = repository.authors[entry.AuthorID]
	slices.Sort(entry.Tags)
	repository.posts[entry.ID] = clone(entry)
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.posts[id]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "Post", "delete_post")
	}
	delete(repository.posts, id)
	return nil
}

func (repository *memoryRepository) SetHeroImage(_ context.Context, id int64, key, ppoi string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	found, ok := repository.posts[id]
	if !ok {
		return dberr.Wrap(pgx.ErrNoRows, "Post", "set_hero_image")
	}
	found.HeroImage = &key
	found.PPOI = ppoi
	return nil
}

// # Collaborators

type memoryAuthors struct{}

func (memoryAuthors) FindAuthorByEmail(_ context.Context, email string) (*post.Author, error) {
	for _, author := range []post.Author{ann, bob, sally} {
		if strings.EqualFold(author.Email, email) {
			return &author, nil
		}
	}
	return nil, dberr.Wrap(pgx.ErrNoRows, "User", "get_user_by_email")
}

type memoryTags struct{}

func (memoryTags) GetTag(_ context.Context, id int64) (*tag.Tag, error) {
	switch id {
	case 1:
		return &tag.Tag{ID: 1, Value: "news"}, nil
	case 2:
		return &tag.Tag{ID: 2, Value: "go"}, nil
	}
	return nil, dberr.Wrap(pgx.ErrNoRows, "Tag", "get_tag_by_id")
}

type memoryComments struct {
	mu       sync.Mutex
	nextID   int64
	comments []*comment.Comment
	failing  error
}

func (comments *memoryComments) ListForPost(_ context.Context, postID int64) ([]*comment.Comment, error) {
	comments.mu.Lock()
	defer comments.mu.Unlock()
	var found []*comment.Comment
	for _, existing := range comments.comments {
		if existing.ObjectID == postID {
			found = append(found, existing)
		}
	}
	return found, nil
}

func (comments *memoryComments) AddToPost(_ context.Context, creatorID, postID int64, content string) (*comment.Comment, error) {
	comments.mu.Lock()
	defer comments.mu.Unlock()
	comments.nextID++
	created := &comment.Comment{
		ID:          comments.nextID,
		CreatorID:   creatorID,
		Content:     content,
		ContentType: comment.ContentTypePost,
		ObjectID:    postID,
	}
	comments.comments = append(comments.comments, created)
	return created, nil
}

func (comments *memoryComments) MergeIntoPost(context context.Context, requesterID, postID int64, inputs []comment.Input) error {
	if comments.failing != nil {
		return comments.failing
	}
	for _, input := range inputs {
		if input.ID == nil {
			if _, err := comments.AddToPost(context, requesterID, postID, input.Content); err != nil {
				return err
			}
			continue
		}
		comments.mu.Lock()
		for _, existing := range comments.comments {
			if existing.ID == *input.ID && existing.ObjectID == postID && existing.CreatorID == requesterID {
				existing.Content = input.Content
			}
		}
		comments.mu.Unlock()
	}
	return nil
}

func (comments *memoryComments) DeleteForPost(_ context.Context, postID int64) error {
	comments.mu.Lock()
	defer comments.mu.Unlock()
	if comments.failing != nil {
		return comments.failing
	}
	comments.comments = slices.DeleteFunc(comments.comments, func(existing *comment.Comment) bool {
		return existing.ObjectID == postID
	})
	return nil
}

// # Transactions

// memoryTransactor restores posts and comments when fn fails.
type memoryTransactor struct {
	repository *memoryRepository
	comments   *memoryComments
	rollbacks  int
}

func (tx *memoryTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.repository.mu.Lock()
	posts := make(map[int64]*post.Post, len(tx.repository.posts))
	for id, entry := range tx.repository.posts {
		posts[id] = clone(entry)
	}
	tx.repository.mu.Unlock()

	tx.comments.mu.Lock()
	comments := make([]*comment.Comment, 0, len(tx.comments.comments))
	for _, existing := range tx.comments.comments {
		copied := *existing
		comments = append(comments, &copied)
	}
	tx.comments.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.repository.mu.Lock()
		tx.repository.posts = posts
		tx.repository.mu.Unlock()
		tx.comments.mu.Lock()
		tx.comments.comments = comments
		tx.comments.mu.Unlock()
		tx.rollbacks++
		return err
	}
	return nil
}

// # Images

type memoryImages struct {
	mu      sync.Mutex
	stored  []string
	removed []string
}

func (images *memoryImages) Store(_ context.Context, key, _ string, _ []byte, _ media.PPOI) error {
	images.mu.Lock()
	defer images.mu.Unlock()
	images.stored = append(images.stored, key)
	return nil
}

func (images *memoryImages) Remove(_ context.Context, key string, _ media.PPOI) error {
	images.mu.Lock()
	defer images.mu.Unlock()
	images.removed = append(images.removed, key)
	return nil
}

// # Wiring

type fixture struct {
	repository *memoryRepository
	comments   *memoryComments
	service    *post.Service
}

func newFixture() *fixture {
	repository := newMemoryRepository()
	comments := &memoryComments{}
	service := post.NewService(repository, memoryAuthors{}, comments, memoryTags{}, nil, discard).
		WithClock(func() time.Time { return now })
	return &fixture{repository: repository, comments: comments, service: service}
}

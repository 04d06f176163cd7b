// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blango/internal/core/tag"
	"github.com/taibuivan/blango/internal/platform/database/schema"
	"github.com/taibuivan/blango/internal/platform/dberr"
	"github.com/taibuivan/blango/internal/platform/postgres"
	"github.com/taibuivan/blango/internal/platform/validate"
	"github.com/taibuivan/blango/pkg/slice"
)

const resourcePost = "Post"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Author.Email, &post.Author.FirstName, &post.Author.LastName,
		&post.CreatedAt, &post.ModifiedAt, &post.PublishedAt, &post.Title,
		&post.Slug, &post.Summary, &post.Content, &post.HeroImage, &post.PPOI,
		&post.Tags,
	)
	if err != nil {
		return nil, err
	}
	post.Author.ID = post.AuthorID
	return post, nil
}

func (repository *PostgresRepository) List(context context.Context, listQuery ListQuery) ([]*Post, int, error) {
	listSQL, listArgs, countSQL, countArgs := buildList(listQuery)

	var total int
	if err := postgres.Conn(context, repository.db).QueryRow(context, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourcePost, "count_posts")
	}

	rows, err := postgres.Conn(context, repository.db).Query(context, listSQL, listArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourcePost, "list_posts")
	}

	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Post, error) {
		return scanPost(row)
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourcePost, "scan_posts")
	}

	return posts, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Post, error) {
	query := selectPost + fmt.Sprintf(" WHERE p.%s = $1", schema.Post.ID)

	post, err := scanPost(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourcePost, "get_post_by_id")
	}
	return post, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Post, error) {
	query := selectPost + fmt.Sprintf(" WHERE p.%s = $1", schema.Post.Slug)

	post, err := scanPost(postgres.Conn(context, repository.db).QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, resourcePost, "get_post_by_slug")
	}
	return post, nil
}

func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s`,
		schema.Post.Table,
		schema.Post.AuthorID, schema.Post.PublishedAt, schema.Post.Title, schema.Post.Slug,
		schema.Post.Summary, schema.Post.Content, schema.Post.PPOI,
		schema.Post.ID, schema.Post.CreatedAt, schema.Post.ModifiedAt,
	)

	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query,
			post.AuthorID, post.PublishedAt, post.Title, post.Slug,
			post.Summary, post.Content, post.PPOI,
		).Scan(&post.ID, &post.CreatedAt, &post.ModifiedAt)
		if err != nil {
			return err
		}
		return replaceTags(context, tx, post)
	})
	return wrapWrite(err, "create_post")
}

func (repository *PostgresRepository) Update(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $7
		RETURNING %s`,
		schema.Post.Table,
		schema.Post.AuthorID, schema.Post.PublishedAt, schema.Post.Title,
		schema.Post.Slug, schema.Post.Summary, schema.Post.Content, schema.Post.ModifiedAt,
		schema.Post.ID,
		schema.Post.ModifiedAt,
	)

	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query,
			post.AuthorID, post.PublishedAt, post.Title,
			post.Slug, post.Summary, post.Content, post.ID,
		).Scan(&post.ModifiedAt)
		if err != nil {
			return err
		}
		return replaceTags(context, tx, post)
	})
	return wrapWrite(err, "update_post")
}

// replaceTags makes the post's tag links equal to post.Tags.
func replaceTags(context context.Context, tx pgx.Tx, post *Post) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.PostTags.Table, schema.PostTags.PostID)
	if _, err := tx.Exec(context, deleteQuery, post.ID); err != nil {
		return err
	}

	tags, err := tag.UpsertValues(context, tx, post.Tags)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	tagIDs := slice.Map(tags, func(item *tag.Tag) int64 { return item.ID })

	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::BIGINT[])
		ON CONFLICT DO NOTHING`,
		schema.PostTags.Table, schema.PostTags.PostID, schema.PostTags.TagID)
	_, err = tx.Exec(context, linkQuery, post.ID, tagIDs)
	return err
}

// wrapWrite reports a duplicate slug as a field error rather than a bare conflict.
func wrapWrite(err error, action string) error {
	if err == nil {
		return nil
	}
	if dberr.IsUniqueViolation(err) {
		return validate.RequiredError(FieldSlug, "post with this slug already exists.")
	}
	return dberr.Wrap(err, resourcePost, action)
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Post.Table, schema.Post.ID)

	result, err := postgres.Conn(context, repository.db).Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourcePost, "delete_post")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourcePost, "delete_post")
	}
	return nil
}

func (repository *PostgresRepository) SetHeroImage(context context.Context, id int64, key, ppoi string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = NOW() WHERE %s = $3`,
		schema.Post.Table, schema.Post.HeroImage, schema.Post.PPOI, schema.Post.ModifiedAt, schema.Post.ID)

	result, err := postgres.Conn(context, repository.db).Exec(context, query, key, ppoi, id)
	if err != nil {
		return dberr.Wrap(err, resourcePost, "set_hero_image")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourcePost, "set_hero_image")
	}
	return nil
}

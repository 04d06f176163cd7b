// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blango/internal/platform/database/schema"
	"github.com/taibuivan/blango/internal/platform/dberr"
	"github.com/taibuivan/blango/internal/platform/postgres"
)

const resourceComment = "Comment"

// selectComment joins the creator so a single query yields the public view.
var selectComment = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
	       u.%s, u.%s, u.%s
	FROM %s c
	JOIN %s u ON u.%s = c.%s`,
	schema.Comment.ID, schema.Comment.CreatorID, schema.Comment.Content,
	schema.Comment.ContentType, schema.Comment.ObjectID,
	schema.Comment.CreatedAt, schema.Comment.ModifiedAt,
	schema.User.FirstName, schema.User.LastName, schema.User.Email,
	schema.Comment.Table, schema.User.Table, schema.User.ID, schema.Comment.CreatorID,
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.CreatorID, &comment.Content,
		&comment.ContentType, &comment.ObjectID,
		&comment.CreatedAt, &comment.ModifiedAt,
		&comment.Creator.FirstName, &comment.Creator.LastName, &comment.Creator.Email,
	)
	return comment, err
}

func (repository *PostgresRepository) ListFor(context context.Context, contentType string, objectID int64) ([]*Comment, error) {
	query := selectComment + fmt.Sprintf(` WHERE c.%s = $1 AND c.%s = $2 ORDER BY c.%s ASC, c.%s ASC`,
		schema.Comment.ContentType, schema.Comment.ObjectID, schema.Comment.CreatedAt, schema.Comment.ID)

	rows, err := postgres.Conn(context, repository.db).Query(context, query, contentType, objectID)
	if err != nil {
		return nil, dberr.Wrap(err, resourceComment, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceComment, "scan_comment")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceComment, "list_comments")
	}
	return comments, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Comment, error) {
	query := selectComment + fmt.Sprintf(` WHERE c.%s = $1`, schema.Comment.ID)

	comment, err := scanComment(postgres.Conn(context, repository.db).QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceComment, "get_comment_by_id")
	}
	return comment, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		schema.Comment.Table,
		schema.Comment.CreatorID, schema.Comment.Content, schema.Comment.ContentType, schema.Comment.ObjectID,
		schema.Comment.ID, schema.Comment.CreatedAt, schema.Comment.ModifiedAt,
	)

	err := postgres.Conn(context, repository.db).QueryRow(context, query,
		comment.CreatorID, comment.Content, comment.ContentType, comment.ObjectID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.ModifiedAt)
	if err != nil {
		return dberr.Wrap(err, resourceComment, "create_comment")
	}
	return nil
}

func (repository *PostgresRepository) UpdateContent(context context.Context, id int64, content string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.Comment.Table, schema.Comment.Content, schema.Comment.ModifiedAt, schema.Comment.ID)

	result, err := postgres.Conn(context, repository.db).Exec(context, query, content, id)
	if err != nil {
		return dberr.Wrap(err, resourceComment, "update_comment")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceComment, "update_comment")
	}
	return nil
}

func (repository *PostgresRepository) DeleteFor(context context.Context, contentType string, objectID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Comment.Table, schema.Comment.ContentType, schema.Comment.ObjectID)

	if _, err := postgres.Conn(context, repository.db).Exec(context, query, contentType, objectID); err != nil {
		return dberr.Wrap(err, resourceComment, "delete_comments")
	}
	return nil
}

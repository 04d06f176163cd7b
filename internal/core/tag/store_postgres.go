// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blango/internal/platform/database/schema"
	"github.com/taibuivan/blango/internal/platform/dberr"
	"github.com/taibuivan/blango/internal/platform/postgres"
)

const resourceTag = "Tag"

// upsertQuery inserts a value or touches the existing row so RETURNING always
// yields it. xmax is zero only for freshly inserted tuples.
var upsertQuery = fmt.Sprintf(`
	INSERT INTO %s (%s) VALUES ($1)
	ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
	RETURNING %s, %s, (xmax = 0) AS created`,
	schema.Tag.Table, schema.Tag.Value,
	schema.Tag.Value, schema.Tag.Value, schema.Tag.Value,
	schema.Tag.ID, schema.Tag.Value,
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Tag, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Tag.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceTag, "count_tags")
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2`,
		schema.Tag.ID, schema.Tag.Value, schema.Tag.Table, schema.Tag.Value)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceTag, "list_tags")
	}

	tags, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[Tag])
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceTag, "scan_tags")
	}

	return tags, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.Tag.ID, schema.Tag.Value, schema.Tag.Table, schema.Tag.ID)

	tag := &Tag{}
	if err := repository.db.QueryRow(context, query, id).Scan(&tag.ID, &tag.Value); err != nil {
		return nil, dberr.Wrap(err, resourceTag, "get_tag_by_id")
	}
	return tag, nil
}

func (repository *PostgresRepository) GetOrCreate(context context.Context, value string) (*Tag, bool, error) {
	tag := &Tag{}
	var created bool

	if err := repository.db.QueryRow(context, upsertQuery, value).Scan(&tag.ID, &tag.Value, &created); err != nil {
		return nil, false, dberr.Wrap(err, resourceTag, "get_or_create_tag")
	}
	return tag, created, nil
}

func (repository *PostgresRepository) Update(context context.Context, tag *Tag) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.Tag.Table, schema.Tag.Value, schema.Tag.ID)

	result, err := repository.db.Exec(context, query, tag.Value, tag.ID)
	if err != nil {
		return dberr.Wrap(err, resourceTag, "update_tag")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceTag, "update_tag")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Tag.Table, schema.Tag.ID)

	result, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceTag, "delete_tag")
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceTag, "delete_tag")
	}
	return nil
}

// UpsertValues get-or-creates every value in one round trip and returns the
// tags in input order. It runs on db, which may be a transaction.
func UpsertValues(context context.Context, db postgres.DBTX, values []string) ([]*Tag, error) {
	if len(values) == 0 {
		return []*Tag{}, nil
	}

	batch := &pgx.Batch{}
	for _, value := range values {
		batch.Queue(upsertQuery, value)
	}

	results := db.SendBatch(context, batch)
	defer results.Close()

	tags := make([]*Tag, 0, len(values))
	for range values {
		tag := &Tag{}
		var created bool
		if err := results.QueryRow().Scan(&tag.ID, &tag.Value, &created); err != nil {
			return nil, dberr.Wrap(err, resourceTag, "upsert_tags")
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

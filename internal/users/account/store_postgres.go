// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blango/internal/platform/database/schema"
	"github.com/taibuivan/blango/internal/platform/dberr"
)

const resourceUser = "User"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for account reads.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectProfile joins the optional author profile onto the user row.
var selectProfile = fmt.Sprintf(`
	SELECT u.%s, u.%s, u.%s, u.%s, u.%s, COALESCE(ap.%s, '')
	FROM %s u
	LEFT JOIN %s ap ON ap.%s = u.%s`,
	schema.User.ID, schema.User.IsStaff, schema.User.FirstName, schema.User.LastName, schema.User.Email,
	schema.AuthorProfile.Bio,
	schema.User.Table,
	schema.AuthorProfile.Table, schema.AuthorProfile.UserID, schema.User.ID,
)

func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	err := row.Scan(
		&profile.UserID,
		&profile.IsStaff,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.Bio,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

/*
FindByEmail retrieves a user and their bio.

Parameters:
  - context: context.Context
  - email: string, matched case-insensitively

Returns:
  - *Profile: Hydrated profile
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Profile, error) {
	query := selectProfile + fmt.Sprintf(` WHERE LOWER(u.%s) = LOWER($1)`, schema.User.Email)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "get_profile_by_email")
	}
	return profile, nil
}

// FindByID retrieves a user and their bio by id.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Profile, error) {
	query := selectProfile + fmt.Sprintf(` WHERE u.%s = $1`, schema.User.ID)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "get_profile_by_id")
	}
	return profile, nil
}

/*
UpsertBio stores the author profile of a user.

Description: The profile row is created on first write; userid is unique so
later writes replace the bio in place.
*/
func (repository *PostgresRepository) UpsertBio(context context.Context, userID int64, bio string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s`,
		schema.AuthorProfile.Table, schema.AuthorProfile.UserID, schema.AuthorProfile.Bio,
		schema.AuthorProfile.UserID, schema.AuthorProfile.Bio, schema.AuthorProfile.Bio,
	)

	if _, err := repository.pool.Exec(context, query, userID, bio); err != nil {
		return dberr.Wrap(err, "AuthorProfile", "upsert_author_profile")
	}
	return nil
}

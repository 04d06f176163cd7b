// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/blango/internal/platform/database/schema"
	"github.com/taibuivan/blango/internal/platform/dberr"
)

const (
	resourceUser  = "User"
	resourceToken = "Token"
)

// selectUser lists the user columns in scan order.
var selectUser = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.User.Columns(), ", "), schema.User.Table)

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsStaff,
		&user.IsActive,
		&user.DateJoined,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := selectUser + fmt.Sprintf(` WHERE %s = $1`, schema.User.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "get_user_by_id")
	}
	return user, nil
}

/*
FindByEmail retrieves a user by email address, ignoring case.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectUser + fmt.Sprintf(` WHERE LOWER(%s) = LOWER($1)`, schema.User.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser, "get_user_by_email")
	}
	return user, nil
}

/*
Create persists a new user and fills in the generated id and join date.

Returns:
  - error: apperr.Conflict when the email is taken, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.User.Table,
		schema.User.Email, schema.User.PasswordHash, schema.User.FirstName,
		schema.User.LastName, schema.User.IsStaff, schema.User.IsActive,
		schema.User.ID, schema.User.DateJoined,
	)

	err := repository.pool.QueryRow(context, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsStaff,
		user.IsActive,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		return dberr.Wrap(err, resourceUser, "create_user")
	}
	return nil
}

// # Token Repository

// PostgresTokenRepository implements [TokenRepository] using pgx.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new PostgreSQL implementation of the TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

/*
GetOrCreate inserts candidate unless the user already has a token.

Description: The unique user column makes concurrent first issues converge on
one row; the no-op update lets RETURNING yield the surviving key.
*/
func (repository *PostgresTokenRepository) GetOrCreate(context context.Context, userID int64, candidate string) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s`,
		schema.APIToken.Table, schema.APIToken.Key, schema.APIToken.UserID,
		schema.APIToken.UserID, schema.APIToken.UserID, schema.APIToken.UserID,
		schema.APIToken.Key,
	)

	var key string
	if err := repository.pool.QueryRow(context, query, candidate, userID).Scan(&key); err != nil {
		return "", dberr.Wrap(err, resourceToken, "get_or_create_token")
	}
	return key, nil
}

// FindUser returns the owner of an API token.
func (repository *PostgresTokenRepository) FindUser(context context.Context, key string) (*User, error) {
	columns := make([]string, 0, len(schema.User.Columns()))
	for _, column := range schema.User.Columns() {
		columns = append(columns, "u."+column)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s u
		JOIN %s t ON t.%s = u.%s
		WHERE t.%s = $1`,
		strings.Join(columns, ", "), schema.User.Table,
		schema.APIToken.Table, schema.APIToken.UserID, schema.User.ID,
		schema.APIToken.Key,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, key))
	if err != nil {
		return nil, dberr.Wrap(err, resourceToken, "get_token_user")
	}
	return user, nil
}

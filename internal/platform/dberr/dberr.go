// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/blango/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// The resource name feeds the client message ("Post not found"); the action
// is only recorded in the server-side cause.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	// Let already classified errors pass through untouched.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations carry the SQLSTATE class
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			appError := apperr.Conflict(fmt.Sprintf("%s already exists", resource))
			appError.Cause = fmt.Errorf("%s: %w", action, err)
			return appError
		case pgerrcode.ForeignKeyViolation:
			appError := apperr.ValidationError(fmt.Sprintf("%s references a missing record", resource))
			appError.Cause = fmt.Errorf("%s: %w", action, err)
			return appError
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}

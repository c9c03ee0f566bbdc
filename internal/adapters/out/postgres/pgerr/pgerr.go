// Package pgerr classifies Postgres errors raised by the repositories.
package pgerr

import (
	"errors"

	"parcelflow/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Translate maps conflicts between concurrent writers to
// *errs.ConcurrentModificationError. Every other error is returned as is.
func Translate(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return errs.NewConcurrentModificationErrorWithCause(entity, id, err)
	default:
		return err
	}
}

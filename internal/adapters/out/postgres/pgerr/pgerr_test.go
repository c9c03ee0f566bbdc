package pgerr_test

import (
	"errors"
	"fmt"
	"testing"

	"parcelflow/internal/adapters/out/postgres/pgerr"
	"parcelflow/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name           string
		err            error
		wantConcurrent bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, wantConcurrent: true},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, wantConcurrent: true},
		{name: "wrapped deadlock", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), wantConcurrent: true},
		{name: "not null violation", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}},
		{name: "plain error", err: plain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pgerr.Translate(tc.err, "parcel", "p-1")

			if tc.wantConcurrent {
				require.ErrorIs(t, got, errs.ErrConcurrentModification)
				return
			}
			assert.Equal(t, tc.err, got)
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	assert.NoError(t, pgerr.Translate(nil, "parcel", "p-1"))
}

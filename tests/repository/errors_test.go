package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wayfound/atlas/pkg/repository"
)

var (
	errNotFound  = errors.New("record not found")
	errDuplicate = errors.New("record already exists")
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows becomes not found", sql.ErrNoRows, errNotFound},
		{
			"wrapped no rows becomes not found",
			fmt.Errorf("query: %w", sql.ErrNoRows),
			errNotFound,
		},
		{
			"unique violation becomes duplicate",
			&pgconn.PgError{Code: "23505"},
			errDuplicate,
		},
		{
			"other pg errors pass through",
			&pgconn.PgError{Code: "23503"},
			&pgconn.PgError{Code: "23503"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapError(tc.err, errNotFound, errDuplicate)
			if tc.want == nil {
				if got != nil {
					t.Errorf("MapError = %v, want nil", got)
				}
				return
			}

			var pgErr *pgconn.PgError
			if errors.As(tc.want, &pgErr) {
				var gotPg *pgconn.PgError
				if !errors.As(got, &gotPg) || gotPg.Code != pgErr.Code {
					t.Errorf("MapError = %v, want pg error %s", got, pgErr.Code)
				}
				return
			}

			if !errors.Is(got, tc.want) {
				t.Errorf("MapError = %v, want %v", got, tc.want)
			}
		})
	}
}

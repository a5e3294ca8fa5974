package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the repos care about
var sqlState = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

func pgCode(err error) ErrorCode {
	if stderrs.Is(err, pgx.ErrNoRows) {
		return ErrorCodeNotFound
	}
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		if c, ok := sqlState[pgErr.Code]; ok {
			return c
		}
	}
	return ErrorCodeDB
}

// FromPostgres classifies a driver error under msg
// nil and already classified errors are returned unchanged
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return Wrap(err, pgCode(err), msg)
}

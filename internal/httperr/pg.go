package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE relevantes para a corrida check-then-write.
const (
	pgExclusionViolation  = "23P01"
	pgSerializationFailed = "40001"
)

// IsExclusionConflict detecta a violação da constraint de exclusão de
// horários (criada em internal/db). É o sinal de que duas escritas
// concorrentes passaram pela checagem de conflito ao mesmo tempo.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}

func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailed
	}
	return false
}

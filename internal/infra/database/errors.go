package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgInvalidTextRepresentation = "22P02"
	pgForeignKeyViolation       = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isInvalidUUID cobre ids que nem chegam a ser UUID: para o chamador é "não existe".
func isInvalidUUID(err error) bool {
	return pgCode(err) == pgInvalidTextRepresentation
}

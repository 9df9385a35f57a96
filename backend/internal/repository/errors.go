package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate a unique constraint rejected the write
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrReferenced a foreign key rejected the write or delete
	ErrReferenced = errors.New("repository: row is referenced")
)

// Unique constraints the services tell apart
const (
	ConstraintUserLogin = "uq_usuarios_login"
	ConstraintUserEmail = "uq_usuarios_email"
)

// DuplicateError a unique constraint rejected the write; Constraint is empty
// when the driver did not name it
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	if e.Constraint == "" {
		return ErrDuplicate.Error()
	}
	return ErrDuplicate.Error() + " (" + e.Constraint + ")"
}

// Is matches ErrDuplicate
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// DuplicateOn reports whether err is a duplicate rejected by the named constraint
func DuplicateOn(err error, constraint string) bool {
	var dup *DuplicateError
	return errors.As(err, &dup) && dup.Constraint == constraint
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDupEntry         = 1062
	mysqlRowIsReferenced  = 1451
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow  = 1452
	mysqlNoReferencedRow2 = 1216
)

// classify maps driver constraint failures onto ErrDuplicate / ErrReferenced,
// leaving every other error untouched
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrReferenced
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateError{Constraint: pgErr.ConstraintName}
		case pgForeignKeyViolation:
			return ErrReferenced
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return &DuplicateError{Constraint: mysqlKeyName(myErr.Message)}
		case mysqlRowIsReferenced, mysqlRowIsReferenced2, mysqlNoReferencedRow, mysqlNoReferencedRow2:
			return ErrReferenced
		}
	}

	return err
}

// mysqlKeyName pulls the index out of "Duplicate entry 'x' for key 'usuarios.uq_usuarios_email'";
// servers before 8.0.19 omit the table prefix
func mysqlKeyName(msg string) string {
	const marker = "for key '"
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[i+len(marker):], "'")
	if j := strings.LastIndex(key, "."); j >= 0 {
		key = key[j+1:]
	}
	return key
}

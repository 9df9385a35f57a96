package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	other := errors.New("conexão perdida")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"gorm duplicado", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"gorm fk", fmt.Errorf("delete: %w", gorm.ErrForeignKeyViolated), ErrReferenced},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"postgres fk", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23503"}), ErrReferenced},
		{"postgres outro", &pgconn.PgError{Code: "40001"}, nil},
		{"mysql duplicado", &mysql.MySQLError{Number: 1062}, ErrDuplicate},
		{"mysql fk delete", &mysql.MySQLError{Number: 1451}, ErrReferenced},
		{"mysql fk insert", &mysql.MySQLError{Number: 1452}, ErrReferenced},
		{"não encontrado passa", gorm.ErrRecordNotFound, gorm.ErrRecordNotFound},
		{"outro passa", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.in)
			if tt.want == nil {
				if tt.in == nil && got != nil {
					t.Errorf("esperado nil, obtido %v", got)
				}
				if tt.in != nil && (errors.Is(got, ErrDuplicate) || errors.Is(got, ErrReferenced)) {
					t.Errorf("erro não deveria ser reclassificado: %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("esperado %v, obtido %v", tt.want, got)
			}
		})
	}
}

func TestClassify_DuplicateConstraint(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want string
	}{
		{"postgres email", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserEmail}, ConstraintUserEmail},
		{"postgres login", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: ConstraintUserLogin}), ConstraintUserLogin},
		{"mysql 8", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.gov.br' for key 'usuarios.uq_usuarios_email'"}, ConstraintUserEmail},
		{"mysql 5.7", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'maria' for key 'uq_usuarios_login'"}, ConstraintUserLogin},
		{"gorm sem nome", gorm.ErrDuplicatedKey, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.in)
			if !errors.Is(got, ErrDuplicate) {
				t.Fatalf("esperado ErrDuplicate, obtido %v", got)
			}
			if tt.want != "" && !DuplicateOn(got, tt.want) {
				t.Errorf("esperado restrição %s, obtido %v", tt.want, got)
			}
			if DuplicateOn(got, ConstraintUserEmail) && tt.want != ConstraintUserEmail {
				t.Errorf("restrição de e-mail inesperada: %v", got)
			}
		})
	}
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate of every repository, sharing one *gorm.DB
type Repository struct {
	db *gorm.DB

	Entity      EntityRepository
	Department  DepartmentRepository
	User        UserRepository
	Procurement ProcurementRepository
}

// NewRepository builds the aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		Entity:      NewEntityRepo(db),
		Department:  NewDepartmentRepo(db),
		User:        NewUserRepo(db),
		Procurement: NewProcurementRepo(db),
	}
}

// BeginTx opens a transaction. Without a database (unit tests) it returns (nil, nil)
// and callers run on the plain repositories.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate bound to tx; a nil tx returns the receiver
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// DB underlying handle, nil in unit tests
func (r *Repository) DB() *gorm.DB {
	return r.db
}

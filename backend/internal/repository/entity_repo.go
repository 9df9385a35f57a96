package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pca-portal/backend/internal/model"
)

// EntityRepository access to the single ente row
type EntityRepository interface {
	// Get returns gorm.ErrRecordNotFound while the row was never saved
	Get(ctx context.Context) (*model.Entity, error)
	Save(ctx context.Context, entity *model.Entity) error
}

type entityRepo struct {
	db *gorm.DB
}

// NewEntityRepo creates an EntityRepository
func NewEntityRepo(db *gorm.DB) EntityRepository {
	return &entityRepo{db: db}
}

func (r *entityRepo) Get(ctx context.Context) (*model.Entity, error) {
	var entity model.Entity
	err := r.db.WithContext(ctx).Order("id ASC").First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Save upserts the row under model.EntityID
func (r *entityRepo) Save(ctx context.Context, entity *model.Entity) error {
	entity.ID = model.EntityID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(entity).Error
}

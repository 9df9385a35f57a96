package repository

import (
	"context"

	"gorm.io/gorm"

	"pca-portal/backend/internal/model"
)

// DepartmentRepository access to secretarias
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id uint) (*model.Department, error)
	GetByName(ctx context.Context, name string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id uint) error
	CountDependents(ctx context.Context, id uint) (users int64, procurements int64, err error)
}

type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo creates a DepartmentRepository
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return classify(r.db.WithContext(ctx).Create(dept).Error)
}

func (r *departmentRepo) GetByID(ctx context.Context, id uint) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByName(ctx context.Context, name string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("nome = ?", name).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("nome ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return classify(r.db.WithContext(ctx).
		Model(&model.Department{}).
		Where("id = ?", dept.ID).
		Update("nome", dept.Name).Error)
}

// Delete removes the row; gorm.ErrRecordNotFound when it does not exist
func (r *departmentRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Department{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *departmentRepo) CountDependents(ctx context.Context, id uint) (int64, int64, error) {
	var users, procurements int64
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("secretaria_id = ?", id).
		Count(&users).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Procurement{}).
		Where("secretaria_id = ?", id).
		Count(&procurements).Error; err != nil {
		return 0, 0, err
	}
	return users, procurements, nil
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pca-portal/backend/internal/model"
)

// ProcurementFilter the three public filter parameters. Nil / empty means "all".
type ProcurementFilter struct {
	DepartmentID *uint
	FiscalYear   *int
	// Code substring of the derived identifier
	Code string
}

// ProcurementRepository access to contratacoes
type ProcurementRepository interface {
	Create(ctx context.Context, p *model.Procurement) error
	// SetCode stamps the derived identifier onto a single row
	SetCode(ctx context.Context, id uint, code string) error
	GetByID(ctx context.Context, id uint) (*model.Procurement, error)
	List(ctx context.Context, filter ProcurementFilter) ([]model.Procurement, error)
	// Update writes every mutable column; the identifier is never touched
	Update(ctx context.Context, p *model.Procurement) error
	Delete(ctx context.Context, id uint) error
	LastModified(ctx context.Context) (*time.Time, error)
	FiscalYears(ctx context.Context) ([]int, error)
}

type procurementRepo struct {
	db *gorm.DB
}

// NewProcurementRepo creates a ProcurementRepository
func NewProcurementRepo(db *gorm.DB) ProcurementRepository {
	return &procurementRepo{db: db}
}

func (r *procurementRepo) Create(ctx context.Context, p *model.Procurement) error {
	return classify(r.db.WithContext(ctx).
		Omit("Department", "codigo_identificador").
		Create(p).Error)
}

func (r *procurementRepo) SetCode(ctx context.Context, id uint, code string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Procurement{}).
		Where("id = ?", id).
		UpdateColumn("codigo_identificador", code)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *procurementRepo) GetByID(ctx context.Context, id uint) (*model.Procurement, error) {
	var p model.Procurement
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *procurementRepo) List(ctx context.Context, filter ProcurementFilter) ([]model.Procurement, error) {
	q := r.db.WithContext(ctx).Preload("Department")
	if filter.DepartmentID != nil {
		q = q.Where("secretaria_id = ?", *filter.DepartmentID)
	}
	if filter.FiscalYear != nil {
		q = q.Where("exercicio = ?", *filter.FiscalYear)
	}
	if filter.Code != "" {
		q = q.Where("codigo_identificador LIKE ?", "%"+escapeLike(filter.Code)+"%")
	}

	var list []model.Procurement
	err := q.Order("exercicio DESC").Order("id ASC").Find(&list).Error
	return list, err
}

func (r *procurementRepo) Update(ctx context.Context, p *model.Procurement) error {
	return classify(r.db.WithContext(ctx).
		Model(p).
		Select("exercicio", "objeto", "descricao", "valor_estimado", "dotacao", "data_planejada", "secretaria_id", "data_atualizacao").
		Omit("Department", "codigo_identificador").
		Updates(p).Error)
}

func (r *procurementRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Procurement{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *procurementRepo) LastModified(ctx context.Context) (*time.Time, error) {
	var p model.Procurement
	err := r.db.WithContext(ctx).
		Select("data_atualizacao").
		Order("data_atualizacao DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p.UpdatedAt, nil
}

func (r *procurementRepo) FiscalYears(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).
		Model(&model.Procurement{}).
		Distinct("exercicio").
		Order("exercicio DESC").
		Pluck("exercicio", &years).Error
	return years, err
}

// escapeLike makes % and _ in user input match literally
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

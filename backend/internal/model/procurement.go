package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Procurement one planned purchase of the annual plan (Contratação)
type Procurement struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement"                json:"id"`
	FiscalYear     int             `gorm:"column:exercicio;not null;index"                   json:"fiscal_year"`
	Subject        string          `gorm:"column:objeto;type:varchar(500);not null"          json:"subject"`
	Description    string          `gorm:"column:descricao;type:text"                        json:"description"`
	EstimatedValue decimal.Decimal `gorm:"column:valor_estimado;type:decimal(15,2);not null;default:0" json:"estimated_value"`
	BudgetLine     string          `gorm:"column:dotacao;type:varchar(100)"                  json:"budget_line"`
	PlannedDate    Date            `gorm:"column:data_planejada"                             json:"planned_date"`
	DepartmentID   uint            `gorm:"column:secretaria_id;not null;index"               json:"department_id"`
	UpdatedAt      time.Time       `gorm:"column:data_atualizacao;autoUpdateTime"            json:"updated_at"`

	// Code stamped once right after insert, never recomputed
	Code *string `gorm:"column:codigo_identificador;type:varchar(100);uniqueIndex:uq_contratacoes_codigo" json:"code"`

	Department *Department `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnDelete:RESTRICT" json:"department,omitempty"`
}

// TableName maps to contratacoes
func (Procurement) TableName() string { return "contratacoes" }

// ProcurementCode derives the human-readable identifier PCA-{id}.{year}-{department}
func ProcurementCode(id uint, fiscalYear int, departmentID uint) string {
	return fmt.Sprintf("PCA-%d.%d-%d", id, fiscalYear, departmentID)
}

// CodeValue the identifier or ""
func (p *Procurement) CodeValue() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

// DepartmentName name of the owning department when preloaded
func (p *Procurement) DepartmentName() string {
	if p.Department == nil {
		return ""
	}
	return p.Department.Name
}

package model

// Department an organizational unit (Secretaria) owning users and procurement records
type Department struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"          json:"id"`
	Name string `gorm:"column:nome;type:varchar(255);not null;uniqueIndex:uq_secretarias_nome" json:"name"`
}

// TableName maps to secretarias
func (Department) TableName() string { return "secretarias" }

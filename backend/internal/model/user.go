package model

import "time"

// AdminLogin the distinguished superuser login
const AdminLogin = "admin"

// User back-office account (Usuario)
type User struct {
	ID           uint    `gorm:"column:id;primaryKey;autoIncrement"                                 json:"id"`
	Name         string  `gorm:"column:nome;type:varchar(255);not null"                             json:"name"`
	Login        string  `gorm:"column:login;type:varchar(100);not null;uniqueIndex:uq_usuarios_login" json:"login"`
	Email        *string `gorm:"column:email;type:varchar(150);uniqueIndex:uq_usuarios_email"       json:"email,omitempty"`
	PasswordHash string  `gorm:"column:senha;type:varchar(255);not null"                            json:"-"`
	DepartmentID uint    `gorm:"column:secretaria_id;not null;index"                                json:"department_id"`

	// PasswordChangedAt sessions established before this instant are rejected
	PasswordChangedAt *time.Time `gorm:"column:senha_alterada_em" json:"-"`

	Department *Department `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnDelete:RESTRICT" json:"department,omitempty"`
}

// TableName maps to usuarios
func (User) TableName() string { return "usuarios" }

// IsAdmin reports whether this is the superuser account
func (u *User) IsAdmin() bool { return u.Login == AdminLogin }

// EmailValue the email or ""
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

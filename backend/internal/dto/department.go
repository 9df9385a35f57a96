package dto

// DepartmentRequest create or rename a department
type DepartmentRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=255"`
}

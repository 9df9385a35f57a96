package dto

// ── shared responses ──

// DepartmentResponse id and name of a department
type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserResponse account without credential data
type UserResponse struct {
	ID         uint                `json:"id"`
	Name       string              `json:"name"`
	Login      string              `json:"login"`
	Email      string              `json:"email,omitempty"`
	IsAdmin    bool                `json:"is_admin"`
	Department *DepartmentResponse `json:"department,omitempty"`
}

// EntityResponse public data of the government body
type EntityResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LogoURL string `json:"logo_url,omitempty"`
}

package dto

// ── user management ──

// CreateUserRequest admin creates an account
type CreateUserRequest struct {
	Name            string `json:"name"             form:"name"             binding:"required,max=255"`
	Login           string `json:"login"            form:"login"            binding:"required,max=100"`
	Email           string `json:"email"            form:"email"            binding:"omitempty,email,max=150"`
	Password        string `json:"password"         form:"password"         binding:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
	DepartmentID    uint   `json:"department_id"    form:"department_id"    binding:"required"`
}

// UpdateUserRequest admin edits profile fields. An empty email clears it.
type UpdateUserRequest struct {
	Name         string `json:"name"          form:"name"          binding:"required,max=255"`
	Login        string `json:"login"         form:"login"         binding:"required,max=100"`
	Email        string `json:"email"         form:"email"         binding:"omitempty,email,max=150"`
	DepartmentID uint   `json:"department_id" form:"department_id" binding:"required"`
}

// PasswordChangeResult tells the handler whether the caller's own session ended
type PasswordChangeResult struct {
	SessionEnded bool `json:"session_ended"`
}

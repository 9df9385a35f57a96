package dto

// ── authentication ──

// LoginRequest back-office login
type LoginRequest struct {
	Login    string `json:"login"    form:"login"    binding:"required,max=100"`
	Password string `json:"password" form:"password" binding:"required,max=72"`
}

// SessionResponse body returned next to the session cookie
type SessionResponse struct {
	User      UserResponse `json:"user"`
	ExpiresIn int          `json:"expires_in"` // seconds of inactivity allowed
}

// ForgotPasswordRequest asks for a recovery link
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required,max=150"`
}

// TokenResetPasswordRequest new credential submitted from the recovery link
type TokenResetPasswordRequest struct {
	NewPassword     string `json:"new_password"     form:"new_password"     binding:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
}

// ChangePasswordRequest self-service change. CurrentPassword is also used
// when the admin resets their own row through user management.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password"     form:"new_password"     binding:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
}

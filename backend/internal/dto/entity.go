package dto

// EntityRequest admin edits the government body data
type EntityRequest struct {
	Name    string `json:"name"    form:"name"    binding:"required,max=150"`
	Address string `json:"address" form:"address" binding:"max=255"`
	Phone   string `json:"phone"   form:"phone"   binding:"max=50"`
	Email   string `json:"email"   form:"email"   binding:"omitempty,email,max=100"`
}

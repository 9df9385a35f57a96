package dto

// ── procurement records ──

// ProcurementRequest create or edit a record. EstimatedValue is raw user
// input such as "R$ 1.000,00"; PlannedDate is YYYY-MM-DD.
type ProcurementRequest struct {
	FiscalYear     int    `json:"fiscal_year"     form:"fiscal_year"     binding:"required,gte=1900,lte=2999"`
	Subject        string `json:"subject"         form:"subject"         binding:"required,max=500"`
	Description    string `json:"description"     form:"description"`
	EstimatedValue string `json:"estimated_value" form:"estimated_value"`
	BudgetLine     string `json:"budget_line"     form:"budget_line"     binding:"max=100"`
	PlannedDate    string `json:"planned_date"    form:"planned_date"    binding:"required"`
	DepartmentID   uint   `json:"department_id"   form:"department_id"`
}

// ProcurementResponse one record as shown in listings
type ProcurementResponse struct {
	ID                uint               `json:"id"`
	Code              string             `json:"code"`
	FiscalYear        int                `json:"fiscal_year"`
	Subject           string             `json:"subject"`
	Description       string             `json:"description"`
	EstimatedValue    string             `json:"estimated_value"`
	EstimatedValueBRL string             `json:"estimated_value_brl"`
	BudgetLine        string             `json:"budget_line"`
	PlannedDate       string             `json:"planned_date,omitempty"`
	Department        DepartmentResponse `json:"department"`
	UpdatedAt         string             `json:"updated_at"`
}

// DashboardResponse what the signed-in user may see and edit
type DashboardResponse struct {
	User         UserResponse          `json:"user"`
	Procurements []ProcurementResponse `json:"procurements"`
	Departments  []DepartmentResponse  `json:"departments"`
}

package dto

// FilterQuery the three filter parameters shared by the public listing and
// both exports. department_id accepts "Todas"/"all" as "every department".
type FilterQuery struct {
	DepartmentID string `form:"department_id" json:"department_id"`
	FiscalYear   string `form:"fiscal_year"   json:"fiscal_year"`
	Code         string `form:"code"          json:"code"`
}

// PortalResponse public disclosure page
type PortalResponse struct {
	Entity       EntityResponse        `json:"entity"`
	Departments  []DepartmentResponse  `json:"departments"`
	FiscalYears  []int                 `json:"fiscal_years"`
	Procurements []ProcurementResponse `json:"procurements"`
	Filter       FilterQuery           `json:"filter"`
	LastModified string                `json:"last_modified,omitempty"`
	CurrentYear  int                   `json:"current_year"`
}

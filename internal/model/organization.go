package model

// OrgSize classifies an organization by headcount band.
type OrgSize string

const (
	OrgSmall  OrgSize = "small"
	OrgMedium OrgSize = "medium"
	OrgLarge  OrgSize = "large"
)

// Organization is the profile used as a grouping covariate in benchmarking
// and comparative analysis. It is not part of the scoring contract.
type Organization struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Sector         string  `json:"sector"`
	Size           OrgSize `json:"size"`
	MaturityTarget string  `json:"maturity_target,omitempty"`

	// Staffing and budget covariates consumed by recommendation rules.
	StaffCount         int     `json:"staff_count,omitempty"`
	HasITStaff         bool    `json:"has_it_staff"`
	ITBudgetPercentage float64 `json:"it_budget_percentage,omitempty"`
}

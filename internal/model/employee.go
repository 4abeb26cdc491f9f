package model

// Employee is the read-only view of the employee directory used by leave workflows.
type Employee struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	OrgCode     string `json:"org_code"`
}

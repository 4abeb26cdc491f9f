package model

import "time"

// LeaveRequest is an employee's request for leave over an inclusive date range.
// DayCount is computed at write time by the service layer, never by the model.
type LeaveRequest struct {
	ID            string        `json:"id"`
	EmployeeID    string        `json:"employee_id"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	DayCount      int           `json:"day_count"`
	DepartureHalf string        `json:"departure_half,omitempty"`
	ReturnHalf    string        `json:"return_half,omitempty"`
	RequestText   string        `json:"request_text,omitempty"`
	Attachments   []Attachment  `json:"attachments"`
	ChiefDecision ChiefDecision `json:"chief_decision"`
	HRDecision    HRDecision    `json:"hr_decision"`
	Observation   string        `json:"observation,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Year is the calendar year the request is accounted to.
func (r *LeaveRequest) Year() int {
	return r.StartDate.Year()
}

// State returns the derived workflow state.
func (r *LeaveRequest) State() State {
	return StateOf(r.ChiefDecision, r.HRDecision)
}

// LeaveRequestView is a request enriched with the employee's display fields.
type LeaveRequestView struct {
	LeaveRequest
	EmployeeName string `json:"employee_name"`
	OrgCode      string `json:"org_code"`
}

// Package report renders printable documents for approved leave.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"leaveapi/internal/model"
)

// Certificate is the data printed on a leave certificate.
type Certificate struct {
	Request  model.LeaveRequest
	Employee model.Employee
	IssuedAt time.Time
}

// RenderCertificate writes an A4 PDF certificate for c to w.
func RenderCertificate(w io.Writer, c Certificate) error {
	r := c.Request
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Leave certificate "+r.ID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Leave certificate")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	line := func(format string, args ...any) {
		pdf.Cell(0, 8, fmt.Sprintf(format, args...))
		pdf.Ln(7)
	}
	line("Reference: %s", r.ID)
	line("Employee: %s", c.Employee.DisplayName)
	if c.Employee.OrgCode != "" {
		line("Service: %s", c.Employee.OrgCode)
	}
	pdf.Ln(3)
	line("From: %s %s", r.StartDate.Format(time.DateOnly), r.DepartureHalf)
	line("To: %s %s", r.EndDate.Format(time.DateOnly), r.ReturnHalf)
	line("Days: %d", r.DayCount)
	line("Chief decision: %s", r.ChiefDecision)
	line("HR decision: %s", r.HRDecision)

	if r.Observation != "" {
		pdf.Ln(3)
		pdf.MultiCell(0, 7, "Observation: "+r.Observation, "", "L", false)
	}
	if r.RequestText != "" {
		pdf.Ln(3)
		pdf.MultiCell(0, 7, "Request: "+r.RequestText, "", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	line("Issued %s", c.IssuedAt.Format(time.RFC1123))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}
	return nil
}

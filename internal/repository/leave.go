package repository

import (
	"context"

	"leaveapi/internal/model"
)

// LeaveRequestRepository defines data access for leave requests and their attachment metadata.
// No business logic here, strictly persistence operations.
// Missing rows are reported as sql.ErrNoRows.
type LeaveRequestRepository interface {
	// Create inserts a new leave request. Attachments on the request are not stored.
	Create(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error)

	// FindByID returns a leave request with its attachments.
	FindByID(ctx context.Context, id string) (*model.LeaveRequest, error)

	// Update overwrites the mutable columns of an existing request.
	Update(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error)

	// Delete removes a request row. Returns sql.ErrNoRows if nothing was deleted.
	Delete(ctx context.Context, id string) error

	// ListByEmployee returns every request of an employee. A nil decision means no filter.
	ListByEmployee(ctx context.Context, employeeID string, decision *model.ChiefDecision) ([]model.LeaveRequest, error)

	// ListApproved returns chief-approved requests joined with employee display fields.
	ListApproved(ctx context.Context, pq PageQuery) (*PageResult[model.LeaveRequestView], error)

	// ListByOrg returns requests of the employees of an org unit, optionally filtered by chief decision.
	ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, pq PageQuery) (*PageResult[model.LeaveRequestView], error)

	// SumApprovedDays sums day counts of chief-approved requests starting in year.
	SumApprovedDays(ctx context.Context, employeeID string, year int) (int, error)

	// CreateAttachment stores attachment metadata for an existing request.
	CreateAttachment(ctx context.Context, a *model.Attachment) error

	// FindAttachment returns attachment metadata by ID.
	FindAttachment(ctx context.Context, id string) (*model.Attachment, error)

	// ListAttachments returns a request's attachments ordered by upload time.
	ListAttachments(ctx context.Context, requestID string) ([]model.Attachment, error)

	// DeleteAttachment removes attachment metadata by ID.
	DeleteAttachment(ctx context.Context, id string) error

	// WithEmployeeYearLock runs fn while holding the lock that serializes quota-affecting
	// writes for one employee and year. Repository calls made with the ctx passed to fn
	// take part in the same unit of work; an error from fn rolls it back.
	WithEmployeeYearLock(ctx context.Context, employeeID string, year int, fn func(ctx context.Context) error) error
}

// EmployeeDirectory is the lookup-only view of employees.
type EmployeeDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
	// Get returns sql.ErrNoRows when the employee does not exist.
	Get(ctx context.Context, id string) (*model.Employee, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

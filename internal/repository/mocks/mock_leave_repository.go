package mocks

import (
	"context"

	"leaveapi/internal/model"
	"leaveapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockLeaveRequestRepository struct {
	mock.Mock
}

func (m *MockLeaveRequestRepository) Create(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) FindByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) Update(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, decision *model.ChiefDecision) ([]model.LeaveRequest, error) {
	args := m.Called(ctx, employeeID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveRequestRepository) ListApproved(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.LeaveRequestView]), args.Error(1)
}

func (m *MockLeaveRequestRepository) ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	args := m.Called(ctx, orgCode, decision, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.LeaveRequestView]), args.Error(1)
}

func (m *MockLeaveRequestRepository) SumApprovedDays(ctx context.Context, employeeID string, year int) (int, error) {
	args := m.Called(ctx, employeeID, year)
	return args.Int(0), args.Error(1)
}

func (m *MockLeaveRequestRepository) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockLeaveRequestRepository) FindAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockLeaveRequestRepository) ListAttachments(ctx context.Context, requestID string) ([]model.Attachment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockLeaveRequestRepository) DeleteAttachment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithEmployeeYearLock records the call and runs fn unless an error is configured.
func (m *MockLeaveRequestRepository) WithEmployeeYearLock(ctx context.Context, employeeID string, year int, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, employeeID, year)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

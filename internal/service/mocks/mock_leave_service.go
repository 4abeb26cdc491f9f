package mocks

import (
	"context"
	"io"

	"leaveapi/internal/model"
	"leaveapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockLeaveService struct {
	mock.Mock
}

func (m *MockLeaveService) Create(ctx context.Context, in service.CreateInput) (*service.LeaveRequestResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeaveRequestResult), args.Error(1)
}

func (m *MockLeaveService) Get(ctx context.Context, id string) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) Update(ctx context.Context, id string, in service.UpdateInput) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeaveService) Approve(ctx context.Context, id, observation string) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id, observation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) Reject(ctx context.Context, id, observation string) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id, observation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) ProcessByHR(ctx context.Context, id, observation string) (*model.LeaveRequest, error) {
	args := m.Called(ctx, id, observation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) ListByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) ListApprovedByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaveRequest), args.Error(1)
}

func (m *MockLeaveService) ListApprovedPaged(ctx context.Context, page, size int) (*service.LeaveRequestPage, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeaveRequestPage), args.Error(1)
}

func (m *MockLeaveService) ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, page, size int) (*service.LeaveRequestPage, error) {
	args := m.Called(ctx, orgCode, decision, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LeaveRequestPage), args.Error(1)
}

func (m *MockLeaveService) Balance(ctx context.Context, employeeID string, year int) (*service.Balance, error) {
	args := m.Called(ctx, employeeID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Balance), args.Error(1)
}

// Certificate writes the string given as the first return value, if any.
func (m *MockLeaveService) Certificate(ctx context.Context, id string, w io.Writer) error {
	args := m.Called(ctx, id, w)
	if body, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

package mocks

import (
	"context"

	"leaveapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockEmployeeDirectory struct {
	mock.Mock
}

func (m *MockEmployeeDirectory) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeDirectory) Get(ctx context.Context, id string) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

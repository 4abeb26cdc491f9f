package mocks

import (
	"context"
	"io"
	"time"

	"leaveapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Open(ctx context.Context, attachmentID string) (io.ReadCloser, *model.Attachment, error) {
	args := m.Called(ctx, attachmentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Attachment), args.Error(2)
}

func (m *MockAttachmentService) PresignURL(ctx context.Context, attachmentID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, attachmentID, expiry)
	return args.String(0), args.Error(1)
}

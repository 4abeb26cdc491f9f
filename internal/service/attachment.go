package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"leaveapi/internal/model"
	"leaveapi/internal/repository"
	"leaveapi/internal/storage"
)

// FileUpload is a file received with a create or update call.
// Size is the exact number of bytes, or -1 when unknown.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// AttachmentService is the read side of attachments exposed over HTTP.
type AttachmentService interface {
	// Open streams an attachment's content. The caller closes the reader.
	Open(ctx context.Context, attachmentID string) (io.ReadCloser, *model.Attachment, error)
	// PresignURL returns a time-limited download URL.
	PresignURL(ctx context.Context, attachmentID string, expiry time.Duration) (string, error)
}

// AttachmentStore keeps attachment objects and their metadata rows in step.
type AttachmentStore struct {
	store storage.Storage
	repo  repository.LeaveRequestRepository
	log   *logrus.Logger
	now   func() time.Time
}

var _ AttachmentService = (*AttachmentStore)(nil)

// NewAttachmentStore constructs an AttachmentStore.
func NewAttachmentStore(store storage.Storage, repo repository.LeaveRequestRepository, log *logrus.Logger) *AttachmentStore {
	if log == nil {
		log = logrus.New()
	}
	return &AttachmentStore{
		store: store,
		repo:  repo,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ObjectKey builds the storage key for a new attachment of requestID.
func ObjectKey(requestID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("leave-requests", requestID, uuid.New().String()+ext)
}

// Put uploads f and records its metadata against requestID. When the metadata
// cannot be saved the uploaded object is removed again.
func (a *AttachmentStore) Put(ctx context.Context, requestID string, f FileUpload) (*model.Attachment, error) {
	if f.Reader == nil {
		return nil, fmt.Errorf("%w: file content is missing", ErrInvalidInput)
	}
	filename := filepath.Base(strings.TrimSpace(f.Filename))
	if filename == "." || filename == "/" || filename == "" {
		return nil, fmt.Errorf("%w: file name is missing", ErrInvalidInput)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := f.Size
	if size <= 0 {
		size = -1
	}

	key := ObjectKey(requestID, filename)
	info, err := a.store.Put(ctx, key, f.Reader, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
			"leave-request-id":  requestID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %w", ErrAttachmentFailure, filename, err)
	}
	if info.Key == "" {
		info.Key = key
	}
	if info.ContentType == "" {
		info.ContentType = contentType
	}

	att := &model.Attachment{
		ID:             uuid.New().String(),
		LeaveRequestID: requestID,
		Filename:       filename,
		StoragePath:    info.Key,
		ContentType:    info.ContentType,
		Size:           info.Size,
		UploadedAt:     a.now(),
	}
	if err := a.repo.CreateAttachment(ctx, att); err != nil {
		if delErr := a.store.Delete(ctx, info.Key); delErr != nil {
			a.log.WithError(delErr).WithField("key", info.Key).Error("attachment rollback delete failed")
		}
		return nil, repoErr("save attachment metadata", err)
	}
	return att, nil
}

// Detach removes the metadata rows of every attachment of requestID and returns
// them. Objects stay in storage until Purge is called once the surrounding unit
// of work has committed, so no stored reference ever points at a missing object.
func (a *AttachmentStore) Detach(ctx context.Context, requestID string) ([]model.Attachment, error) {
	atts, err := a.repo.ListAttachments(ctx, requestID)
	if err != nil {
		return nil, repoErr("list attachments", err)
	}
	for _, att := range atts {
		if err := a.repo.DeleteAttachment(ctx, att.ID); err != nil {
			return nil, repoErr("delete attachment metadata", err)
		}
	}
	return atts, nil
}

// Purge deletes the objects behind atts and returns how many were removed.
// Failures are logged and leave an orphaned object, never a dangling reference.
func (a *AttachmentStore) Purge(ctx context.Context, atts []model.Attachment) int {
	removed := 0
	for _, att := range atts {
		if err := a.store.Delete(ctx, att.StoragePath); err != nil {
			a.log.WithError(err).WithFields(logrus.Fields{
				"attachment_id": att.ID,
				"key":           att.StoragePath,
			}).Error("attachment object delete failed")
			continue
		}
		removed++
	}
	return removed
}

func (a *AttachmentStore) find(ctx context.Context, attachmentID string) (*model.Attachment, error) {
	if strings.TrimSpace(attachmentID) == "" {
		return nil, fmt.Errorf("%w: attachment id is required", ErrInvalidInput)
	}
	att, err := a.repo.FindAttachment(ctx, attachmentID)
	if err != nil {
		return nil, repoErr("attachment "+attachmentID, err)
	}
	return att, nil
}

func (a *AttachmentStore) Open(ctx context.Context, attachmentID string) (io.ReadCloser, *model.Attachment, error) {
	att, err := a.find(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := a.store.Get(ctx, att.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, fmt.Errorf("%w: object for attachment %s", ErrNotFound, attachmentID)
		}
		return nil, nil, fmt.Errorf("%w: open %s: %w", ErrAttachmentFailure, att.StoragePath, err)
	}
	return rc, att, nil
}

func (a *AttachmentStore) PresignURL(ctx context.Context, attachmentID string, expiry time.Duration) (string, error) {
	att, err := a.find(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	url, err := a.store.PresignGet(ctx, att.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %w", ErrAttachmentFailure, att.StoragePath, err)
	}
	return url, nil
}

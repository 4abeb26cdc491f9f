package model

import "time"

// Attachment is a stored file owned by exactly one leave request.
type Attachment struct {
	ID             string    `json:"id"`
	LeaveRequestID string    `json:"leave_request_id"`
	Filename       string    `json:"filename"`
	StoragePath    string    `json:"storage_path"`
	ContentType    string    `json:"content_type"`
	Size           int64     `json:"size"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

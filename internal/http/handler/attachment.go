package handler

import (
	"mime"
	"time"

	"github.com/gofiber/fiber/v2"

	"leaveapi/internal/service"
)

type attachmentURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// DownloadAttachment godoc
// @Summary Stream an attachment
// @Tags attachments
// @Produce octet-stream
// @Param id path string true "Attachment ID"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /attachments/{id} [get]
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, att, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, att.ContentType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": att.Filename}))
		size := int(att.Size)
		if size <= 0 {
			size = -1
		}
		// The response writer closes rc once the body has been sent.
		return c.SendStream(rc, size)
	}
}

// AttachmentURL godoc
// @Summary Get a time-limited download URL for an attachment
// @Tags attachments
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 200 {object} attachmentURLResponse
// @Failure 404 {object} errorPayload
// @Router /attachments/{id}/url [get]
func AttachmentURL(svc service.AttachmentService, expiry time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.PresignURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(attachmentURLResponse{URL: url, ExpiresIn: int(expiry.Seconds())})
	}
}

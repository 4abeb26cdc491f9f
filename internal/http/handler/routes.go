package handler

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"leaveapi/docs"
	"leaveapi/internal/service"
)

// Dependencies are the collaborators the HTTP surface needs.
type Dependencies struct {
	DB             *sql.DB
	Leave          service.LeaveService
	Attachments    service.AttachmentService
	Events         EventSource
	MaxUploadBytes int64
	// AttachmentURLExpiry is the lifetime of presigned download URLs.
	AttachmentURLExpiry time.Duration
	Heartbeat           time.Duration
	Now                 func() time.Time
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	lr := app.Group("/leave-requests")
	// Registered before /:id so "approved" is not taken for an ID.
	lr.Get("/approved", ListApprovedLeaveRequests(deps.Leave))
	lr.Post("/", CreateLeaveRequest(deps.Leave, deps.MaxUploadBytes))
	lr.Get("/:id", GetLeaveRequest(deps.Leave))
	lr.Patch("/:id", UpdateLeaveRequest(deps.Leave, deps.MaxUploadBytes))
	lr.Delete("/:id", DeleteLeaveRequest(deps.Leave))
	lr.Post("/:id/approve", ApproveLeaveRequest(deps.Leave))
	lr.Post("/:id/reject", RejectLeaveRequest(deps.Leave))
	lr.Post("/:id/process", ProcessLeaveRequest(deps.Leave))
	lr.Get("/:id/certificate", LeaveCertificate(deps.Leave))

	app.Get("/employees/:id/leave-requests", ListEmployeeLeaveRequests(deps.Leave))
	app.Get("/employees/:id/leave-balance", EmployeeLeaveBalance(deps.Leave, now))
	app.Get("/orgs/:code/leave-requests", ListOrgLeaveRequests(deps.Leave))

	app.Get("/attachments/:id", DownloadAttachment(deps.Attachments))
	app.Get("/attachments/:id/url", AttachmentURL(deps.Attachments, deps.AttachmentURLExpiry))

	if deps.Events != nil {
		app.Get("/events", Events(deps.Events, deps.Heartbeat))
	}
}

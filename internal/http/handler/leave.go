package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"leaveapi/internal/model"
	"leaveapi/internal/service"
)

// createLeaveRequestBody is the JSON (or multipart form) body of POST /leave-requests.
type createLeaveRequestBody struct {
	EmployeeID    string `json:"employee_id"`
	StartDate     string `json:"start_date" example:"2024-07-01"`
	EndDate       string `json:"end_date" example:"2024-07-12"`
	DayCount      *int   `json:"day_count,omitempty"`
	DepartureHalf string `json:"departure_half,omitempty" example:"AM"`
	ReturnHalf    string `json:"return_half,omitempty" example:"PM"`
	RequestText   string `json:"request_text,omitempty"`
}

// updateLeaveRequestBody is the body of PATCH /leave-requests/:id. Absent fields are left unchanged.
type updateLeaveRequestBody struct {
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	DayCount      *int    `json:"day_count,omitempty"`
	DepartureHalf *string `json:"departure_half,omitempty"`
	ReturnHalf    *string `json:"return_half,omitempty"`
	RequestText   *string `json:"request_text,omitempty"`
}

type decisionBody struct {
	Observation string `json:"observation"`
}

// requestError is a malformed request detected before reaching the service.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{status: fiber.StatusBadRequest, code: code, message: message}
}

// writeRequestError answers parse errors directly and defers the rest to writeServiceError.
func writeRequestError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return writeError(c, re.status, re.code, re.message)
	}
	return writeServiceError(c, err)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func validID(c *fiber.Ctx, param string) (string, bool) {
	id := c.Params(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, badRequest("INVALID_DATE", field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formValue(form *multipart.Form, key string) *string {
	if vs, ok := form.Value[key]; ok && len(vs) > 0 {
		return &vs[0]
	}
	return nil
}

func formInt(form *multipart.Form, key string) (*int, error) {
	v := formValue(form, key)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return nil, badRequest("INVALID_DATE", key+" must be an integer")
	}
	return &n, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formFile opens the optional "file" part. The returned close func is never nil.
func formFile(form *multipart.Form, maxBytes int64) (*service.FileUpload, func(), error) {
	noop := func() {}
	files := form.File["file"]
	if len(files) == 0 {
		return nil, noop, nil
	}
	fh := files[0]
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, noop, &requestError{
			status:  fiber.StatusRequestEntityTooLarge,
			code:    "FILE_TOO_LARGE",
			message: "file exceeds " + strconv.FormatInt(maxBytes, 10) + " bytes",
		}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, badRequest("FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}, func() { _ = f.Close() }, nil
}

// parseCreate reads a create request from JSON or multipart form data.
func parseCreate(c *fiber.Ctx, maxBytes int64) (service.CreateInput, func(), error) {
	var (
		body createLeaveRequestBody
		in   service.CreateInput
	)
	closeFn := func() {}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return in, closeFn, badRequest("INVALID_BODY", "invalid multipart form")
		}
		body.EmployeeID = deref(formValue(form, "employee_id"))
		body.StartDate = deref(formValue(form, "start_date"))
		body.EndDate = deref(formValue(form, "end_date"))
		body.DepartureHalf = deref(formValue(form, "departure_half"))
		body.ReturnHalf = deref(formValue(form, "return_half"))
		body.RequestText = deref(formValue(form, "request_text"))
		if body.DayCount, err = formInt(form, "day_count"); err != nil {
			return in, closeFn, err
		}
		if in.File, closeFn, err = formFile(form, maxBytes); err != nil {
			return in, closeFn, err
		}
	} else if err := c.BodyParser(&body); err != nil {
		return in, closeFn, badRequest("INVALID_BODY", "invalid request body")
	}

	if _, err := uuid.Parse(body.EmployeeID); err != nil {
		return in, closeFn, badRequest("INVALID_ID", "employee_id must be a UUID")
	}
	start, err := parseDate("start_date", body.StartDate)
	if err != nil {
		return in, closeFn, err
	}
	end, err := parseDate("end_date", body.EndDate)
	if err != nil {
		return in, closeFn, err
	}

	in.EmployeeID = body.EmployeeID
	in.StartDate = start
	in.EndDate = end
	in.DayCount = body.DayCount
	in.DepartureHalf = body.DepartureHalf
	in.ReturnHalf = body.ReturnHalf
	in.RequestText = body.RequestText
	return in, closeFn, nil
}

// parseUpdate reads a partial update from JSON or multipart form data.
func parseUpdate(c *fiber.Ctx, maxBytes int64) (service.UpdateInput, func(), error) {
	var (
		body updateLeaveRequestBody
		in   service.UpdateInput
		err  error
	)
	closeFn := func() {}

	if isMultipart(c) {
		form, ferr := c.MultipartForm()
		if ferr != nil {
			return in, closeFn, badRequest("INVALID_BODY", "invalid multipart form")
		}
		body.StartDate = formValue(form, "start_date")
		body.EndDate = formValue(form, "end_date")
		body.DepartureHalf = formValue(form, "departure_half")
		body.ReturnHalf = formValue(form, "return_half")
		body.RequestText = formValue(form, "request_text")
		if body.DayCount, err = formInt(form, "day_count"); err != nil {
			return in, closeFn, err
		}
		if in.File, closeFn, err = formFile(form, maxBytes); err != nil {
			return in, closeFn, err
		}
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return in, closeFn, badRequest("INVALID_BODY", "invalid request body")
		}
	}

	if in.StartDate, err = parseOptionalDate("start_date", body.StartDate); err != nil {
		return in, closeFn, err
	}
	if in.EndDate, err = parseOptionalDate("end_date", body.EndDate); err != nil {
		return in, closeFn, err
	}
	in.DayCount = body.DayCount
	in.DepartureHalf = body.DepartureHalf
	in.ReturnHalf = body.ReturnHalf
	in.RequestText = body.RequestText
	return in, closeFn, nil
}

func parseDecision(c *fiber.Ctx) (string, error) {
	var body decisionBody
	if len(c.Body()) == 0 {
		return "", nil
	}
	if err := c.BodyParser(&body); err != nil {
		return "", badRequest("INVALID_BODY", "invalid request body")
	}
	return body.Observation, nil
}

// parsePage reads zero-indexed page and size query parameters.
func parsePage(c *fiber.Ctx) (int, int, error) {
	page, err := strconv.Atoi(c.Query("page", "0"))
	if err != nil || page < 0 {
		return 0, 0, badRequest("INVALID_PAGE", "invalid page")
	}
	size, err := strconv.Atoi(c.Query("size", "20"))
	if err != nil || size <= 0 {
		return 0, 0, badRequest("INVALID_SIZE", "invalid size")
	}
	return page, size, nil
}

// CreateLeaveRequest godoc
// @Summary Submit a leave request
// @Tags leave-requests
// @Accept json,mpfd
// @Produce json
// @Param body body createLeaveRequestBody true "Leave request"
// @Success 201 {object} service.LeaveRequestResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /leave-requests [post]
func CreateLeaveRequest(svc service.LeaveService, maxUploadBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, closeFile, err := parseCreate(c, maxUploadBytes)
		defer closeFile()
		if err != nil {
			return writeRequestError(c, err)
		}
		res, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetLeaveRequest godoc
// @Summary Get a leave request
// @Tags leave-requests
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} model.LeaveRequest
// @Failure 404 {object} errorPayload
// @Router /leave-requests/{id} [get]
func GetLeaveRequest(svc service.LeaveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		req, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

// UpdateLeaveRequest godoc
// @Summary Update a leave request
// @Tags leave-requests
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Leave request ID"
// @Param body body updateLeaveRequestBody true "Fields to change"
// @Success 200 {object} model.LeaveRequest
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /leave-requests/{id} [patch]
func UpdateLeaveRequest(svc service.LeaveService, maxUploadBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		in, closeFile, err := parseUpdate(c, maxUploadBytes)
		defer closeFile()
		if err != nil {
			return writeRequestError(c, err)
		}
		req, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

// DeleteLeaveRequest godoc
// @Summary Delete a leave request and its attachments
// @Tags leave-requests
// @Param id path string true "Leave request ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /leave-requests/{id} [delete]
func DeleteLeaveRequest(svc service.LeaveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// decide adapts one of the workflow methods of LeaveService into a handler.
func decide(run func(ctx context.Context, id, observation string) (*model.LeaveRequest, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		observation, err := parseDecision(c)
		if err != nil {
			return writeRequestError(c, err)
		}
		req, err := run(c.UserContext(), id, observation)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(req)
	}
}

// ApproveLeaveRequest godoc
// @Summary Chief approval
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param body body decisionBody false "Optional observation"
// @Success 200 {object} model.LeaveRequest
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /leave-requests/{id}/approve [post]
func ApproveLeaveRequest(svc service.LeaveService) fiber.Handler {
	return decide(svc.Approve)
}

// RejectLeaveRequest godoc
// @Summary Chief rejection
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param body body decisionBody true "Mandatory observation"
// @Success 200 {object} model.LeaveRequest
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /leave-requests/{id}/reject [post]
func RejectLeaveRequest(svc service.LeaveService) fiber.Handler {
	return decide(svc.Reject)
}

// ProcessLeaveRequest godoc
// @Summary HR processing
// @Tags workflow
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param body body decisionBody false "Optional observation"
// @Success 200 {object} model.LeaveRequest
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /leave-requests/{id}/process [post]
func ProcessLeaveRequest(svc service.LeaveService) fiber.Handler {
	return decide(svc.ProcessByHR)
}

// LeaveCertificate godoc
// @Summary Download the PDF certificate of an approved request
// @Tags leave-requests
// @Produce application/pdf
// @Param id path string true "Leave request ID"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /leave-requests/{id}/certificate [get]
func LeaveCertificate(svc service.LeaveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var buf bytes.Buffer
		if err := svc.Certificate(c.UserContext(), id, &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="leave-`+id+`.pdf"`)
		return c.Send(buf.Bytes())
	}
}

// ListApprovedLeaveRequests godoc
// @Summary Page through chief-approved requests
// @Tags listings
// @Produce json
// @Param page query int false "Zero-indexed page" default(0)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} service.LeaveRequestPage
// @Failure 400 {object} errorPayload
// @Router /leave-requests/approved [get]
func ListApprovedLeaveRequests(svc service.LeaveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, size, err := parsePage(c)
		if err != nil {
			return writeRequestError(c, err)
		}
		res, err := svc.ListApprovedPaged(c.UserContext(), page, size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListEmployeeLeaveRequests godoc
// @Summary List an employee's requests
// @Tags listings
// @Produce json
// @Param id path string true "Employee ID"
// @Param approved query bool false "Only chief-approved requests"
// @Success 200 {array} model.LeaveRequest
// @Failure 400 {object} errorPayload
// @Router /employees/{id}/leave-requests [get]
func ListEmployeeLeaveRequests(svc service.LeaveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		approvedOnly := false
		if v := c.Query("approved"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "approved must be a boolean")
			}
			approvedOnly = b
		}

		var (
			items []model.LeaveRequest
			err   error
		)
		if approvedOnly {
			items, err = svc.ListApprovedByEmployee(c.UserContext(), id)
		} else {
			items, err = svc.ListByEmployee(c.UserContext(), id)
		}
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(items)
	}
}

// EmployeeLeaveBalance godoc
// @Summary Quota balance of an employee
// @Tags listings
// @Produce json
// @Param id path string true "Employee ID"
// @Param year query int false "Calendar year, defaults to the current one"
// @Success 200 {object} service.Balance
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /employees/{id}/leave-balance [get]
func EmployeeLeaveBalance(svc service.LeaveService, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		year := now().Year()
		if v := c.Query("year"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil || y <= 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year")
			}
			year = y
		}
		b, err := svc.Balance(c.UserContext(), id, year)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(b)
	}
}

// ListOrgLeaveRequests godoc
// @Summary List the requests of an org unit
// @Tags listings
// @Produce json
// @Param code path string true "Org unit code"
// @Param decision query string false "Chief decision filter" Enums(PENDING, APPROVED, REJECTED)
// @Param page query int false "Zero-indexed page" default(0)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} service.LeaveRequestPage
// @Failure 400 {object} errorPayload
// @Router /orgs/{code}/leave-requests [get]
func ListOrgLeaveRequests(svc service.LeaveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Params("code"))
		var decision *model.ChiefDecision
		if v := c.Query("decision"); v != "" {
			d := model.ChiefDecision(strings.ToUpper(v))
			if !d.Valid() {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "decision must be PENDING, APPROVED or REJECTED")
			}
			decision = &d
		}
		page, size, err := parsePage(c)
		if err != nil {
			return writeRequestError(c, err)
		}
		res, err := svc.ListByOrg(c.UserContext(), code, decision, page, size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

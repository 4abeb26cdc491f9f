package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leaveapi/internal/model"
	"leaveapi/internal/service"
	serviceMocks "leaveapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateLeaveRequest(t *testing.T) {
	empID := uuid.New().String()

	t.Run("json body", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockLeaveService)
		app := fiber.New()
		app.Post("/leave-requests", CreateLeaveRequest(mockSvc, 1024))

		expected := &service.LeaveRequestResult{
			Request:            &model.LeaveRequest{ID: uuid.New().String(), EmployeeID: empID, DayCount: 5},
			RemainingDaysAfter: 25,
		}
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateInput) bool {
			return in.EmployeeID == empID &&
				in.StartDate.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) &&
				in.EndDate.Equal(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)) &&
				in.DayCount == nil && in.DepartureHalf == "AM" && in.File == nil
		})).Return(expected, nil).Once()

		body := fmt.Sprintf(`{"employee_id":%q,"start_date":"2024-07-01","end_date":"2024-07-05","departure_half":"AM"}`, empID)
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests", body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result service.LeaveRequestResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 25, result.RemainingDaysAfter)
		assert.Equal(t, expected.Request.ID, result.Request.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("multipart with file", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockLeaveService)
		app := fiber.New()
		app.Post("/leave-requests", CreateLeaveRequest(mockSvc, 1024))

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("employee_id", empID)
		writer.WriteField("start_date", "2024-02-01")
		writer.WriteField("end_date", "2024-02-07")
		writer.WriteField("day_count", "5")
		part, _ := writer.CreateFormFile("file", "certificate.pdf")
		part.Write([]byte("%PDF-1.4"))
		writer.Close()

		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateInput) bool {
			return in.DayCount != nil && *in.DayCount == 5 &&
				in.File != nil && in.File.Filename == "certificate.pdf" && in.File.Size == 8
		})).Return(&service.LeaveRequestResult{Request: &model.LeaveRequest{ID: "x"}}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/leave-requests", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file too large", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockLeaveService)
		app := fiber.New()
		app.Post("/leave-requests", CreateLeaveRequest(mockSvc, 4))

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		writer.WriteField("employee_id", empID)
		writer.WriteField("start_date", "2024-02-01")
		writer.WriteField("end_date", "2024-02-07")
		part, _ := writer.CreateFormFile("file", "big.pdf")
		part.Write([]byte("0123456789"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/leave-requests", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, resp).Error.Code)
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_BODY"},
		{name: "bad employee id", body: `{"employee_id":"nope","start_date":"2024-01-01","end_date":"2024-01-02"}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "bad date", body: fmt.Sprintf(`{"employee_id":%q,"start_date":"01/01/2024","end_date":"2024-01-02"}`, empID), wantStatus: http.StatusBadRequest, wantCode: "INVALID_DATE"},
		{name: "range rejected by service", body: fmt.Sprintf(`{"employee_id":%q,"start_date":"2024-01-05","end_date":"2024-01-02"}`, empID), svcErr: fmt.Errorf("%w: end before start", service.ErrInvalidDate), wantStatus: http.StatusBadRequest, wantCode: "INVALID_DATE"},
		{name: "unknown employee", body: fmt.Sprintf(`{"employee_id":%q,"start_date":"2024-01-01","end_date":"2024-01-02"}`, empID), svcErr: fmt.Errorf("%w: employee", service.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "attachment failure", body: fmt.Sprintf(`{"employee_id":%q,"start_date":"2024-01-01","end_date":"2024-01-02"}`, empID), svcErr: fmt.Errorf("%w: upload", service.ErrAttachmentFailure), wantStatus: http.StatusBadGateway, wantCode: "ATTACHMENT_FAILURE"},
		{name: "storage failure", body: fmt.Sprintf(`{"employee_id":%q,"start_date":"2024-01-01","end_date":"2024-01-02"}`, empID), svcErr: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockLeaveService)
			app := fiber.New()
			app.Post("/leave-requests", CreateLeaveRequest(mockSvc, 1024))
			if tt.svcErr != nil {
				mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.svcErr).Once()
			}

			resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests", tt.body))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, body.Error.Message, "db down")
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCreateLeaveRequest_QuotaExceeded(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Post("/leave-requests", CreateLeaveRequest(mockSvc, 1024))

	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, &service.QuotaExceededError{Cap: 30, Used: 6, Requested: 28, Remaining: 24}).Once()

	body := fmt.Sprintf(`{"employee_id":%q,"start_date":"2024-03-01","end_date":"2024-03-28"}`, uuid.New().String())
	resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests", body))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Error struct {
			Code    string       `json:"code"`
			Details quotaDetails `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "QUOTA_EXCEEDED", payload.Error.Code)
	assert.Equal(t, quotaDetails{Used: 6, Remaining: 24, Requested: 28, Cap: 30}, payload.Error.Details)
}

func TestGetLeaveRequest(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Get("/leave-requests/:id", GetLeaveRequest(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(&model.LeaveRequest{ID: id, ChiefDecision: model.ChiefPending}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.LeaveRequest
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		assert.Equal(t, model.ChiefPending, result.ChiefDecision)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, fmt.Errorf("%w: leave request", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestUpdateLeaveRequest(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Patch("/leave-requests/:id", UpdateLeaveRequest(mockSvc, 1024))

	t.Run("partial json", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(in service.UpdateInput) bool {
			return in.StartDate == nil && in.EndDate != nil && in.EndDate.Day() == 10 &&
				in.RequestText != nil && *in.RequestText == "extended" && in.File == nil
		})).Return(&model.LeaveRequest{ID: id, DayCount: 10}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/leave-requests/"+id, `{"end_date":"2024-04-10","request_text":"extended"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("multipart replacement file", func(t *testing.T) {
		id := uuid.New().String()
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "new.pdf")
		part.Write([]byte("%PDF"))
		writer.Close()

		mockSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(in service.UpdateInput) bool {
			return in.File != nil && in.File.Filename == "new.pdf" && in.StartDate == nil && in.RequestText == nil
		})).Return(&model.LeaveRequest{ID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodPatch, "/leave-requests/"+id, body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("processed request", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, id, mock.Anything).
			Return(nil, fmt.Errorf("%w: processed by HR", service.ErrInvalidTransition)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/leave-requests/"+id, `{"request_text":"x"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", decodeError(t, resp).Error.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/leave-requests/"+uuid.New().String(), `{"start_date":"tomorrow"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestDeleteLeaveRequest(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Delete("/leave-requests/:id", DeleteLeaveRequest(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/leave-requests/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(fmt.Errorf("%w: leave request", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/leave-requests/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestDecisionHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Post("/leave-requests/:id/approve", ApproveLeaveRequest(mockSvc))
	app.Post("/leave-requests/:id/reject", RejectLeaveRequest(mockSvc))
	app.Post("/leave-requests/:id/process", ProcessLeaveRequest(mockSvc))

	t.Run("approve without body", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Approve", mock.Anything, id, "").
			Return(&model.LeaveRequest{ID: id, ChiefDecision: model.ChiefApproved}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/leave-requests/"+id+"/approve", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.LeaveRequest
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, model.ChiefApproved, result.ChiefDecision)
	})

	t.Run("reject with observation", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Reject", mock.Anything, id, "insufficient notice").
			Return(&model.LeaveRequest{ID: id, ChiefDecision: model.ChiefRejected, Observation: "insufficient notice"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests/"+id+"/reject", `{"observation":"insufficient notice"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("reject without observation", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Reject", mock.Anything, id, "").
			Return(nil, fmt.Errorf("%w: observation required", service.ErrInvalidInput)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests/"+id+"/reject", `{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, resp).Error.Code)
	})

	t.Run("process refused by policy", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("ProcessByHR", mock.Anything, id, "filed").
			Return(nil, fmt.Errorf("%w: needs chief approval", service.ErrInvalidTransition)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests/"+id+"/process", `{"observation":"filed"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/leave-requests/"+uuid.New().String()+"/approve", `{"observation":`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestLeaveCertificate(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Get("/leave-requests/:id/certificate", LeaveCertificate(mockSvc))

	t.Run("pdf", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Certificate", mock.Anything, id, mock.Anything).Return("%PDF-1.3 body", nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/"+id+"/certificate", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.3 body", string(body))
	})

	t.Run("not approved", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Certificate", mock.Anything, id, mock.Anything).
			Return(nil, fmt.Errorf("%w: pending", service.ErrInvalidTransition)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/"+id+"/certificate", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
	mockSvc.AssertExpectations(t)
}

func TestListApprovedLeaveRequests(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Get("/leave-requests/approved", ListApprovedLeaveRequests(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.LeaveRequestPage{
			Items: []model.LeaveRequestView{{LeaveRequest: model.LeaveRequest{ID: "a"}, EmployeeName: "Rakoto Jean"}},
			Page:  1,
			Size:  10,
			Total: 11,
		}
		mockSvc.On("ListApprovedPaged", mock.Anything, 1, 10).Return(expected, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/approved?page=1&size=10", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.LeaveRequestPage
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 11, result.Total)
		assert.Equal(t, "Rakoto Jean", result.Items[0].EmployeeName)
	})

	t.Run("invalid page", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/approved?page=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_PAGE", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid size", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/approved?size=0", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SIZE", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestListEmployeeLeaveRequests(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Get("/employees/:id/leave-requests", ListEmployeeLeaveRequests(mockSvc))
	empID := uuid.New().String()

	t.Run("all", func(t *testing.T) {
		mockSvc.On("ListByEmployee", mock.Anything, empID).Return([]model.LeaveRequest{{ID: "a"}, {ID: "b"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+empID+"/leave-requests", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []model.LeaveRequest
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 2)
	})

	t.Run("approved only", func(t *testing.T) {
		mockSvc.On("ListApprovedByEmployee", mock.Anything, empID).Return([]model.LeaveRequest{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+empID+"/leave-requests?approved=true", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(body))
	})

	t.Run("bad filter", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+empID+"/leave-requests?approved=maybe", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_FILTER", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestEmployeeLeaveBalance(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	now := func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	app.Get("/employees/:id/leave-balance", EmployeeLeaveBalance(mockSvc, now))
	empID := uuid.New().String()

	t.Run("defaults to current year", func(t *testing.T) {
		mockSvc.On("Balance", mock.Anything, empID, 2025).
			Return(&service.Balance{EmployeeID: empID, Year: 2025, Cap: 30, Used: 12, Remaining: 18}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+empID+"/leave-balance", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.Balance
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, 18, result.Remaining)
	})

	t.Run("explicit year", func(t *testing.T) {
		mockSvc.On("Balance", mock.Anything, empID, 2024).
			Return(&service.Balance{EmployeeID: empID, Year: 2024, Cap: 30}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+empID+"/leave-balance?year=2024", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid year", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+empID+"/leave-balance?year=last", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_YEAR", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestListOrgLeaveRequests(t *testing.T) {
	mockSvc := new(serviceMocks.MockLeaveService)
	app := fiber.New()
	app.Get("/orgs/:code/leave-requests", ListOrgLeaveRequests(mockSvc))

	t.Run("with decision filter", func(t *testing.T) {
		mockSvc.On("ListByOrg", mock.Anything, "DSI", mock.MatchedBy(func(d *model.ChiefDecision) bool {
			return d != nil && *d == model.ChiefPending
		}), 0, 20).Return(&service.LeaveRequestPage{Items: []model.LeaveRequestView{}, Size: 20}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/orgs/DSI/leave-requests?decision=pending", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("without filter", func(t *testing.T) {
		mockSvc.On("ListByOrg", mock.Anything, "RH", (*model.ChiefDecision)(nil), 2, 5).
			Return(&service.LeaveRequestPage{Items: []model.LeaveRequestView{}, Page: 2, Size: 5}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/orgs/RH/leave-requests?page=2&size=5", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown decision", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/orgs/RH/leave-requests?decision=maybe", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_FILTER", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockLeaveService)
	mockAtt := new(serviceMocks.MockAttachmentService)
	RegisterRoutes(app, Dependencies{Leave: mockSvc, Attachments: mockAtt})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("approved listing is not taken for an id", func(t *testing.T) {
		mockSvc.On("ListApprovedPaged", mock.Anything, 0, 20).
			Return(&service.LeaveRequestPage{Items: []model.LeaveRequestView{}, Size: 20}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/leave-requests/approved", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("health without database", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"leaveapi/internal/model"
	"leaveapi/internal/notify"
	"leaveapi/internal/report"
	"leaveapi/internal/repository"
)

const (
	maxHalfMarkerLen = 16
	defaultPageSize  = 20
	maxPageSize      = 100
	maxOffset        = math.MaxInt32
)

var tracer = otel.Tracer("leaveapi/internal/service")

// Notifier receives workflow events. *notify.Hub implements it.
type Notifier interface {
	Publish(eventType string, data any)
}

// CreateInput carries a new leave request. DayCount is optional.
type CreateInput struct {
	EmployeeID    string
	StartDate     time.Time
	EndDate       time.Time
	DayCount      *int
	DepartureHalf string
	ReturnHalf    string
	RequestText   string
	File          *FileUpload
}

// UpdateInput carries a partial update; nil fields are left unchanged.
// A File replaces every existing attachment.
type UpdateInput struct {
	StartDate     *time.Time
	EndDate       *time.Time
	DayCount      *int
	DepartureHalf *string
	ReturnHalf    *string
	RequestText   *string
	File          *FileUpload
}

// LeaveRequestResult is returned by Create.
type LeaveRequestResult struct {
	Request            *model.LeaveRequest `json:"request"`
	RemainingDaysAfter int                 `json:"remaining_days_after"`
}

// LeaveRequestPage is one zero-indexed page of enriched requests.
type LeaveRequestPage struct {
	Items []model.LeaveRequestView `json:"data"`
	Page  int                      `json:"page"`
	Size  int                      `json:"size"`
	Total int                      `json:"total"`
}

// LeaveService defines the leave request lifecycle.
type LeaveService interface {
	// Create validates, checks the quota and stores a new request with its optional file.
	Create(ctx context.Context, in CreateInput) (*LeaveRequestResult, error)

	// Get returns a request with its attachments.
	Get(ctx context.Context, id string) (*model.LeaveRequest, error)

	// Update changes the provided fields of a request that HR has not processed.
	Update(ctx context.Context, id string, in UpdateInput) (*model.LeaveRequest, error)

	// Delete removes a request and all its attachments.
	Delete(ctx context.Context, id string) error

	// Approve records the chief's approval. Approving twice has the effect of approving once.
	Approve(ctx context.Context, id, observation string) (*model.LeaveRequest, error)

	// Reject records the chief's refusal. The observation is mandatory.
	Reject(ctx context.Context, id, observation string) (*model.LeaveRequest, error)

	// ProcessByHR marks the request as processed by HR.
	ProcessByHR(ctx context.Context, id, observation string) (*model.LeaveRequest, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error)
	ListApprovedByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error)
	ListApprovedPaged(ctx context.Context, page, size int) (*LeaveRequestPage, error)

	// ListByOrg lists the requests of an org unit, optionally filtered by chief decision.
	ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, page, size int) (*LeaveRequestPage, error)

	// Balance reports the quota position of an employee for a year.
	Balance(ctx context.Context, employeeID string, year int) (*Balance, error)

	// Certificate writes a PDF certificate for a chief-approved request.
	Certificate(ctx context.Context, id string, w io.Writer) error
}

// LeaveOptions tunes a LeaveService. The zero value is usable.
type LeaveOptions struct {
	// HRRequiresChiefApproval restricts HR processing to chief-approved requests.
	HRRequiresChiefApproval bool
	Transitions             *prometheus.CounterVec
	Logger                  *logrus.Logger
	Now                     func() time.Time
}

type leaveService struct {
	repo        repository.LeaveRequestRepository
	employees   repository.EmployeeDirectory
	quota       *QuotaLedger
	attachments *AttachmentStore
	notifier    Notifier

	hrRequiresChief bool
	transitions     *prometheus.CounterVec
	log             *logrus.Logger
	now             func() time.Time
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(
	repo repository.LeaveRequestRepository,
	employees repository.EmployeeDirectory,
	quota *QuotaLedger,
	attachments *AttachmentStore,
	notifier Notifier,
	opts LeaveOptions,
) LeaveService {
	s := &leaveService{
		repo:            repo,
		employees:       employees,
		quota:           quota,
		attachments:     attachments,
		notifier:        notifier,
		hrRequiresChief: opts.HRRequiresChiefApproval,
		transitions:     opts.Transitions,
		log:             opts.Logger,
		now:             opts.Now,
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

func (s *leaveService) Create(ctx context.Context, in CreateInput) (_ *LeaveRequestResult, err error) {
	ctx, span := tracer.Start(ctx, "LeaveService.Create",
		trace.WithAttributes(attribute.String("leave.employee_id", in.EmployeeID)))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	if err := validateHalves(in.DepartureHalf, in.ReturnHalf); err != nil {
		return nil, err
	}
	ok, err := s.employees.Exists(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: employee lookup: %w", ErrStorageFailure, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: employee %s", ErrNotFound, in.EmployeeID)
	}

	start, end := DateOnly(in.StartDate), DateOnly(in.EndDate)
	days, err := CountDays(start, end, in.DayCount)
	if err != nil {
		return nil, err
	}

	now := s.now()
	req := &model.LeaveRequest{
		ID:            uuid.New().String(),
		EmployeeID:    in.EmployeeID,
		StartDate:     start,
		EndDate:       end,
		DayCount:      days,
		DepartureHalf: in.DepartureHalf,
		ReturnHalf:    in.ReturnHalf,
		RequestText:   in.RequestText,
		Attachments:   []model.Attachment{},
		ChiefDecision: model.ChiefPending,
		HRDecision:    model.HRPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	span.SetAttributes(attribute.String("leave.request_id", req.ID), attribute.Int("leave.day_count", days))

	var (
		result   *LeaveRequestResult
		uploaded []model.Attachment
	)
	err = s.repo.WithEmployeeYearLock(ctx, req.EmployeeID, req.Year(), func(ctx context.Context) error {
		used, err := s.quota.check(ctx, req.EmployeeID, req.Year(), days, 0)
		if err != nil {
			return err
		}
		stored, err := s.repo.Create(ctx, req)
		if err != nil {
			return repoErr("create leave request", err)
		}
		if stored.Attachments == nil {
			stored.Attachments = []model.Attachment{}
		}
		if in.File != nil {
			att, err := s.attachments.Put(ctx, stored.ID, *in.File)
			if err != nil {
				return err
			}
			uploaded = append(uploaded, *att)
			stored.Attachments = append(stored.Attachments, *att)
		}
		result = &LeaveRequestResult{
			Request:            stored,
			RemainingDaysAfter: s.quota.Cap() - used - days,
		}
		return nil
	})
	if err != nil {
		// The metadata rows were rolled back with the transaction; the objects were not.
		s.attachments.Purge(ctx, uploaded)
		return nil, classify("create leave request", err)
	}

	s.count(TransitionCreate)
	return result, nil
}

func (s *leaveService) Get(ctx context.Context, id string) (*model.LeaveRequest, error) {
	return s.find(ctx, id)
}

func (s *leaveService) Update(ctx context.Context, id string, in UpdateInput) (_ *model.LeaveRequest, err error) {
	ctx, span := tracer.Start(ctx, "LeaveService.Update",
		trace.WithAttributes(attribute.String("leave.request_id", id)))
	defer func() { endSpan(span, err) }()

	var dep, ret string
	if in.DepartureHalf != nil {
		dep = *in.DepartureHalf
	}
	if in.ReturnHalf != nil {
		ret = *in.ReturnHalf
	}
	if err := validateHalves(dep, ret); err != nil {
		return nil, err
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	years := []int{current.Year()}
	if in.StartDate != nil && in.StartDate.Year() != current.Year() {
		years = append(years, in.StartDate.Year())
		slices.Sort(years)
	}

	var (
		updated  *model.LeaveRequest
		uploaded []model.Attachment
		detached []model.Attachment
	)
	err = s.withLocks(ctx, current.EmployeeID, years, func(ctx context.Context) error {
		req, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		if req.HRDecision.Final() {
			return fmt.Errorf("%w: request %s was processed by HR", ErrInvalidTransition, id)
		}

		prevYear, prevDays := req.Year(), req.DayCount
		if in.StartDate != nil {
			req.StartDate = DateOnly(*in.StartDate)
		}
		if in.EndDate != nil {
			req.EndDate = DateOnly(*in.EndDate)
		}
		if in.StartDate != nil || in.EndDate != nil || in.DayCount != nil {
			days, err := CountDays(req.StartDate, req.EndDate, in.DayCount)
			if err != nil {
				return err
			}
			exclude := 0
			if req.ChiefDecision == model.ChiefApproved && prevYear == req.Year() {
				exclude = prevDays
			}
			if _, err := s.quota.check(ctx, req.EmployeeID, req.Year(), days, exclude); err != nil {
				return err
			}
			req.DayCount = days
		}
		if in.DepartureHalf != nil {
			req.DepartureHalf = *in.DepartureHalf
		}
		if in.ReturnHalf != nil {
			req.ReturnHalf = *in.ReturnHalf
		}
		if in.RequestText != nil {
			req.RequestText = *in.RequestText
		}
		req.UpdatedAt = s.now()

		stored, err := s.repo.Update(ctx, req)
		if err != nil {
			return repoErr("update leave request", err)
		}

		if in.File != nil {
			if detached, err = s.attachments.Detach(ctx, id); err != nil {
				return err
			}
			att, err := s.attachments.Put(ctx, id, *in.File)
			if err != nil {
				return err
			}
			uploaded = append(uploaded, *att)
			stored.Attachments = []model.Attachment{*att}
		}
		updated = stored
		return nil
	})
	if err != nil {
		s.attachments.Purge(ctx, uploaded)
		return nil, classify("update leave request", err)
	}
	s.attachments.Purge(ctx, detached)

	s.count(TransitionUpdate)
	return updated, nil
}

func (s *leaveService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "LeaveService.Delete",
		trace.WithAttributes(attribute.String("leave.request_id", id)))
	defer func() { endSpan(span, err) }()

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	var detached []model.Attachment
	err = s.repo.WithEmployeeYearLock(ctx, current.EmployeeID, current.Year(), func(ctx context.Context) error {
		atts, err := s.attachments.Detach(ctx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return repoErr("leave request "+id, err)
		}
		detached = atts
		return nil
	})
	if err != nil {
		return classify("delete leave request", err)
	}
	s.attachments.Purge(ctx, detached)

	s.count(TransitionDelete)
	s.publish(notify.EventRequestDeleted, map[string]string{"id": id})
	return nil
}

func (s *leaveService) Approve(ctx context.Context, id, observation string) (*model.LeaveRequest, error) {
	return s.transition(ctx, id, TransitionApprove, func(ctx context.Context, req *model.LeaveRequest) error {
		if err := s.chiefAllowed(req, model.ChiefApproved); err != nil {
			return err
		}
		// Days only start counting on approval, so the cap is held here too.
		if req.ChiefDecision != model.ChiefApproved {
			if _, err := s.quota.check(ctx, req.EmployeeID, req.Year(), req.DayCount, 0); err != nil {
				return err
			}
		}
		req.ChiefDecision = model.ChiefApproved
		if strings.TrimSpace(observation) == "" {
			req.Observation = ""
		} else {
			req.Observation = observation
		}
		return nil
	})
}

func (s *leaveService) Reject(ctx context.Context, id, observation string) (*model.LeaveRequest, error) {
	if strings.TrimSpace(observation) == "" {
		return nil, fmt.Errorf("%w: a rejection requires an observation", ErrInvalidInput)
	}
	return s.transition(ctx, id, TransitionReject, func(_ context.Context, req *model.LeaveRequest) error {
		if err := s.chiefAllowed(req, model.ChiefRejected); err != nil {
			return err
		}
		req.ChiefDecision = model.ChiefRejected
		req.Observation = observation
		return nil
	})
}

func (s *leaveService) ProcessByHR(ctx context.Context, id, observation string) (*model.LeaveRequest, error) {
	return s.transition(ctx, id, TransitionProcess, func(_ context.Context, req *model.LeaveRequest) error {
		if s.hrRequiresChief && req.ChiefDecision != model.ChiefApproved {
			return fmt.Errorf("%w: request %s is %s, HR processing needs chief approval",
				ErrInvalidTransition, id, req.State())
		}
		req.HRDecision = model.HRProcessed
		if strings.TrimSpace(observation) != "" {
			req.Observation = observation
		}
		return nil
	})
}

func (s *leaveService) ListByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	return s.listByEmployee(ctx, employeeID, nil)
}

func (s *leaveService) ListApprovedByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	approved := model.ChiefApproved
	return s.listByEmployee(ctx, employeeID, &approved)
}

func (s *leaveService) ListApprovedPaged(ctx context.Context, page, size int) (*LeaveRequestPage, error) {
	page, size = normalizePage(page, size)
	res, err := s.repo.ListApproved(ctx, repository.PageQuery{Limit: size, Offset: page * size})
	if err != nil {
		return nil, repoErr("list approved leave requests", err)
	}
	return toPage(res, page, size), nil
}

func (s *leaveService) ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, page, size int) (*LeaveRequestPage, error) {
	if strings.TrimSpace(orgCode) == "" {
		return nil, fmt.Errorf("%w: org code is required", ErrInvalidInput)
	}
	if decision != nil && !decision.Valid() {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, *decision)
	}
	page, size = normalizePage(page, size)
	res, err := s.repo.ListByOrg(ctx, orgCode, decision, repository.PageQuery{Limit: size, Offset: page * size})
	if err != nil {
		return nil, repoErr("list org leave requests", err)
	}
	return toPage(res, page, size), nil
}

func (s *leaveService) Balance(ctx context.Context, employeeID string, year int) (*Balance, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}
	ok, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: employee lookup: %w", ErrStorageFailure, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: employee %s", ErrNotFound, employeeID)
	}
	return s.quota.Balance(ctx, employeeID, year)
}

func (s *leaveService) Certificate(ctx context.Context, id string, w io.Writer) error {
	req, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if req.ChiefDecision != model.ChiefApproved {
		return fmt.Errorf("%w: request %s is %s, only approved leave has a certificate",
			ErrInvalidTransition, id, req.State())
	}
	emp, err := s.employees.Get(ctx, req.EmployeeID)
	if err != nil {
		return repoErr("employee "+req.EmployeeID, err)
	}
	return report.RenderCertificate(w, report.Certificate{
		Request:  *req,
		Employee: *emp,
		IssuedAt: s.now(),
	})
}

// transition applies a chief or HR decision under the employee+year lock.
// Chief decisions are published; HR processing is not.
func (s *leaveService) transition(ctx context.Context, id, name string, apply func(ctx context.Context, req *model.LeaveRequest) error) (_ *model.LeaveRequest, err error) {
	ctx, span := tracer.Start(ctx, "LeaveService."+name,
		trace.WithAttributes(attribute.String("leave.request_id", id)))
	defer func() { endSpan(span, err) }()

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// The year is only trusted once it is re-read under its own lock; a
	// concurrent Update may have moved the request to another year.
	year := current.Year()
	var updated *model.LeaveRequest
	for updated == nil {
		if err := ctx.Err(); err != nil {
			return nil, classify(name+" leave request", err)
		}
		err = s.repo.WithEmployeeYearLock(ctx, current.EmployeeID, year, func(ctx context.Context) error {
			req, err := s.find(ctx, id)
			if err != nil {
				return err
			}
			if req.Year() != year {
				year = req.Year()
				return nil
			}
			if err := apply(ctx, req); err != nil {
				return err
			}
			req.UpdatedAt = s.now()
			stored, err := s.repo.Update(ctx, req)
			if err != nil {
				return repoErr("update leave request", err)
			}
			updated = stored
			return nil
		})
		if err != nil {
			return nil, classify(name+" leave request", err)
		}
	}

	s.count(name)
	if name != TransitionProcess {
		s.publish(notify.EventRequestUpdated, updated)
	}
	return updated, nil
}

func (s *leaveService) chiefAllowed(req *model.LeaveRequest, next model.ChiefDecision) error {
	if req.HRDecision.Final() {
		return fmt.Errorf("%w: request %s was processed by HR", ErrInvalidTransition, req.ID)
	}
	if !req.ChiefDecision.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, req.ChiefDecision, next)
	}
	return nil
}

func (s *leaveService) find(ctx context.Context, id string) (*model.LeaveRequest, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr("leave request "+id, err)
	}
	return req, nil
}

func (s *leaveService) listByEmployee(ctx context.Context, employeeID string, decision *model.ChiefDecision) ([]model.LeaveRequest, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	items, err := s.repo.ListByEmployee(ctx, employeeID, decision)
	if err != nil {
		return nil, repoErr("list employee leave requests", err)
	}
	if items == nil {
		items = []model.LeaveRequest{}
	}
	return items, nil
}

// withLocks takes the employee+year locks in ascending year order, then runs fn.
func (s *leaveService) withLocks(ctx context.Context, employeeID string, years []int, fn func(ctx context.Context) error) error {
	if len(years) == 0 {
		return fn(ctx)
	}
	return s.repo.WithEmployeeYearLock(ctx, employeeID, years[0], func(ctx context.Context) error {
		return s.withLocks(ctx, employeeID, years[1:], fn)
	})
}

func (s *leaveService) count(transition string) {
	if s.transitions != nil {
		s.transitions.WithLabelValues(transition).Inc()
	}
}

func (s *leaveService) publish(eventType string, data any) {
	if s.notifier != nil {
		s.notifier.Publish(eventType, data)
	}
}

func validateHalves(markers ...string) error {
	for _, m := range markers {
		if len(m) > maxHalfMarkerLen {
			return fmt.Errorf("%w: half-day marker %q is longer than %d characters", ErrInvalidInput, m, maxHalfMarkerLen)
		}
	}
	return nil
}

// normalizePage clamps page so that page*size stays a valid OFFSET; pages
// past the clamp are empty anyway.
func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if page > maxOffset/size {
		page = maxOffset / size
	}
	return page, size
}

func toPage(res *repository.PageResult[model.LeaveRequestView], page, size int) *LeaveRequestPage {
	items := res.Items
	if items == nil {
		items = []model.LeaveRequestView{}
	}
	return &LeaveRequestPage{Items: items, Page: page, Size: size, Total: res.Total}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

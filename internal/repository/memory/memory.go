// Package memory provides in-process implementations of the repository interfaces.
// They back tests and local runs without a database.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"leaveapi/internal/model"
	"leaveapi/internal/repository"
)

// Store keeps leave requests, attachments and employees in maps.
// It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	requests    map[string]model.LeaveRequest
	attachments map[string]model.Attachment
	employees   map[string]model.Employee

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		requests:    make(map[string]model.LeaveRequest),
		attachments: make(map[string]model.Attachment),
		employees:   make(map[string]model.Employee),
		locks:       make(map[string]*sync.Mutex),
	}
}

var (
	_ repository.LeaveRequestRepository = (*Store)(nil)
	_ repository.EmployeeDirectory      = (*Store)(nil)
)

// unitOfWork collects undo steps for writes made under WithEmployeeYearLock.
type unitOfWork struct {
	held  map[string]bool
	undos []func()
}

type uowKey struct{}

func (s *Store) record(ctx context.Context, undo func()) {
	if u, ok := ctx.Value(uowKey{}).(*unitOfWork); ok {
		u.undos = append(u.undos, undo)
	}
}

// PutEmployee adds or replaces an employee in the directory.
func (s *Store) PutEmployee(e model.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.employees[id]
	return ok, nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (s *Store) Create(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	s.mu.Lock()
	if _, ok := s.employees[req.EmployeeID]; !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("employee %s: %w", req.EmployeeID, sql.ErrNoRows)
	}
	if _, dup := s.requests[req.ID]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("leave request %s already exists", req.ID)
	}
	stored := *req
	stored.Attachments = nil
	s.requests[req.ID] = stored
	s.mu.Unlock()

	s.record(ctx, func() {
		s.mu.Lock()
		delete(s.requests, req.ID)
		s.mu.Unlock()
	})
	return s.withAttachments(stored), nil
}

func (s *Store) FindByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	s.mu.RLock()
	r, ok := s.requests[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s.withAttachments(r), nil
}

func (s *Store) Update(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	s.mu.Lock()
	prev, ok := s.requests[req.ID]
	if !ok {
		s.mu.Unlock()
		return nil, sql.ErrNoRows
	}
	next := *req
	next.Attachments = nil
	next.EmployeeID = prev.EmployeeID
	next.CreatedAt = prev.CreatedAt
	s.requests[req.ID] = next
	s.mu.Unlock()

	s.record(ctx, func() {
		s.mu.Lock()
		s.requests[prev.ID] = prev
		s.mu.Unlock()
	})
	return s.withAttachments(next), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	prev, ok := s.requests[id]
	if !ok {
		s.mu.Unlock()
		return sql.ErrNoRows
	}
	delete(s.requests, id)
	var cascaded []model.Attachment
	for aid, a := range s.attachments {
		if a.LeaveRequestID == id {
			cascaded = append(cascaded, a)
			delete(s.attachments, aid)
		}
	}
	s.mu.Unlock()

	s.record(ctx, func() {
		s.mu.Lock()
		s.requests[prev.ID] = prev
		for _, a := range cascaded {
			s.attachments[a.ID] = a
		}
		s.mu.Unlock()
	})
	return nil
}

func (s *Store) ListByEmployee(_ context.Context, employeeID string, decision *model.ChiefDecision) ([]model.LeaveRequest, error) {
	s.mu.RLock()
	items := make([]model.LeaveRequest, 0)
	for _, r := range s.requests {
		if r.EmployeeID != employeeID {
			continue
		}
		if decision != nil && r.ChiefDecision != *decision {
			continue
		}
		items = append(items, r)
	}
	s.mu.RUnlock()

	sortRequests(items)
	for i := range items {
		items[i] = *s.withAttachments(items[i])
	}
	return items, nil
}

func (s *Store) ListApproved(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	return s.listViews(func(r model.LeaveRequest, _ model.Employee) bool {
		return r.ChiefDecision == model.ChiefApproved
	}, pq), nil
}

func (s *Store) ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	return s.listViews(func(r model.LeaveRequest, e model.Employee) bool {
		if e.OrgCode != orgCode {
			return false
		}
		return decision == nil || r.ChiefDecision == *decision
	}, pq), nil
}

func (s *Store) listViews(match func(model.LeaveRequest, model.Employee) bool, pq repository.PageQuery) *repository.PageResult[model.LeaveRequestView] {
	s.mu.RLock()
	matched := make([]model.LeaveRequest, 0)
	for _, r := range s.requests {
		if match(r, s.employees[r.EmployeeID]) {
			matched = append(matched, r)
		}
	}
	employees := make(map[string]model.Employee, len(s.employees))
	for k, v := range s.employees {
		employees[k] = v
	}
	s.mu.RUnlock()

	sortRequests(matched)
	total := len(matched)
	start := min(max(pq.Offset, 0), total)
	end := min(start+max(pq.Limit, 0), total)

	items := make([]model.LeaveRequestView, 0, end-start)
	for _, r := range matched[start:end] {
		e := employees[r.EmployeeID]
		items = append(items, model.LeaveRequestView{
			LeaveRequest: *s.withAttachments(r),
			EmployeeName: e.DisplayName,
			OrgCode:      e.OrgCode,
		})
	}
	return &repository.PageResult[model.LeaveRequestView]{Items: items, Total: total}
}

func (s *Store) SumApprovedDays(_ context.Context, employeeID string, year int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	used := 0
	for _, r := range s.requests {
		if r.EmployeeID == employeeID && r.ChiefDecision == model.ChiefApproved && r.Year() == year {
			used += r.DayCount
		}
	}
	return used, nil
}

func (s *Store) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	s.mu.Lock()
	if _, ok := s.requests[a.LeaveRequestID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("leave request %s: %w", a.LeaveRequestID, sql.ErrNoRows)
	}
	s.attachments[a.ID] = *a
	s.mu.Unlock()

	s.record(ctx, func() {
		s.mu.Lock()
		delete(s.attachments, a.ID)
		s.mu.Unlock()
	})
	return nil
}

func (s *Store) FindAttachment(_ context.Context, id string) (*model.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attachments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (s *Store) ListAttachments(_ context.Context, requestID string) ([]model.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attachmentsOf(requestID), nil
}

func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	s.mu.Lock()
	prev, ok := s.attachments[id]
	if !ok {
		s.mu.Unlock()
		return sql.ErrNoRows
	}
	delete(s.attachments, id)
	s.mu.Unlock()

	s.record(ctx, func() {
		s.mu.Lock()
		s.attachments[prev.ID] = prev
		s.mu.Unlock()
	})
	return nil
}

// WithEmployeeYearLock serializes fn per employee and year with a keyed mutex.
// Writes made through the ctx passed to fn are undone if fn returns an error.
func (s *Store) WithEmployeeYearLock(ctx context.Context, employeeID string, year int, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("%s:%d", employeeID, year)

	outer, nested := ctx.Value(uowKey{}).(*unitOfWork)
	if nested && outer.held[key] {
		return fn(ctx)
	}

	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	if nested {
		outer.held[key] = true
		defer delete(outer.held, key)
		return fn(ctx)
	}

	u := &unitOfWork{held: map[string]bool{key: true}}
	if err := fn(context.WithValue(ctx, uowKey{}, u)); err != nil {
		for i := len(u.undos) - 1; i >= 0; i-- {
			u.undos[i]()
		}
		return err
	}
	return nil
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// withAttachments returns a copy of r carrying its attachments.
func (s *Store) withAttachments(r model.LeaveRequest) *model.LeaveRequest {
	s.mu.RLock()
	r.Attachments = s.attachmentsOf(r.ID)
	s.mu.RUnlock()
	return &r
}

// attachmentsOf must be called with s.mu held.
func (s *Store) attachmentsOf(requestID string) []model.Attachment {
	out := make([]model.Attachment, 0)
	for _, a := range s.attachments {
		if a.LeaveRequestID == requestID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out
}

func sortRequests(items []model.LeaveRequest) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].StartDate.Equal(items[j].StartDate) {
			return items[i].ID < items[j].ID
		}
		return items[i].StartDate.After(items[j].StartDate)
	})
}

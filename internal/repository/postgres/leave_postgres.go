package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"leaveapi/internal/model"
	"leaveapi/internal/repository"
)

const pgForeignKeyViolation = "23503"

// LeavePostgres is a PostgreSQL implementation of repository.LeaveRequestRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type LeavePostgres struct {
	db *sql.DB
}

// NewLeavePostgres creates a new LeavePostgres repository.
func NewLeavePostgres(db *sql.DB) *LeavePostgres {
	return &LeavePostgres{db: db}
}

var _ repository.LeaveRequestRepository = (*LeavePostgres)(nil)

type txKey struct{}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction carried by ctx, if any, or the pool.
func (r *LeavePostgres) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

const requestColumns = `lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.day_count,
		lr.departure_half, lr.return_half, lr.request_text,
		lr.chief_decision, lr.hr_decision, lr.observation, lr.created_at, lr.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner, extra ...any) (model.LeaveRequest, error) {
	var r model.LeaveRequest
	var chief, hr string
	dest := []any{
		&r.ID,
		&r.EmployeeID,
		&r.StartDate,
		&r.EndDate,
		&r.DayCount,
		&r.DepartureHalf,
		&r.ReturnHalf,
		&r.RequestText,
		&chief,
		&hr,
		&r.Observation,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.LeaveRequest{}, err
	}
	r.ChiefDecision = model.ChiefDecision(chief)
	r.HRDecision = model.HRDecision(hr)
	r.Attachments = []model.Attachment{}
	return r, nil
}

// Create inserts a new leave request row and returns the stored record.
func (r *LeavePostgres) Create(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	const q = `
		WITH lr AS (
			INSERT INTO leave_requests (id, employee_id, start_date, end_date, day_count,
				departure_half, return_half, request_text, chief_decision, hr_decision,
				observation, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING *
		)
		SELECT ` + requestColumns + ` FROM lr
	`
	row := r.conn(ctx).QueryRowContext(ctx, q,
		req.ID,
		req.EmployeeID,
		req.StartDate,
		req.EndDate,
		req.DayCount,
		req.DepartureHalf,
		req.ReturnHalf,
		req.RequestText,
		string(req.ChiefDecision),
		string(req.HRDecision),
		req.Observation,
		req.CreatedAt,
		req.UpdatedAt,
	)
	out, err := scanRequest(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("employee %s: %w", req.EmployeeID, sql.ErrNoRows)
		}
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single leave request and its attachments.
func (r *LeavePostgres) FindByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM leave_requests lr WHERE lr.id = $1`
	out, err := scanRequest(r.conn(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	atts, err := r.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	out.Attachments = atts
	return &out, nil
}

// Update overwrites the mutable columns and returns the stored record.
func (r *LeavePostgres) Update(ctx context.Context, req *model.LeaveRequest) (*model.LeaveRequest, error) {
	const q = `
		WITH lr AS (
			UPDATE leave_requests SET
				start_date = $2, end_date = $3, day_count = $4,
				departure_half = $5, return_half = $6, request_text = $7,
				chief_decision = $8, hr_decision = $9, observation = $10, updated_at = $11
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + requestColumns + ` FROM lr
	`
	row := r.conn(ctx).QueryRowContext(ctx, q,
		req.ID,
		req.StartDate,
		req.EndDate,
		req.DayCount,
		req.DepartureHalf,
		req.ReturnHalf,
		req.RequestText,
		string(req.ChiefDecision),
		string(req.HRDecision),
		req.Observation,
		req.UpdatedAt,
	)
	out, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	atts, err := r.ListAttachments(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	out.Attachments = atts
	return &out, nil
}

// Delete removes a leave request row. Attachment rows cascade.
func (r *LeavePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM leave_requests WHERE id = $1`
	res, err := r.conn(ctx).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByEmployee returns an employee's requests, newest first.
func (r *LeavePostgres) ListByEmployee(ctx context.Context, employeeID string, decision *model.ChiefDecision) ([]model.LeaveRequest, error) {
	q := `SELECT ` + requestColumns + ` FROM leave_requests lr WHERE lr.employee_id = $1`
	args := []any{employeeID}
	if decision != nil {
		q += ` AND lr.chief_decision = $2`
		args = append(args, string(*decision))
	}
	q += ` ORDER BY lr.start_date DESC, lr.id`

	rows, err := r.conn(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LeaveRequest, 0)
	for rows.Next() {
		item, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	byRequest, err := r.attachmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if atts, ok := byRequest[items[i].ID]; ok {
			items[i].Attachments = atts
		}
	}
	return items, nil
}

// ListApproved returns chief-approved requests with employee display fields.
func (r *LeavePostgres) ListApproved(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	return r.listViews(ctx, `lr.chief_decision = $1`, []any{string(model.ChiefApproved)}, pq)
}

// ListByOrg returns requests of an org unit's employees.
func (r *LeavePostgres) ListByOrg(ctx context.Context, orgCode string, decision *model.ChiefDecision, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	where := `e.org_code = $1`
	args := []any{orgCode}
	if decision != nil {
		where += ` AND lr.chief_decision = $2`
		args = append(args, string(*decision))
	}
	return r.listViews(ctx, where, args, pq)
}

func (r *LeavePostgres) listViews(ctx context.Context, where string, args []any, pq repository.PageQuery) (*repository.PageResult[model.LeaveRequestView], error) {
	from := ` FROM leave_requests lr JOIN employees e ON e.id = lr.employee_id WHERE ` + where

	var total int
	if err := r.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + requestColumns + `, e.display_name, e.org_code` + from +
		fmt.Sprintf(` ORDER BY lr.start_date DESC, lr.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).QueryContext(ctx, q, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LeaveRequestView, 0)
	for rows.Next() {
		var v model.LeaveRequestView
		req, err := scanRequest(rows, &v.EmployeeName, &v.OrgCode)
		if err != nil {
			return nil, err
		}
		v.LeaveRequest = req
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	byRequest, err := r.attachmentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if atts, ok := byRequest[items[i].ID]; ok {
			items[i].Attachments = atts
		}
	}

	return &repository.PageResult[model.LeaveRequestView]{
		Items: items,
		Total: total,
	}, nil
}

// SumApprovedDays sums approved day counts for one employee and start year.
func (r *LeavePostgres) SumApprovedDays(ctx context.Context, employeeID string, year int) (int, error) {
	const q = `
		SELECT COALESCE(SUM(day_count), 0)
		FROM leave_requests
		WHERE employee_id = $1 AND chief_decision = $2 AND start_year = $3
	`
	var used int
	if err := r.conn(ctx).QueryRowContext(ctx, q, employeeID, string(model.ChiefApproved), year).Scan(&used); err != nil {
		return 0, err
	}
	return used, nil
}

const attachmentColumns = `id, leave_request_id, filename, storage_path, content_type, size, uploaded_at`

func scanAttachment(row rowScanner) (model.Attachment, error) {
	var a model.Attachment
	err := row.Scan(
		&a.ID,
		&a.LeaveRequestID,
		&a.Filename,
		&a.StoragePath,
		&a.ContentType,
		&a.Size,
		&a.UploadedAt,
	)
	return a, err
}

// CreateAttachment inserts attachment metadata.
func (r *LeavePostgres) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	const q = `
		INSERT INTO leave_attachments (` + attachmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.conn(ctx).ExecContext(ctx, q,
		a.ID,
		a.LeaveRequestID,
		a.Filename,
		a.StoragePath,
		a.ContentType,
		a.Size,
		a.UploadedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("leave request %s: %w", a.LeaveRequestID, sql.ErrNoRows)
	}
	return err
}

// FindAttachment fetches attachment metadata by ID.
func (r *LeavePostgres) FindAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM leave_attachments WHERE id = $1`
	a, err := scanAttachment(r.conn(ctx).QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttachments returns a request's attachments ordered by upload time.
func (r *LeavePostgres) ListAttachments(ctx context.Context, requestID string) ([]model.Attachment, error) {
	byRequest, err := r.attachmentsFor(ctx, []string{requestID})
	if err != nil {
		return nil, err
	}
	if atts, ok := byRequest[requestID]; ok {
		return atts, nil
	}
	return []model.Attachment{}, nil
}

// attachmentsFor loads attachments for several requests in one query.
func (r *LeavePostgres) attachmentsFor(ctx context.Context, requestIDs []string) (map[string][]model.Attachment, error) {
	out := make(map[string][]model.Attachment, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}
	const q = `
		SELECT ` + attachmentColumns + `
		FROM leave_attachments
		WHERE leave_request_id = ANY($1::uuid[])
		ORDER BY uploaded_at, id
	`
	rows, err := r.conn(ctx).QueryContext(ctx, q, uuidArray(requestIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out[a.LeaveRequestID] = append(out[a.LeaveRequestID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAttachment removes attachment metadata by ID.
func (r *LeavePostgres) DeleteAttachment(ctx context.Context, id string) error {
	const q = `DELETE FROM leave_attachments WHERE id = $1`
	res, err := r.conn(ctx).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// WithEmployeeYearLock runs fn inside a transaction holding a transaction-scoped
// advisory lock for the employee and year. Nested calls reuse the outer transaction.
func (r *LeavePostgres) WithEmployeeYearLock(ctx context.Context, employeeID string, year int, fn func(ctx context.Context) error) error {
	const lockQ = `SELECT pg_advisory_xact_lock(hashtext($1))`
	key := fmt.Sprintf("leave:%s:%d", employeeID, year)

	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		if _, err := tx.ExecContext(ctx, lockQ, key); err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, lockQ, key); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("acquire lock: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// uuidArray renders IDs as a Postgres array literal. IDs are UUIDs and need no quoting.
func uuidArray(ids []string) string {
	return "{" + strings.Join(ids, ",") + "}"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

package postgres

import (
	"context"
	"database/sql"

	"leaveapi/internal/model"
	"leaveapi/internal/repository"
)

// EmployeePostgres reads the employees table maintained by the HR directory.
type EmployeePostgres struct {
	db *sql.DB
}

// NewEmployeePostgres creates a new EmployeePostgres directory.
func NewEmployeePostgres(db *sql.DB) *EmployeePostgres {
	return &EmployeePostgres{db: db}
}

var _ repository.EmployeeDirectory = (*EmployeePostgres)(nil)

// Exists reports whether an employee with the given ID exists.
func (r *EmployeePostgres) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Get fetches an employee's display fields.
func (r *EmployeePostgres) Get(ctx context.Context, id string) (*model.Employee, error) {
	const q = `SELECT id, display_name, org_code FROM employees WHERE id = $1`
	var e model.Employee
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.DisplayName, &e.OrgCode); err != nil {
		return nil, err
	}
	return &e, nil
}

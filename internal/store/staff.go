package store

import (
	"context"
	"database/sql"
	"time"
)

const staffColumns = `id, name, role, department, email, phone, bio, image_url, image_alt_text,
	sort_order, is_active, created_at, updated_at`

func scanStaffMember(row rowScanner) (StaffMember, error) {
	var s StaffMember
	err := row.Scan(&s.ID, &s.Name, &s.Role, &s.Department, &s.Email, &s.Phone, &s.Bio,
		&s.ImageURL, &s.ImageAltText, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) ListStaff(ctx context.Context, activeOnly bool) ([]StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM school_staff`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanStaffMember)
}

func (q *Queries) GetStaffMember(ctx context.Context, id int64) (StaffMember, error) {
	return scanStaffMember(q.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM school_staff WHERE id = ?`, id))
}

type StaffMemberParams struct {
	ID           int64
	Name         string
	Role         sql.NullString
	Department   sql.NullString
	Email        sql.NullString
	Phone        sql.NullString
	Bio          sql.NullString
	ImageURL     sql.NullString
	ImageAltText sql.NullString
	SortOrder    int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateStaffMember(ctx context.Context, arg StaffMemberParams) (StaffMember, error) {
	id, err := q.insertID(ctx, `INSERT INTO school_staff
		(name, role, department, email, phone, bio, image_url, image_alt_text,
		 sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Role, arg.Department, arg.Email, arg.Phone, arg.Bio, arg.ImageURL, arg.ImageAltText,
		arg.SortOrder, arg.IsActive, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return StaffMember{}, err
	}
	return q.GetStaffMember(ctx, id)
}

// UpdateStaffMember writes every column but created_at.
func (q *Queries) UpdateStaffMember(ctx context.Context, arg StaffMemberParams) (StaffMember, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE school_staff
		SET name = ?, role = ?, department = ?, email = ?, phone = ?, bio = ?,
		    image_url = ?, image_alt_text = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Name, arg.Role, arg.Department, arg.Email, arg.Phone, arg.Bio,
		arg.ImageURL, arg.ImageAltText, arg.SortOrder, arg.IsActive, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return StaffMember{}, err
	}
	return q.GetStaffMember(ctx, arg.ID)
}

func (q *Queries) UpdateStaffImage(ctx context.Context, id int64, url, alt sql.NullString, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE school_staff SET image_url = ?, image_alt_text = ?, updated_at = ? WHERE id = ?`,
		url, alt, dbTime(updatedAt), id)
	return err
}

func (q *Queries) DeleteStaffMember(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM school_staff WHERE id = ?`, id)
}

package store

import (
	"context"
	"database/sql"
	"time"
)

const achievementColumns = `id, title, description, year, position, is_active, created_at, updated_at`

func scanAchievement(row rowScanner) (Achievement, error) {
	var a Achievement
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Year, &a.Position, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (q *Queries) ListAchievements(ctx context.Context, activeOnly bool) ([]Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := q.db.QueryContext(ctx, query+` ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAchievement)
}

func (q *Queries) GetAchievement(ctx context.Context, id int64) (Achievement, error) {
	return scanAchievement(q.db.QueryRowContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements WHERE id = ?`, id))
}

type AchievementParams struct {
	ID          int64
	Title       string
	Description sql.NullString
	Year        sql.NullInt64
	Position    int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateAchievement(ctx context.Context, arg AchievementParams) (Achievement, error) {
	id, err := q.insertID(ctx, `INSERT INTO achievements
		(title, description, year, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.Year, arg.Position, arg.IsActive,
		dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return Achievement{}, err
	}
	return q.GetAchievement(ctx, id)
}

func (q *Queries) UpdateAchievement(ctx context.Context, arg AchievementParams) (Achievement, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE achievements
		SET title = ?, description = ?, year = ?, position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Description, arg.Year, arg.Position, arg.IsActive, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return Achievement{}, err
	}
	return q.GetAchievement(ctx, arg.ID)
}

func (q *Queries) DeleteAchievement(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM achievements WHERE id = ?`, id)
}

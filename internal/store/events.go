package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, title, description, event_date, start_time, end_time,
	event_type, location, locale, is_active, created_at, updated_at`

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
		&e.EventType, &e.Location, &e.Locale, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// EventFilter narrows ListEvents. Zero values disable a filter; dates are
// inclusive YYYY-MM-DD strings.
type EventFilter struct {
	ActiveOnly bool
	Locale     string
	Type       string
	From       string
	To         string
}

func (q *Queries) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1 = 1`
	var args []any
	if f.ActiveOnly {
		query += ` AND is_active = 1`
	}
	if f.Locale != "" {
		query += ` AND locale = ?`
		args = append(args, f.Locale)
	}
	if f.Type != "" {
		query += ` AND event_type = ?`
		args = append(args, f.Type)
	}
	if f.From != "" {
		query += ` AND event_date >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND event_date <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY event_date ASC, start_time ASC, id ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEvent)
}

func (q *Queries) GetEvent(ctx context.Context, id int64) (Event, error) {
	return scanEvent(q.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
}

type CreateEventParams struct {
	Title       string
	Description sql.NullString
	EventDate   string
	StartTime   sql.NullString
	EndTime     sql.NullString
	EventType   string
	Location    sql.NullString
	Locale      string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	id, err := q.insertID(ctx, `INSERT INTO events
		(title, description, event_date, start_time, end_time, event_type, location, locale,
		 is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.EventDate, arg.StartTime, arg.EndTime, arg.EventType,
		arg.Location, arg.Locale, arg.IsActive, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return Event{}, err
	}
	return q.GetEvent(ctx, id)
}

type UpdateEventParams struct {
	ID          int64
	Title       string
	Description sql.NullString
	EventDate   string
	StartTime   sql.NullString
	EndTime     sql.NullString
	EventType   string
	Location    sql.NullString
	Locale      string
	IsActive    bool
	UpdatedAt   time.Time
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE events
		SET title = ?, description = ?, event_date = ?, start_time = ?, end_time = ?,
		    event_type = ?, location = ?, locale = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Description, arg.EventDate, arg.StartTime, arg.EndTime,
		arg.EventType, arg.Location, arg.Locale, arg.IsActive, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return Event{}, err
	}
	return q.GetEvent(ctx, arg.ID)
}

func (q *Queries) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM events WHERE id = ?`, id)
}

package store

import (
	"context"
	"database/sql"
	"time"
)

const navigationColumns = `id, title_bg, title_en, path, parent_id, position, is_active,
	icon, css_class, created_at, updated_at`

func scanNavigationMenuItem(row rowScanner) (NavigationMenuItem, error) {
	var n NavigationMenuItem
	err := row.Scan(&n.ID, &n.TitleBg, &n.TitleEn, &n.Path, &n.ParentID, &n.Position, &n.IsActive,
		&n.Icon, &n.CSSClass, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// ListNavigationMenuItems returns every menu item ordered for display.
func (q *Queries) ListNavigationMenuItems(ctx context.Context) ([]NavigationMenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+navigationColumns+` FROM navigation_menu_items ORDER BY position ASC, title_bg ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNavigationMenuItem)
}

func (q *Queries) GetNavigationMenuItem(ctx context.Context, id string) (NavigationMenuItem, error) {
	return scanNavigationMenuItem(q.db.QueryRowContext(ctx,
		`SELECT `+navigationColumns+` FROM navigation_menu_items WHERE id = ?`, id))
}

func (q *Queries) CountNavigationMenuItems(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM navigation_menu_items`).Scan(&n)
	return n, err
}

type NavigationMenuItemParams struct {
	ID        string
	TitleBg   string
	TitleEn   sql.NullString
	Path      string
	ParentID  sql.NullString
	Position  int64
	IsActive  bool
	Icon      sql.NullString
	CSSClass  sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateNavigationMenuItem(ctx context.Context, arg NavigationMenuItemParams) (NavigationMenuItem, error) {
	_, err := q.db.ExecContext(ctx, `INSERT INTO navigation_menu_items
		(id, title_bg, title_en, path, parent_id, position, is_active, icon, css_class, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.TitleBg, arg.TitleEn, arg.Path, arg.ParentID, arg.Position, arg.IsActive,
		arg.Icon, arg.CSSClass, dbTime(arg.CreatedAt), dbTime(arg.UpdatedAt))
	if err != nil {
		return NavigationMenuItem{}, err
	}
	return q.GetNavigationMenuItem(ctx, arg.ID)
}

func (q *Queries) UpdateNavigationMenuItem(ctx context.Context, arg NavigationMenuItemParams) (NavigationMenuItem, error) {
	_, err := q.db.ExecContext(ctx, `UPDATE navigation_menu_items
		SET title_bg = ?, title_en = ?, path = ?, parent_id = ?, position = ?, is_active = ?,
		    icon = ?, css_class = ?, updated_at = ?
		WHERE id = ?`,
		arg.TitleBg, arg.TitleEn, arg.Path, arg.ParentID, arg.Position, arg.IsActive,
		arg.Icon, arg.CSSClass, dbTime(arg.UpdatedAt), arg.ID)
	if err != nil {
		return NavigationMenuItem{}, err
	}
	return q.GetNavigationMenuItem(ctx, arg.ID)
}

func (q *Queries) SetNavigationMenuItemActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE navigation_menu_items SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, dbTime(updatedAt), id)
	return err
}

// ReparentNavigationChildren moves the children of id under newParent.
func (q *Queries) ReparentNavigationChildren(ctx context.Context, id string, newParent sql.NullString) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE navigation_menu_items SET parent_id = ? WHERE parent_id = ?`, newParent, id)
	return err
}

func (q *Queries) DeleteNavigationMenuItem(ctx context.Context, id string) (int64, error) {
	return q.execAffected(ctx, `DELETE FROM navigation_menu_items WHERE id = ?`, id)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// OrderedTable is a table whose rows carry an explicit display position.
type OrderedTable struct {
	Name     string
	Column   string
	StringID bool
	idColumn string
}

func (t OrderedTable) key() string {
	if t.idColumn != "" {
		return t.idColumn
	}
	return "id"
}

// The closed set of tables that can be positioned and reordered.
var (
	PagesOrder        = OrderedTable{Name: "pages", Column: "position", StringID: true}
	StaffOrder        = OrderedTable{Name: "school_staff", Column: "sort_order"}
	GalleryOrder      = OrderedTable{Name: "gallery_images", Column: "display_order"}
	HistoryOrder      = OrderedTable{Name: string(HistorySections), Column: "position"}
	PatronOrder       = OrderedTable{Name: string(PatronSections), Column: "position"}
	AchievementsOrder = OrderedTable{Name: "achievements", Column: "position"}
	DirectorsOrder    = OrderedTable{Name: "directors", Column: "position"}
	ContentOrder      = OrderedTable{Name: "content_sections", Column: "position", StringID: true, idColumn: "content_key"}
	UsefulLinksOrder  = OrderedTable{Name: "useful_links", Column: "position"}
	NavigationOrder   = OrderedTable{Name: "navigation_menu_items", Column: "position", StringID: true}
)

// PositionUpdate assigns Position to the row with ID.
type PositionUpdate struct {
	ID       string
	Position int64
}

// NextPosition returns one past the current maximum position of t.
func (q *Queries) NextPosition(ctx context.Context, t OrderedTable) (int64, error) {
	var next int64
	err := q.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s`, t.Column, t.Name)).Scan(&next)
	return next, err
}

// Reorder applies updates to t inside one transaction. Unknown ids are
// skipped; it returns the number of rows changed.
func Reorder(ctx context.Context, db *sql.DB, t OrderedTable, updates []PositionUpdate) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reorder: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := fmt.Sprintf(`UPDATE %s SET %s = ? WHERE %s = ?`, t.Name, t.Column, t.key())
	var changed int64
	for _, u := range updates {
		var id any = u.ID
		if !t.StringID {
			n, err := strconv.ParseInt(u.ID, 10, 64)
			if err != nil {
				continue
			}
			id = n
		}
		res, err := tx.ExecContext(ctx, stmt, u.Position, id)
		if err != nil {
			return 0, fmt.Errorf("reorder %s %s: %w", t.Name, u.ID, err)
		}
		n, _ := res.RowsAffected()
		changed += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reorder: %w", err)
	}
	return changed, nil
}

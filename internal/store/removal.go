package store

import (
	"context"
	"database/sql"
	"fmt"
)

// inTx runs fn on Queries bound to a new transaction and commits when fn
// succeeds.
func inTx(ctx context.Context, db *sql.DB, fn func(q *Queries) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(New(db).WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteNavigationMenuItemReparenting hands the children of item to its
// parent and deletes item. Both happen in one transaction. It returns the
// number of deleted items.
func DeleteNavigationMenuItemReparenting(ctx context.Context, db *sql.DB, item NavigationMenuItem) (int64, error) {
	var deleted int64
	err := inTx(ctx, db, func(q *Queries) error {
		if err := q.ReparentNavigationChildren(ctx, item.ID, item.ParentID); err != nil {
			return fmt.Errorf("reparent children of %s: %w", item.ID, err)
		}
		n, err := q.DeleteNavigationMenuItem(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("delete menu item %s: %w", item.ID, err)
		}
		deleted = n
		return nil
	})
	return deleted, err
}

// DeleteNewsWithAttachments deletes the attachment rows of a news article
// and the article itself in one transaction. It returns the number of
// deleted articles and does not touch attachment files.
func DeleteNewsWithAttachments(ctx context.Context, db *sql.DB, newsID int64) (int64, error) {
	var deleted int64
	err := inTx(ctx, db, func(q *Queries) error {
		if _, err := q.DeleteNewsAttachments(ctx, newsID); err != nil {
			return fmt.Errorf("delete attachments of news %d: %w", newsID, err)
		}
		n, err := q.DeleteNews(ctx, newsID)
		if err != nil {
			return fmt.Errorf("delete news %d: %w", newsID, err)
		}
		deleted = n
		return nil
	})
	return deleted, err
}

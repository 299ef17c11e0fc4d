package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"walletd/internal/core"
)

func (q *queries) Category(ctx context.Context, walletID, id int64) (core.Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, wallet_id, name, type, service FROM categories WHERE wallet_id = ? AND id = ?`,
		walletID, id)
	return scanCategory(row)
}

func (q *queries) CategoryByName(ctx context.Context, walletID int64, name string) (core.Category, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, wallet_id, name, type, service FROM categories WHERE wallet_id = ? AND lower(name) = lower(?)`,
		walletID, name)
	return scanCategory(row)
}

func (q *queries) ListCategories(ctx context.Context, walletID int64, includeService bool) ([]core.Category, error) {
	query := `SELECT c.id, c.wallet_id, c.name, c.type, c.service
	 FROM categories c
	 LEFT JOIN transactions t ON t.category_id = c.id
	 WHERE c.wallet_id = ?`
	if !includeService {
		query += ` AND c.service = 0`
	}
	query += `
	 GROUP BY c.id
	 ORDER BY COUNT(t.id) DESC, c.name COLLATE NOCASE`

	rows, err := q.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *queries) InsertCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (wallet_id, name, type, service) VALUES (?, ?, ?, ?)`,
		c.WalletID, c.Name, string(c.Type), c.Service)
	if isUniqueViolation(err) {
		return 0, core.NewValidationError("name", "a category with that name already exists")
	}
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

func (q *queries) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE wallet_id = ? AND id = ?`,
		c.Name, c.WalletID, c.ID)
	if isUniqueViolation(err) {
		return core.NewValidationError("name", "a category with that name already exists")
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (q *queries) DeleteCategory(ctx context.Context, walletID, id int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM categories WHERE wallet_id = ? AND id = ?`, walletID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (q *queries) ReassignCategory(ctx context.Context, walletID, fromID, toID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ? WHERE wallet_id = ? AND category_id = ?`,
		toID, walletID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign category: %w", err)
	}
	return res.RowsAffected()
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c     core.Category
		ctype string
	)
	err := row.Scan(&c.ID, &c.WalletID, &c.Name, &ctype, &c.Service)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.Type = core.CategoryType(ctype)
	return c, nil
}

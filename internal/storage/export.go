package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/core"
)

// ExportRow is a transaction flattened for the spreadsheet: reference ids
// resolved to their names at read time.
type ExportRow struct {
	TransactionID int64
	WalletID      int64
	Date          time.Time
	Value         decimal.Decimal
	Description   string
	PaymentType   string
	Category      string
	CategoryType  core.CategoryType
}

// PendingExportIDs returns up to limit transaction ids still waiting to be
// exported, oldest first.
func (r *Repository) PendingExportIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM transactions WHERE export_state = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending exports: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending export id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExportRowByID loads one transaction with its payment type and category
// names resolved. A deleted transaction is reported as core.ErrNotFound so
// the worker can drop stale queue messages.
func (r *Repository) ExportRowByID(ctx context.Context, id int64) (ExportRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.wallet_id, t.date, t.value, t.description, p.name, c.name, c.type
		 FROM transactions t
		 JOIN payment_types p ON p.id = t.payment_type_id
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.id = ?`, id)

	var (
		out         ExportRow
		date, value string
		ctype       string
	)
	err := row.Scan(&out.TransactionID, &out.WalletID, &date, &value,
		&out.Description, &out.PaymentType, &out.Category, &ctype)
	if errors.Is(err, sql.ErrNoRows) {
		return ExportRow{}, core.ErrNotFound
	}
	if err != nil {
		return ExportRow{}, fmt.Errorf("scan export row: %w", err)
	}
	if out.Date, err = decodeTime(date); err != nil {
		return ExportRow{}, err
	}
	if out.Value, err = decodeAmount(value); err != nil {
		return ExportRow{}, err
	}
	out.CategoryType = core.CategoryType(ctype)
	return out, nil
}

// MarkExported records that the row reached the spreadsheet.
func (r *Repository) MarkExported(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_state = 'done' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return requireRow(res)
}

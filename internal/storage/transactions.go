package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"walletd/internal/core"
)

func (q *queries) Transaction(ctx context.Context, walletID, id int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, wallet_id, payment_type_id, category_id, value, description, date, transfer_group
		 FROM transactions WHERE wallet_id = ? AND id = ?`,
		walletID, id)
	return scanTransaction(row)
}

func (q *queries) ListTransactions(ctx context.Context, walletID int64) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, wallet_id, payment_type_id, category_id, value, description, date, transfer_group
		 FROM transactions WHERE wallet_id = ? ORDER BY date DESC, id DESC`,
		walletID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *queries) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (wallet_id, payment_type_id, category_id, value, description, date, transfer_group)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.WalletID, t.PaymentTypeID, t.CategoryID,
		encodeAmount(t.Value), t.Description, encodeTime(t.Date), t.TransferGroup)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return res.LastInsertId()
}

func (q *queries) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions
		 SET payment_type_id = ?, category_id = ?, value = ?, description = ?, date = ?, export_state = 'pending'
		 WHERE wallet_id = ? AND id = ?`,
		t.PaymentTypeID, t.CategoryID, encodeAmount(t.Value), t.Description, encodeTime(t.Date),
		t.WalletID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (q *queries) DeleteTransaction(ctx context.Context, walletID, id int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE wallet_id = ? AND id = ?`, walletID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t           core.Transaction
		value, date string
	)
	err := row.Scan(&t.ID, &t.WalletID, &t.PaymentTypeID, &t.CategoryID,
		&value, &t.Description, &date, &t.TransferGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if t.Value, err = decodeAmount(value); err != nil {
		return core.Transaction{}, err
	}
	if t.Date, err = decodeTime(date); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

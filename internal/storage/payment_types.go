package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"walletd/internal/core"
	"walletd/internal/ledger"
)

var _ ledger.Store = (*Repository)(nil)

func (q *queries) PaymentType(ctx context.Context, walletID, id int64) (core.PaymentType, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, wallet_id, name, balance FROM payment_types WHERE wallet_id = ? AND id = ?`,
		walletID, id)
	return scanPaymentType(row)
}

func (q *queries) PaymentTypeByName(ctx context.Context, walletID int64, name string) (core.PaymentType, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, wallet_id, name, balance FROM payment_types WHERE wallet_id = ? AND lower(name) = lower(?)`,
		walletID, name)
	return scanPaymentType(row)
}

// ListPaymentTypes orders by how often each payment type is used, the way
// the entry forms rank their choices.
func (q *queries) ListPaymentTypes(ctx context.Context, walletID int64) ([]core.PaymentType, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT pt.id, pt.wallet_id, pt.name, pt.balance
		 FROM payment_types pt
		 LEFT JOIN transactions t ON t.payment_type_id = pt.id
		 WHERE pt.wallet_id = ?
		 GROUP BY pt.id
		 ORDER BY COUNT(t.id) DESC, pt.name COLLATE NOCASE`,
		walletID)
	if err != nil {
		return nil, fmt.Errorf("select payment types: %w", err)
	}
	defer rows.Close()

	var out []core.PaymentType
	for rows.Next() {
		pt, err := scanPaymentType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (q *queries) InsertPaymentType(ctx context.Context, pt core.PaymentType) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO payment_types (wallet_id, name, balance) VALUES (?, ?, ?)`,
		pt.WalletID, pt.Name, encodeAmount(pt.Balance))
	if isUniqueViolation(err) {
		return 0, core.NewValidationError("name", "a payment type with that name already exists")
	}
	if err != nil {
		return 0, fmt.Errorf("insert payment type: %w", err)
	}
	return res.LastInsertId()
}

func (q *queries) UpdatePaymentType(ctx context.Context, pt core.PaymentType) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE payment_types SET name = ?, balance = ? WHERE wallet_id = ? AND id = ?`,
		pt.Name, encodeAmount(pt.Balance), pt.WalletID, pt.ID)
	if isUniqueViolation(err) {
		return core.NewValidationError("name", "a payment type with that name already exists")
	}
	if err != nil {
		return fmt.Errorf("update payment type: %w", err)
	}
	return requireRow(res)
}

func (q *queries) DeletePaymentType(ctx context.Context, walletID, id int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM payment_types WHERE wallet_id = ? AND id = ?`, walletID, id)
	if err != nil {
		return fmt.Errorf("delete payment type: %w", err)
	}
	return requireRow(res)
}

func (q *queries) ReassignPaymentType(ctx context.Context, walletID, fromID, toID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET payment_type_id = ? WHERE wallet_id = ? AND payment_type_id = ?`,
		toID, walletID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign payment type: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaymentType(row rowScanner) (core.PaymentType, error) {
	var (
		pt      core.PaymentType
		balance string
	)
	err := row.Scan(&pt.ID, &pt.WalletID, &pt.Name, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return core.PaymentType{}, core.ErrNotFound
	}
	if err != nil {
		return core.PaymentType{}, fmt.Errorf("scan payment type: %w", err)
	}
	if pt.Balance, err = decodeAmount(balance); err != nil {
		return core.PaymentType{}, err
	}
	return pt, nil
}

// requireRow turns a zero-row write into core.ErrNotFound so wallet-scoped
// updates cannot silently miss.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

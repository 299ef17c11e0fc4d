package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/auth"
	"walletd/internal/core"
)

var _ auth.Store = (*Repository)(nil)

// CreateAccount creates the user, wallet and seed records in one
// transaction: payment type "Cash" and the Income, Expense and reserved
// Transfer categories, mirroring what every fresh wallet must contain.
func (r *Repository) CreateAccount(ctx context.Context, login, passwordHash string) (core.Wallet, error) {
	var wallet core.Wallet
	err := r.inTx(ctx, func(ctx context.Context, q *queries) error {
		res, err := q.db.ExecContext(ctx,
			`INSERT INTO users (login, password_hash, created_at) VALUES (?, ?, ?)`,
			login, passwordHash, encodeTime(time.Now()))
		if isUniqueViolation(err) {
			return core.NewValidationError("login", "a user with that login already exists")
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		userID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("user id: %w", err)
		}

		res, err = q.db.ExecContext(ctx, `INSERT INTO wallets (user_id) VALUES (?)`, userID)
		if err != nil {
			return fmt.Errorf("insert wallet: %w", err)
		}
		walletID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("wallet id: %w", err)
		}

		if _, err := q.InsertPaymentType(ctx, core.PaymentType{
			WalletID: walletID,
			Name:     "Cash",
			Balance:  decimal.Zero,
		}); err != nil {
			return fmt.Errorf("seed payment type: %w", err)
		}
		seeds := []core.Category{
			{WalletID: walletID, Name: "Income", Type: core.Income},
			{WalletID: walletID, Name: "Expense", Type: core.Expense},
			{WalletID: walletID, Name: core.TransferCategoryName, Type: core.Transfer, Service: true},
		}
		for _, c := range seeds {
			if _, err := q.InsertCategory(ctx, c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Name, err)
			}
		}

		wallet = core.Wallet{ID: walletID, UserID: userID}
		return nil
	})
	if err != nil {
		return core.Wallet{}, err
	}
	return wallet, nil
}

func (r *Repository) UserByLogin(ctx context.Context, login string) (auth.User, string, error) {
	var (
		user      auth.User
		hash      string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, login, password_hash, created_at FROM users WHERE lower(login) = lower(?)`,
		login).Scan(&user.ID, &user.Login, &hash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, "", core.ErrNotFound
	}
	if err != nil {
		return auth.User{}, "", fmt.Errorf("select user: %w", err)
	}
	if user.CreatedAt, err = decodeTime(createdAt); err != nil {
		return auth.User{}, "", err
	}
	return user, hash, nil
}

func (r *Repository) CreateSession(ctx context.Context, s auth.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		s.Token, s.UserID, encodeTime(s.ExpiresAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *Repository) WalletBySession(ctx context.Context, token string, now time.Time) (core.Wallet, error) {
	var wallet core.Wallet
	err := r.db.QueryRowContext(ctx,
		`SELECT w.id, w.user_id
		 FROM sessions s
		 JOIN wallets w ON w.user_id = s.user_id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, encodeTime(now)).Scan(&wallet.ID, &wallet.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("select session wallet: %w", err)
	}
	return wallet, nil
}

// Package auth resolves the acting user: registration, login sessions and
// token resolution. Registration seeds the new wallet with its default
// payment type and categories in one atomic unit, so the ledger never sees
// a wallet without them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"walletd/internal/core"
)

const (
	minPasswordLen = 8
	maxLoginLen    = 100
)

type User struct {
	ID        int64
	Login     string
	CreatedAt time.Time
}

// Session is an opaque bearer token with an expiry.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Store is the persistence surface for accounts and sessions.
type Store interface {
	// CreateAccount creates the user, its wallet and the seed records
	// (payment type "Cash"; categories Income, Expense and the reserved
	// Transfer) atomically. A duplicate login is reported as a
	// *core.ValidationError on the login field.
	CreateAccount(ctx context.Context, login, passwordHash string) (core.Wallet, error)
	UserByLogin(ctx context.Context, login string) (User, string, error)
	CreateSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, token string) error
	// WalletBySession resolves a live session token to the owner's wallet.
	WalletBySession(ctx context.Context, token string, now time.Time) (core.Wallet, error)
}

type Service struct {
	store      Store
	sessionTTL time.Duration
}

func NewService(store Store, sessionTTL time.Duration) *Service {
	return &Service{store: store, sessionTTL: sessionTTL}
}

// Register creates an account with its seeded wallet and opens a session.
func (s *Service) Register(ctx context.Context, login, password string) (core.Wallet, Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || len(login) > maxLoginLen {
		return core.Wallet{}, Session{}, core.NewValidationError("login", "login must be 1-100 characters")
	}
	if len(password) < minPasswordLen {
		return core.Wallet{}, Session{}, core.NewValidationError("password", "password must be at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return core.Wallet{}, Session{}, fmt.Errorf("hash password: %w", err)
	}
	wallet, err := s.store.CreateAccount(ctx, login, hash)
	if err != nil {
		return core.Wallet{}, Session{}, err
	}
	session, err := s.openSession(ctx, wallet.UserID)
	if err != nil {
		return core.Wallet{}, Session{}, err
	}
	return wallet, session, nil
}

// Login verifies credentials and opens a session. Unknown logins and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (Session, error) {
	user, hash, err := s.store.UserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Session{}, core.ErrUnauthenticated
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if !CheckPassword(password, hash) {
		return Session{}, core.ErrUnauthenticated
	}
	return s.openSession(ctx, user.ID)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Resolve maps a bearer token to the acting user's wallet.
func (s *Service) Resolve(ctx context.Context, token string) (core.Wallet, error) {
	if token == "" {
		return core.Wallet{}, core.ErrUnauthenticated
	}
	wallet, err := s.store.WalletBySession(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Wallet{}, core.ErrUnauthenticated
		}
		return core.Wallet{}, fmt.Errorf("resolve session: %w", err)
	}
	return wallet, nil
}

func (s *Service) openSession(ctx context.Context, userID int64) (Session, error) {
	session := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Package ledger implements the invariant-preserving operations over the
// wallet schema: transaction create/update/delete with balance maintenance,
// payment type and category deletion with reassignment, and transfers
// between payment types. Persistence is behind the Store interface so the
// algorithms stay unit-testable without a database.
package ledger

import (
	"context"
	"errors"
	"log/slog"

	"walletd/internal/core"
)

// Service orchestrates ledger operations over a Store and, optionally, an
// export publisher.
type Service struct {
	store  Store
	events ExportPublisher
}

func New(store Store, events ExportPublisher) *Service {
	return &Service{store: store, events: events}
}

// hideNotFound wraps lookups of id-addressed operation targets. A missing
// id is indistinguishable from another user's id, so core.ErrNotFound
// becomes core.ErrForbidden here.
func hideNotFound(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrForbidden
	}
	return err
}

// refError maps a failed lookup of a caller-chosen reference (payment type
// or category picked for a transaction) to a field-level validation error.
func refError(err error, field string) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NewValidationError(field, "unknown "+field)
	}
	return err
}

func (s *Service) publishExport(ctx context.Context, transactions ...core.Transaction) {
	if s.events == nil {
		return
	}
	for _, t := range transactions {
		if err := s.events.PublishTransactionExport(ctx, t.ID, t.WalletID); err != nil {
			// The entry is committed; export catches up via the pending sweep.
			slog.WarnContext(ctx, "Failed to publish export message",
				"transaction_id", t.ID,
				"wallet_id", t.WalletID,
				"error", err)
		}
	}
}

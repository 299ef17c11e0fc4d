package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"walletd/internal/core"
)

// TransactionInput carries the fields of a new transaction. Value may be
// submitted with either sign; it is normalized per the category type.
type TransactionInput struct {
	PaymentTypeID int64
	CategoryID    int64
	Value         decimal.Decimal
	Description   string
	Date          time.Time
}

// TransactionUpdate carries a partial update; nil fields keep the stored
// value.
type TransactionUpdate struct {
	PaymentTypeID *int64
	CategoryID    *int64
	Value         *decimal.Decimal
	Description   *string
	Date          *time.Time
}

// TransactionsView is the filtered transaction list plus its aggregates.
type TransactionsView struct {
	Transactions []core.Transaction
	Summary      core.Summary
}

// CreateTransaction records a ledger entry and adjusts the payment type
// balance in the same storage transaction.
func (s *Service) CreateTransaction(ctx context.Context, actor core.Wallet, in TransactionInput) (core.Transaction, error) {
	if in.Value.IsZero() {
		return core.Transaction{}, core.NewValidationError("value", "amount must be non-zero")
	}
	if err := core.ValidateDescription(in.Description); err != nil {
		return core.Transaction{}, core.NewValidationError("description", err.Error())
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	var out core.Transaction
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		pt, err := tx.PaymentType(ctx, actor.ID, in.PaymentTypeID)
		if err != nil {
			return refError(err, "payment_type")
		}
		if err := Authorize(actor, pt); err != nil {
			return err
		}
		cat, err := tx.Category(ctx, actor.ID, in.CategoryID)
		if err != nil {
			return refError(err, "category")
		}
		if cat.Service {
			return core.NewValidationError("category", "reserved category cannot be used")
		}

		t := core.Transaction{
			WalletID:      actor.ID,
			PaymentTypeID: pt.ID,
			CategoryID:    cat.ID,
			Value:         core.NormalizeValue(cat.Type, in.Value),
			Description:   in.Description,
			Date:          in.Date,
		}
		id, err := tx.InsertTransaction(ctx, t)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		t.ID = id

		pt.Balance = pt.Balance.Add(t.Value)
		if err := tx.UpdatePaymentType(ctx, pt); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		out = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishExport(ctx, out)
	return out, nil
}

func (s *Service) Transaction(ctx context.Context, actor core.Wallet, id int64) (core.Transaction, error) {
	t, err := s.store.Transaction(ctx, actor.ID, id)
	if err != nil {
		return core.Transaction{}, hideNotFound(err)
	}
	if err := Authorize(actor, t); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// UpdateTransaction edits a transaction and keeps both affected balances in
// sync. The income/expense classification of an entry is immutable: the
// category may change only to another of the same type.
func (s *Service) UpdateTransaction(ctx context.Context, actor core.Wallet, id int64, in TransactionUpdate) (core.Transaction, error) {
	var out core.Transaction
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		old, err := tx.Transaction(ctx, actor.ID, id)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, old); err != nil {
			return err
		}
		oldCat, err := tx.Category(ctx, actor.ID, old.CategoryID)
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}

		next := old
		cat := oldCat
		if in.CategoryID != nil && *in.CategoryID != old.CategoryID {
			cat, err = tx.Category(ctx, actor.ID, *in.CategoryID)
			if err != nil {
				return refError(err, "category")
			}
			if cat.Service {
				return core.NewValidationError("category", "reserved category cannot be used")
			}
			if cat.Type != oldCat.Type {
				return core.NewValidationError("category", "category type cannot change")
			}
			next.CategoryID = cat.ID
		}
		if in.Description != nil {
			if err := core.ValidateDescription(*in.Description); err != nil {
				return core.NewValidationError("description", err.Error())
			}
			next.Description = *in.Description
		}
		if in.Date != nil {
			if in.Date.IsZero() {
				return core.NewValidationError("date", "date must be a valid timestamp")
			}
			next.Date = *in.Date
		}
		if in.Value != nil {
			if in.Value.IsZero() {
				return core.NewValidationError("value", "amount must be non-zero")
			}
			next.Value = *in.Value
		}
		next.Value = core.NormalizeValue(cat.Type, next.Value)

		if in.PaymentTypeID != nil {
			next.PaymentTypeID = *in.PaymentTypeID
		}
		if next.PaymentTypeID != old.PaymentTypeID {
			// Roll the value off the old payment type and onto the new one.
			oldPT, err := tx.PaymentType(ctx, actor.ID, old.PaymentTypeID)
			if err != nil {
				return fmt.Errorf("load payment type: %w", err)
			}
			newPT, err := tx.PaymentType(ctx, actor.ID, next.PaymentTypeID)
			if err != nil {
				return refError(err, "payment_type")
			}
			oldPT.Balance = oldPT.Balance.Sub(old.Value)
			if err := tx.UpdatePaymentType(ctx, oldPT); err != nil {
				return fmt.Errorf("update old balance: %w", err)
			}
			newPT.Balance = newPT.Balance.Add(next.Value)
			if err := tx.UpdatePaymentType(ctx, newPT); err != nil {
				return fmt.Errorf("update new balance: %w", err)
			}
		} else if !next.Value.Equal(old.Value) {
			pt, err := tx.PaymentType(ctx, actor.ID, old.PaymentTypeID)
			if err != nil {
				return fmt.Errorf("load payment type: %w", err)
			}
			pt.Balance = pt.Balance.Add(next.Value.Sub(old.Value))
			if err := tx.UpdatePaymentType(ctx, pt); err != nil {
				return fmt.Errorf("update balance: %w", err)
			}
		}

		if err := tx.UpdateTransaction(ctx, next); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		out = next
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return out, nil
}

// DeleteTransaction removes an entry and rolls its value off the payment
// type balance.
func (s *Service) DeleteTransaction(ctx context.Context, actor core.Wallet, id int64) error {
	return s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		t, err := tx.Transaction(ctx, actor.ID, id)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, t); err != nil {
			return err
		}
		pt, err := tx.PaymentType(ctx, actor.ID, t.PaymentTypeID)
		if err != nil {
			return fmt.Errorf("load payment type: %w", err)
		}
		pt.Balance = pt.Balance.Sub(t.Value)
		if err := tx.UpdatePaymentType(ctx, pt); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		if err := tx.DeleteTransaction(ctx, actor.ID, t.ID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
}

// ListTransactions returns the wallet's transactions newest-first filtered
// by f, together with the four view aggregates. The all-time sums ignore
// the active filter.
func (s *Service) ListTransactions(ctx context.Context, actor core.Wallet, f core.TransactionFilter) (TransactionsView, error) {
	var (
		all  []core.Transaction
		cats []core.Category
	)
	// One transaction so the category types match the listed entries even
	// when a concurrent deletion commits mid-request.
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		if all, err = tx.ListTransactions(ctx, actor.ID); err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		if cats, err = tx.ListCategories(ctx, actor.ID, true); err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return TransactionsView{}, err
	}
	types := make(map[int64]core.CategoryType, len(cats))
	for _, c := range cats {
		types[c.ID] = c.Type
	}

	// Aggregates cover the whole filtered set; the limit only truncates
	// the returned list.
	unlimited := f
	unlimited.Limit = 0
	filtered := unlimited.Apply(all)
	listed := filtered
	if f.Limit > 0 && len(listed) > f.Limit {
		listed = listed[:f.Limit]
	}
	return TransactionsView{
		Transactions: listed,
		Summary: core.Summarize(filtered, all, func(id int64) core.CategoryType {
			return types[id]
		}),
	}, nil
}

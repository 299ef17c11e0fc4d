package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"walletd/internal/core"
)

func (s *Service) ListPaymentTypes(ctx context.Context, actor core.Wallet) ([]core.PaymentType, error) {
	return s.store.ListPaymentTypes(ctx, actor.ID)
}

// CreatePaymentType adds a named fund. The opening balance is applied
// directly without a synthetic transaction. Names are unique per wallet,
// case-insensitively.
func (s *Service) CreatePaymentType(ctx context.Context, actor core.Wallet, name string, balance decimal.Decimal) (core.PaymentType, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.PaymentType{}, core.NewValidationError("name", err.Error())
	}

	var out core.PaymentType
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := checkPaymentTypeName(ctx, tx, actor.ID, name); err != nil {
			return err
		}
		pt := core.PaymentType{WalletID: actor.ID, Name: name, Balance: balance}
		id, err := tx.InsertPaymentType(ctx, pt)
		if err != nil {
			return fmt.Errorf("insert payment type: %w", err)
		}
		pt.ID = id
		out = pt
		return nil
	})
	if err != nil {
		return core.PaymentType{}, err
	}
	return out, nil
}

func (s *Service) RenamePaymentType(ctx context.Context, actor core.Wallet, id int64, name string) (core.PaymentType, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.PaymentType{}, core.NewValidationError("name", err.Error())
	}

	var out core.PaymentType
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		pt, err := tx.PaymentType(ctx, actor.ID, id)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, pt); err != nil {
			return err
		}
		if !strings.EqualFold(pt.Name, name) {
			if err := checkPaymentTypeName(ctx, tx, actor.ID, name); err != nil {
				return err
			}
		}
		pt.Name = name
		if err := tx.UpdatePaymentType(ctx, pt); err != nil {
			return fmt.Errorf("update payment type: %w", err)
		}
		out = pt
		return nil
	})
	if err != nil {
		return core.PaymentType{}, err
	}
	return out, nil
}

// DeletePaymentType removes a payment type after re-pointing every
// referencing transaction to the replacement and folding the deleted
// balance into it. Reassignment, balance fold and removal are one atomic
// unit. The last payment type of a wallet cannot be deleted.
func (s *Service) DeletePaymentType(ctx context.Context, actor core.Wallet, id, replacementID int64) error {
	if replacementID == 0 {
		return core.NewValidationError("replacement", "replacement payment type is required")
	}
	if replacementID == id {
		return core.NewValidationError("replacement", "replacement must differ from the deleted payment type")
	}
	return s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		target, err := tx.PaymentType(ctx, actor.ID, id)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, target); err != nil {
			return err
		}
		repl, err := tx.PaymentType(ctx, actor.ID, replacementID)
		if err != nil {
			return refError(err, "replacement")
		}

		moved, err := tx.ReassignPaymentType(ctx, actor.ID, target.ID, repl.ID)
		if err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		repl.Balance = repl.Balance.Add(target.Balance)
		if err := tx.UpdatePaymentType(ctx, repl); err != nil {
			return fmt.Errorf("fold balance: %w", err)
		}
		if err := tx.DeletePaymentType(ctx, actor.ID, target.ID); err != nil {
			return fmt.Errorf("delete payment type: %w", err)
		}
		slog.InfoContext(ctx, "Payment type deleted",
			"wallet_id", actor.ID,
			"payment_type_id", target.ID,
			"replacement_id", repl.ID,
			"transactions_moved", moved)
		return nil
	})
}

func checkPaymentTypeName(ctx context.Context, tx Tx, walletID int64, name string) error {
	_, err := tx.PaymentTypeByName(ctx, walletID, name)
	switch {
	case err == nil:
		return core.NewValidationError("name", "a payment type with that name already exists")
	case errors.Is(err, core.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check name: %w", err)
	}
}

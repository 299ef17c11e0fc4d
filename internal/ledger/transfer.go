package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletd/internal/core"
)

// TransferInput moves a positive amount between two payment types of the
// caller's wallet.
type TransferInput struct {
	FromID      int64
	ToID        int64
	Value       decimal.Decimal
	Description string
}

// Transfer debits one payment type and credits another, recording the two
// legs as linked transactions under the reserved Transfer category. All
// four writes (two balances, two legs) are one atomic unit.
func (s *Service) Transfer(ctx context.Context, actor core.Wallet, in TransferInput) ([2]core.Transaction, error) {
	var legs [2]core.Transaction
	if !in.Value.IsPositive() {
		return legs, core.NewValidationError("value", "amount must be positive")
	}
	if in.FromID == in.ToID {
		return legs, core.NewValidationError("payment_type_to", "cannot transfer between the same payment type")
	}
	if err := core.ValidateDescription(in.Description); err != nil {
		return legs, core.NewValidationError("description", err.Error())
	}

	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		from, err := tx.PaymentType(ctx, actor.ID, in.FromID)
		if err != nil {
			return hideNotFound(err)
		}
		to, err := tx.PaymentType(ctx, actor.ID, in.ToID)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, from); err != nil {
			return err
		}
		if err := Authorize(actor, to); err != nil {
			return err
		}
		transferCat, err := tx.CategoryByName(ctx, actor.ID, core.TransferCategoryName)
		if err != nil {
			return fmt.Errorf("load transfer category: %w", err)
		}

		desc := fmt.Sprintf("Transfer from %q to %q", from.Name, to.Name)
		if in.Description != "" {
			desc += "\n" + in.Description
		}
		group := uuid.NewString()
		now := time.Now().UTC()

		legs[0] = core.Transaction{
			WalletID:      actor.ID,
			PaymentTypeID: from.ID,
			CategoryID:    transferCat.ID,
			Value:         in.Value.Neg(),
			Description:   desc,
			Date:          now,
			TransferGroup: group,
		}
		legs[1] = core.Transaction{
			WalletID:      actor.ID,
			PaymentTypeID: to.ID,
			CategoryID:    transferCat.ID,
			Value:         in.Value,
			Description:   desc,
			Date:          now,
			TransferGroup: group,
		}
		for i := range legs {
			id, err := tx.InsertTransaction(ctx, legs[i])
			if err != nil {
				return fmt.Errorf("insert transfer leg: %w", err)
			}
			legs[i].ID = id
		}

		from.Balance = from.Balance.Sub(in.Value)
		if err := tx.UpdatePaymentType(ctx, from); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		to.Balance = to.Balance.Add(in.Value)
		if err := tx.UpdatePaymentType(ctx, to); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return [2]core.Transaction{}, err
	}

	s.publishExport(ctx, legs[0], legs[1])
	return legs, nil
}

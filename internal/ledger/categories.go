package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"walletd/internal/core"
)

// ListCategories returns the wallet's categories with the reserved service
// category hidden, ordered by usage.
func (s *Service) ListCategories(ctx context.Context, actor core.Wallet) ([]core.Category, error) {
	return s.store.ListCategories(ctx, actor.ID, false)
}

func (s *Service) CreateCategory(ctx context.Context, actor core.Wallet, name string, ctype core.CategoryType) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Category{}, core.NewValidationError("name", err.Error())
	}
	if ctype != core.Income && ctype != core.Expense {
		return core.Category{}, core.NewValidationError("type", "type must be income or expense")
	}

	var out core.Category
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := checkCategoryName(ctx, tx, actor.ID, name); err != nil {
			return err
		}
		c := core.Category{WalletID: actor.ID, Name: name, Type: ctype}
		id, err := tx.InsertCategory(ctx, c)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		c.ID = id
		out = c
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return out, nil
}

func (s *Service) RenameCategory(ctx context.Context, actor core.Wallet, id int64, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateName(name); err != nil {
		return core.Category{}, core.NewValidationError("name", err.Error())
	}

	var out core.Category
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		c, err := tx.Category(ctx, actor.ID, id)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, c); err != nil {
			return err
		}
		if c.Service {
			return core.NewValidationError("category", "reserved category cannot be renamed")
		}
		if !strings.EqualFold(c.Name, name) {
			if err := checkCategoryName(ctx, tx, actor.ID, name); err != nil {
				return err
			}
		}
		c.Name = name
		if err := tx.UpdateCategory(ctx, c); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return out, nil
}

// DeleteCategory removes a category after re-pointing its transactions to a
// replacement of the same type. Balances are untouched: reassignment does
// not change any transaction value. The reserved Transfer category and the
// last category of a type cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, actor core.Wallet, id, replacementID int64) error {
	if replacementID == 0 {
		return core.NewValidationError("replacement", "replacement category is required")
	}
	if replacementID == id {
		return core.NewValidationError("replacement", "replacement must differ from the deleted category")
	}
	return s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		target, err := tx.Category(ctx, actor.ID, id)
		if err != nil {
			return hideNotFound(err)
		}
		if err := Authorize(actor, target); err != nil {
			return err
		}
		if target.Service {
			return core.NewValidationError("category", "reserved category cannot be deleted")
		}
		repl, err := tx.Category(ctx, actor.ID, replacementID)
		if err != nil {
			return refError(err, "replacement")
		}
		if repl.Service {
			return core.NewValidationError("replacement", "reserved category cannot be used")
		}
		if repl.Type != target.Type {
			return core.NewValidationError("replacement", "replacement must have the same type")
		}

		moved, err := tx.ReassignCategory(ctx, actor.ID, target.ID, repl.ID)
		if err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		if err := tx.DeleteCategory(ctx, actor.ID, target.ID); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		slog.InfoContext(ctx, "Category deleted",
			"wallet_id", actor.ID,
			"category_id", target.ID,
			"replacement_id", repl.ID,
			"transactions_moved", moved)
		return nil
	})
}

func checkCategoryName(ctx context.Context, tx Tx, walletID int64, name string) error {
	_, err := tx.CategoryByName(ctx, walletID, name)
	switch {
	case err == nil:
		return core.NewValidationError("name", "a category with that name already exists")
	case errors.Is(err, core.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check name: %w", err)
	}
}
